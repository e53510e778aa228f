package executor

import (
	"time"

	"github.com/AndreyAkinshin/testimpact/internal/report"
	"github.com/AndreyAkinshin/testimpact/internal/testparser"
)

// TestResult is the outcome of testing one package.
type TestResult struct {
	Name     string                `json:"name"`
	Success  bool                  `json:"success"`
	Output   string                `json:"output"`
	Duration time.Duration         `json:"duration"`
	TimedOut bool                  `json:"timed_out,omitempty"`
	Counts   testparser.TestCounts `json:"counts"`
}

// TestResults partitions results into passed and failed, each in
// execution order.
type TestResults struct {
	Passed   []TestResult  `json:"passed"`
	Failed   []TestResult  `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// Add appends r to the matching partition.
func (rs *TestResults) Add(r TestResult) {
	if r.Success {
		rs.Passed = append(rs.Passed, r)
	} else {
		rs.Failed = append(rs.Failed, r)
	}
}

// HasFailures reports whether any package failed.
func (rs *TestResults) HasFailures() bool {
	return len(rs.Failed) > 0
}

// Len returns the number of packages that ran.
func (rs *TestResults) Len() int {
	return len(rs.Passed) + len(rs.Failed)
}

// FailedNames returns the failed package names in execution order.
func (rs *TestResults) FailedNames() []string {
	names := make([]string, 0, len(rs.Failed))
	for _, r := range rs.Failed {
		names = append(names, r.Name)
	}
	return names
}

// Failures returns the captured output of every failed package.
func (rs *TestResults) Failures() []report.Failure {
	failures := make([]report.Failure, 0, len(rs.Failed))
	for _, r := range rs.Failed {
		failures = append(failures, report.Failure{Name: r.Name, Output: r.Output})
	}
	return failures
}

// Counts aggregates the parsed per-test counts of all packages.
func (rs *TestResults) Counts() testparser.TestCounts {
	var total testparser.TestCounts
	for i := range rs.Passed {
		total.Add(&rs.Passed[i].Counts)
	}
	for i := range rs.Failed {
		total.Add(&rs.Failed[i].Counts)
	}
	return total
}
