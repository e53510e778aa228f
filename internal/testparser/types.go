// Package testparser extracts per-test counts from test runner output.
package testparser

// FailedTest holds information about a single failed test.
type FailedTest struct {
	Name   string `json:"name"`             // e.g. "tests::it_works" or "TestFoo/subtest"
	Reason string `json:"reason,omitempty"` // first line of the failure message
}

// TestCounts holds parsed test result counts for one or more packages.
type TestCounts struct {
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	Skipped     int          `json:"skipped"`
	Total       int          `json:"total"`
	Parsed      bool         `json:"parsed"` // true if counts were successfully extracted
	FailedTests []FailedTest `json:"failed_tests,omitempty"`
}

// Add aggregates other into tc. Parsed is sticky: the aggregate is parsed
// when at least one of its parts was.
func (tc *TestCounts) Add(other *TestCounts) {
	if other == nil {
		return
	}
	tc.Passed += other.Passed
	tc.Failed += other.Failed
	tc.Skipped += other.Skipped
	tc.Total += other.Total
	tc.FailedTests = append(tc.FailedTests, other.FailedTests...)
	if other.Parsed {
		tc.Parsed = true
	}
}

// Parser extracts counts from the combined output of one test command.
type Parser interface {
	Parse(output string) TestCounts
	Name() string
}

// maxReasonLen keeps failure reasons on one terminal line.
const maxReasonLen = 80

func truncateReason(reason string) string {
	if len(reason) > maxReasonLen {
		return reason[:maxReasonLen-3] + "..."
	}
	return reason
}
