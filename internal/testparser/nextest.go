package testparser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nextestSummaryRegex = regexp.MustCompile(`(?m)^\s*Summary \[[^\]]*\]\s+(\d+) tests? run: (.*)$`)
	nextestFailRegex    = regexp.MustCompile(`(?m)^\s*(?:FAIL|TIMEOUT|SIGSEGV|SIGABRT|SIGKILL|ABORT) \[[^\]]*\] (.+?)\s*$`)
)

// NextestParser parses `cargo nextest run` output.
type NextestParser struct{}

// Name returns the parser name.
func (p *NextestParser) Name() string {
	return "nextest"
}

// Parse reads the final summary line:
//
//	Summary [   0.010s] 3 tests run: 2 passed, 1 failed, 1 skipped
//
// Timed out tests count as failed. Failing test names come from the status
// lines (`FAIL [   0.004s] my-crate tests::broken`), which nextest repeats
// at the end of the run.
func (p *NextestParser) Parse(output string) TestCounts {
	counts := TestCounts{}

	summaries := nextestSummaryRegex.FindAllStringSubmatch(output, -1)
	if len(summaries) == 0 {
		return counts
	}
	summary := summaries[len(summaries)-1]

	run, _ := strconv.Atoi(summary[1])
	for _, part := range strings.Split(summary[2], ",") {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 0 {
			continue
		}
		switch strings.Join(fields[1:], " ") {
		case "passed":
			counts.Passed += n
		case "failed", "timed out":
			counts.Failed += n
		case "skipped":
			counts.Skipped += n
		}
	}
	counts.Total = run + counts.Skipped
	counts.Parsed = true

	lines := strings.Split(output, "\n")
	seen := make(map[string]bool)
	for _, m := range nextestFailRegex.FindAllStringSubmatch(output, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		reason := panicReason(lines, nextestSection("STDERR", name))
		if reason == "" {
			reason = panicReason(lines, nextestSection("STDOUT", name))
		}
		counts.FailedTests = append(counts.FailedTests, FailedTest{Name: name, Reason: reason})
	}

	return counts
}

// nextestSection matches captured output headers such as
// `--- STDERR:              core tests::b ---`.
func nextestSection(stream, name string) func(string) bool {
	return func(line string) bool {
		return strings.HasPrefix(line, "--- "+stream+":") && strings.HasSuffix(line, " "+name+" ---")
	}
}
