package testparser

import (
	"regexp"
	"strings"
)

var (
	goResultLine = regexp.MustCompile(`^(\s*)--- (PASS|FAIL|SKIP): (\S+)`)
	goErrorLine  = regexp.MustCompile(`^\s+\S+\.go:\d+: (.*)$`)
)

// GoParser parses `go test` output.
type GoParser struct{}

// Name returns the parser name.
func (p *GoParser) Name() string {
	return "go"
}

// Parse counts the per-test result lines go test prints:
//
//	--- PASS: TestFoo (0.00s)
//	--- FAIL: TestBar (0.01s)
//	    --- FAIL: TestBar/sub (0.00s)
//	        bar_test.go:15: expected 1, got 2
//
// Passing tests are only listed with -v; a quiet run of a healthy module
// prints package lines alone and is reported as unparsed. The failure
// reason is the first file:line message logged by the test, which go test
// prints before the FAIL line with -v and after it otherwise.
func (p *GoParser) Parse(output string) TestCounts {
	counts := TestCounts{}

	var (
		pending []string    // messages since the last boundary
		current *FailedTest // last FAIL still waiting for its reason
	)

	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "=== RUN") {
			pending, current = nil, nil
			continue
		}

		if m := goResultLine.FindStringSubmatch(line); m != nil {
			switch m[2] {
			case "PASS":
				counts.Passed++
			case "SKIP":
				counts.Skipped++
			case "FAIL":
				counts.Failed++
				ft := FailedTest{Name: m[3]}
				if len(pending) > 0 {
					ft.Reason = truncateReason(pending[0])
				}
				counts.FailedTests = append(counts.FailedTests, ft)
				current = &counts.FailedTests[len(counts.FailedTests)-1]
				pending = nil
				continue
			}
			pending, current = nil, nil
			continue
		}

		m := goErrorLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		msg := strings.TrimSpace(m[1])
		if current != nil && current.Reason == "" {
			current.Reason = truncateReason(msg)
			continue
		}
		pending = append(pending, msg)
	}

	counts.Total = counts.Passed + counts.Failed + counts.Skipped
	counts.Parsed = counts.Total > 0
	return counts
}
