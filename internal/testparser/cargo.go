package testparser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	cargoResultRegex = regexp.MustCompile(`test result: \w+\.\s*(\d+) passed;\s*(\d+) failed;\s*(\d+) ignored`)
	cargoFailedRegex = regexp.MustCompile(`(?m)^test (\S+) \.\.\. FAILED\s*$`)
)

// CargoParser parses libtest output produced by `cargo test`.
type CargoParser struct{}

// Name returns the parser name.
func (p *CargoParser) Name() string {
	return "cargo"
}

// Parse sums every libtest summary line, one per test binary:
//
//	test result: ok. 47 passed; 0 failed; 3 ignored; 0 measured; 0 filtered out; finished in 0.12s
//
// Failed tests are collected from `test <name> ... FAILED` lines, with the
// panic message taken from the matching `---- <name> stdout ----` section.
func (p *CargoParser) Parse(output string) TestCounts {
	counts := TestCounts{}

	matches := cargoResultRegex.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return counts
	}

	for _, match := range matches {
		passed, _ := strconv.Atoi(match[1])
		failed, _ := strconv.Atoi(match[2])
		ignored, _ := strconv.Atoi(match[3])

		counts.Passed += passed
		counts.Failed += failed
		counts.Skipped += ignored
	}
	counts.Total = counts.Passed + counts.Failed + counts.Skipped
	counts.Parsed = true

	lines := strings.Split(output, "\n")
	seen := make(map[string]bool)
	for _, m := range cargoFailedRegex.FindAllStringSubmatch(output, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		counts.FailedTests = append(counts.FailedTests, FailedTest{
			Name: name,
			Reason: panicReason(lines, func(line string) bool {
				return line == "---- "+name+" stdout ----"
			}),
		})
	}

	return counts
}

// panicReason finds the first section whose header line satisfies isHeader
// and returns the message of the first panic in it. Both the current two-line form
//
//	thread 'x' panicked at src/lib.rs:10:9:
//	assertion failed: ok
//
// and the older single-line form `panicked at 'msg', src/lib.rs:10:9` are
// understood.
func panicReason(lines []string, isHeader func(line string) bool) string {
	start := -1
	for i, line := range lines {
		if isHeader(strings.TrimSpace(line)) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "---- ") || strings.HasPrefix(line, "--- STD") {
			break
		}
		_, after, found := strings.Cut(line, "panicked at ")
		if !found {
			continue
		}
		if strings.HasSuffix(after, ":") {
			for j := i + 1; j < len(lines); j++ {
				if next := strings.TrimSpace(lines[j]); next != "" {
					return truncateReason(next)
				}
			}
			return ""
		}
		if strings.HasPrefix(after, "'") {
			if end := strings.LastIndex(after, "', "); end > 0 {
				return truncateReason(after[1:end])
			}
		}
		return truncateReason(after)
	}
	return ""
}
