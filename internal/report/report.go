// Package report renders run events for people (console) or tools (NDJSON).
package report

import (
	"io"
	"time"

	"github.com/AndreyAkinshin/testimpact/internal/errors"
	"github.com/AndreyAkinshin/testimpact/internal/plan"
	"github.com/AndreyAkinshin/testimpact/internal/testparser"
	"github.com/AndreyAkinshin/testimpact/internal/vcs"
)

// Reporter receives the events of one run. Implementations are not safe
// for concurrent use; the executor reports from a single goroutine.
type Reporter interface {
	Note(message string)
	Tip(message string)
	Error(message string)
	ChangedFiles(files []vcs.ChangedFile, root string)
	TestStart(name string, index, total int)
	TestResult(name string, success bool, duration time.Duration)
	TestSummary(passed, failed int, duration time.Duration)
	// TestCounts reports per-test counts parsed from runner output. It is
	// only sent when at least one package's output could be parsed.
	TestCounts(counts testparser.TestCounts)
	PlanSummary(p *plan.Plan)
	TestFailures(failures []Failure)
	TestFailureDetails(name, output string)
	NoTests()
	DryRun()
}

// Failure is the captured output of a package whose tests failed.
type Failure struct {
	Name   string
	Output string
}

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Formats lists the accepted --format values.
func Formats() []string {
	return []string{FormatConsole, FormatJSON}
}

// New returns the reporter for format writing to w.
func New(format string, w io.Writer, verbose bool) (Reporter, error) {
	switch format {
	case FormatConsole, "":
		return NewConsole(w, verbose), nil
	case FormatJSON:
		return NewJSON(w), nil
	default:
		return nil, errors.InvalidArgumentsf("unknown output format %q (expected console or json)", format)
	}
}
