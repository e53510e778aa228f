package mocks

import (
	"sync"
	"time"

	"github.com/AndreyAkinshin/testimpact/internal/plan"
	"github.com/AndreyAkinshin/testimpact/internal/report"
	"github.com/AndreyAkinshin/testimpact/internal/testparser"
	"github.com/AndreyAkinshin/testimpact/internal/vcs"
)

// Event is one recorded reporter call. Only the fields relevant to Type
// are set.
type Event struct {
	Type     string
	Message  string
	Name     string
	Output   string
	Index    int
	Total    int
	Success  bool
	Duration time.Duration
	Passed   int
	Failed   int
	Plan     *plan.Plan
	Files    []vcs.ChangedFile
	Root     string
	Failures []report.Failure
	Counts   testparser.TestCounts
}

// Reporter implements report.Reporter by recording every call.
type Reporter struct {
	mu     sync.Mutex
	events []Event
}

// NewReporter creates an empty recording reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in call order.
func (r *Reporter) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in call order.
func (r *Reporter) Types() []string {
	events := r.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

// Find returns the first event of the given type.
func (r *Reporter) Find(eventType string) (Event, bool) {
	for _, e := range r.Events() {
		if e.Type == eventType {
			return e, true
		}
	}
	return Event{}, false
}

func (r *Reporter) Note(message string) { r.record(Event{Type: "note", Message: message}) }
func (r *Reporter) Tip(message string) { r.record(Event{Type: "tip", Message: message}) }
func (r *Reporter) Error(message string) { r.record(Event{Type: "error", Message: message}) }

func (r *Reporter) ChangedFiles(files []vcs.ChangedFile, root string) {
	r.record(Event{Type: "changed_files", Files: files, Root: root})
}

func (r *Reporter) TestStart(name string, index, total int) {
	r.record(Event{Type: "test_start", Name: name, Index: index, Total: total})
}

func (r *Reporter) TestResult(name string, success bool, duration time.Duration) {
	r.record(Event{Type: "test_result", Name: name, Success: success, Duration: duration})
}

func (r *Reporter) TestSummary(passed, failed int, duration time.Duration) {
	r.record(Event{Type: "test_summary", Passed: passed, Failed: failed, Duration: duration})
}

func (r *Reporter) TestCounts(counts testparser.TestCounts) {
	r.record(Event{Type: "test_counts", Counts: counts})
}

func (r *Reporter) PlanSummary(p *plan.Plan) {
	r.record(Event{Type: "plan_summary", Plan: p})
}

func (r *Reporter) TestFailures(failures []report.Failure) {
	r.record(Event{Type: "test_failures", Failures: failures})
}

func (r *Reporter) TestFailureDetails(name, output string) {
	r.record(Event{Type: "test_failure_details", Name: name, Output: output})
}

func (r *Reporter) NoTests() { r.record(Event{Type: "no_tests"}) }
func (r *Reporter) DryRun() { r.record(Event{Type: "dry_run"}) }
