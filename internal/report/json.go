package report

import (
	"encoding/json"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/AndreyAkinshin/testimpact/internal/plan"
	"github.com/AndreyAkinshin/testimpact/internal/testparser"
	"github.com/AndreyAkinshin/testimpact/internal/vcs"
)

// Event is one NDJSON line.
type Event struct {
	EventType string `json:"event_type"`
	Payload   any    `json:"payload"`
	Timestamp int64  `json:"timestamp"` // milliseconds since the Unix epoch
	RunID     string `json:"run_id"`
}

// JSON writes one Event per line. All events of a reporter share a run id.
type JSON struct {
	enc   *json.Encoder
	runID string
	now   func() time.Time
}

// NewJSON returns a JSON reporter on w with a fresh run id.
func NewJSON(w io.Writer) *JSON {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSON{enc: enc, runID: uuid.NewString(), now: time.Now}
}

// RunID returns the identifier attached to every event.
func (j *JSON) RunID() string {
	return j.runID
}

type empty struct{}

func (j *JSON) emit(eventType string, payload any) {
	_ = j.enc.Encode(Event{
		EventType: eventType,
		Payload:   payload,
		Timestamp: j.now().UnixMilli(),
		RunID:     j.runID,
	})
}

type messagePayload struct {
	Message string `json:"message"`
}

func (j *JSON) Note(message string) { j.emit("note", messagePayload{message}) }
func (j *JSON) Tip(message string) { j.emit("tip", messagePayload{message}) }
func (j *JSON) Error(message string) { j.emit("error", messagePayload{message}) }

type changedFile struct {
	Path       string         `json:"path"`
	OldPath    string         `json:"old_path,omitempty"`
	FileType   vcs.FileType   `json:"file_type"`
	ChangeType vcs.ChangeType `json:"change_type"`
}

func (j *JSON) ChangedFiles(files []vcs.ChangedFile, root string) {
	out := make([]changedFile, 0, len(files))
	for _, f := range files {
		cf := changedFile{Path: jsonPath(root, f.CurrentPath), FileType: f.FileType, ChangeType: f.ChangeType}
		if f.OldPath != "" {
			cf.OldPath = jsonPath(root, f.OldPath)
		}
		out = append(out, cf)
	}
	j.emit("changed_files", struct {
		Root  string        `json:"root"`
		Files []changedFile `json:"files"`
	}{root, out})
}

func jsonPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func (j *JSON) TestStart(name string, index, total int) {
	j.emit("test_start", struct {
		Package string `json:"package"`
		Index   int    `json:"index"`
		Total   int    `json:"total"`
	}{name, index, total})
}

func (j *JSON) TestResult(name string, success bool, duration time.Duration) {
	j.emit("test_result", struct {
		Package    string `json:"package"`
		Success    bool   `json:"success"`
		DurationMs int64  `json:"duration_ms"`
	}{name, success, duration.Milliseconds()})
}

func (j *JSON) TestSummary(passed, failed int, duration time.Duration) {
	j.emit("test_summary", struct {
		Passed       int     `json:"passed"`
		Failed       int     `json:"failed"`
		DurationSecs float64 `json:"duration_secs"`
	}{passed, failed, duration.Seconds()})
}

func (j *JSON) TestCounts(counts testparser.TestCounts) {
	j.emit("test_counts", counts)
}

func (j *JSON) PlanSummary(p *plan.Plan) {
	counts := p.Counts()
	j.emit("plan_summary", struct {
		Mode           plan.Mode `json:"mode"`
		ManualCount    int       `json:"manual_count"`
		DirectCount    int       `json:"direct_count"`
		DependentCount int       `json:"dependent_count"`
		SkipDependents bool      `json:"skip_dependents"`
		Packages       []string  `json:"packages"`
	}{p.Mode, counts.Manual, counts.Modified, counts.Dependent, !p.WithDependents, p.PackagesToTest()})
}

// TestFailures emits one test_failure event per failed package.
func (j *JSON) TestFailures(failures []Failure) {
	for _, f := range failures {
		j.TestFailureDetails(f.Name, f.Output)
	}
}

func (j *JSON) TestFailureDetails(name, output string) {
	j.emit("test_failure", struct {
		Package string `json:"package"`
		Output  string `json:"output"`
	}{name, output})
}

func (j *JSON) NoTests() { j.emit("no_tests", empty{}) }
func (j *JSON) DryRun() { j.emit("dry_run", empty{}) }
