package report

import (
	"io"
	"path/filepath"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/testimpact/internal/output"
	"github.com/AndreyAkinshin/testimpact/internal/plan"
	"github.com/AndreyAkinshin/testimpact/internal/testparser"
	"github.com/AndreyAkinshin/testimpact/internal/vcs"
)

// Console writes human-readable progress lines.
type Console struct {
	w       *output.Writer
	verbose bool
	title   cases.Caser
	planned []string // packages of the last reported plan
}

// NewConsole returns a Console on w, colored when w is a terminal.
func NewConsole(w io.Writer, verbose bool) *Console {
	return NewConsoleWithWriter(output.NewWithWriters(w, w, output.IsTerminal(w)), verbose)
}

// NewConsoleWithWriter returns a Console on an existing output.Writer.
func NewConsoleWithWriter(w *output.Writer, verbose bool) *Console {
	return &Console{w: w, verbose: verbose, title: cases.Title(language.English)}
}

func (c *Console) Note(message string) { c.w.Note("%s", message) }
func (c *Console) Tip(message string) { c.w.Tip("%s", message) }
func (c *Console) Error(message string) { c.w.ErrorLine("%s", message) }

// ChangedFiles lists the changeset relative to root. It prints nothing
// unless verbose.
func (c *Console) ChangedFiles(files []vcs.ChangedFile, root string) {
	if !c.verbose {
		return
	}
	if len(files) == 0 {
		c.w.Println("no changed files")
		c.w.Println("")
		return
	}

	c.w.Println("%d changed %s:", len(files), output.Pluralize(len(files), "file", "files"))
	for _, f := range files {
		line := changeMarker(f.ChangeType) + " " + relative(root, f.CurrentPath)
		if f.OldPath != "" {
			line += " (from " + relative(root, f.OldPath) + ")"
		}
		c.w.Println("    %s", c.w.Dim(line))
	}
	c.w.Println("")
}

func changeMarker(t vcs.ChangeType) string {
	switch t {
	case vcs.ChangeAdded:
		return "A"
	case vcs.ChangeRemoved:
		return "D"
	default:
		return "M"
	}
}

func relative(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func (c *Console) TestStart(name string, index, total int) {
	if c.verbose {
		c.w.Println("test package %s", name)
		return
	}
	c.w.Print("test package %s ... ", name)
}

func (c *Console) TestResult(name string, success bool, duration time.Duration) {
	if c.verbose {
		c.w.Println("")
		return
	}
	c.w.Println("%s", c.w.Status(success))
}

func (c *Console) TestSummary(passed, failed int, duration time.Duration) {
	if !c.verbose {
		c.w.Println("")
	}
	c.w.Println("test result: %s. %d passed; %d failed; finished in %.2fs",
		c.w.Status(failed == 0), passed, failed, duration.Seconds())
	c.w.Println("")
}

// TestCounts prints the per-test totals and the failing tests with their
// first failure line.
func (c *Console) TestCounts(counts testparser.TestCounts) {
	line := "tests: %d passed; %d failed"
	args := []interface{}{counts.Passed, counts.Failed}
	if counts.Skipped > 0 {
		line += "; %d skipped"
		args = append(args, counts.Skipped)
	}
	c.w.Println(line, args...)

	for _, ft := range counts.FailedTests {
		if ft.Reason != "" {
			c.w.Println("    %s %s", c.w.Failed(ft.Name), c.w.Dim(ft.Reason))
		} else {
			c.w.Println("    %s", c.w.Failed(ft.Name))
		}
	}
	c.w.Println("")
}

func (c *Console) PlanSummary(p *plan.Plan) {
	counts := p.Counts()
	c.planned = p.PackagesToTest()

	if p.Mode == plan.ModeManual {
		c.w.Println("selected %d %s", counts.Manual, output.Pluralize(counts.Manual, "package", "packages"))
	} else {
		skipping := ""
		if !p.WithDependents {
			skipping = "skipping "
		}
		c.w.Println("discovered %d changed %s; %s%d dependent %s",
			counts.Modified, output.Pluralize(counts.Modified, "package", "packages"),
			skipping,
			counts.Dependent, output.Pluralize(counts.Dependent, "package", "packages"))
	}

	if c.verbose {
		for _, e := range p.Entries {
			c.w.Println("    %s %s", e.Name, c.w.Dim("("+c.title.String(e.Kind.String())+")"))
		}
	}
	c.w.Println("")
}

func (c *Console) TestFailures(failures []Failure) {
	c.w.Println("")
	c.w.Println("failed package output:")
	c.w.Println("")
	for _, f := range failures {
		c.TestFailureDetails(f.Name, f.Output)
	}

	c.w.Println("")
	c.w.Println("failed packages:")
	for _, f := range failures {
		c.w.Println("    %s", f.Name)
	}
}

func (c *Console) TestFailureDetails(name, out string) {
	c.w.Println("---- %s output ----", name)
	c.w.Println("%s", out)
	c.w.Println("")
}

func (c *Console) NoTests() {
	c.w.Println("no packages to test")
}

// DryRun notes that nothing runs and, unless the plan was already listed
// in verbose mode, names the packages that would have been tested.
func (c *Console) DryRun() {
	c.Note("dry run mode enabled, skipping actual tests")
	if c.verbose || len(c.planned) == 0 {
		return
	}
	c.w.Println("")
	c.w.Println("would test:")
	c.w.List(c.planned)
}
