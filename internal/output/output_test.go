package output

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// newTestWriter creates a Writer with captured output for testing.
func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	w := &Writer{
		out:   stdout,
		err:   stderr,
		color: false, // Disable color for predictable test output
	}
	return w, stdout, stderr
}

func TestNew(t *testing.T) {
	w := New()
	if w == nil {
		t.Fatal("New() returned nil")
	}
	if w.out == nil {
		t.Error("out writer is nil")
	}
	if w.err == nil {
		t.Error("err writer is nil")
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(buffer) = true")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("IsTerminal(regular file) = true")
	}
}

func TestIsTerminal_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if IsTerminal(os.Stdout) {
		t.Error("IsTerminal() should be false when NO_COLOR is set")
	}
}

func TestWriter_Println(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Println("hello %s", "world")

	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("Println() = %q, want %q", got, "hello world\n")
	}
}

func TestWriter_Messages(t *testing.T) {
	w, stdout, stderr := newTestWriter()

	w.Note("dry run mode enabled, skipping actual tests")
	w.Tip("run `%s`", "testimpact packages")
	w.ErrorLine("package %q not found in workspace", "ghost")
	w.Warning("unknown field %q", "colour")

	wantOut := "note: dry run mode enabled, skipping actual tests\n" +
		"  tip: run `testimpact packages`\n" +
		"error: package \"ghost\" not found in workspace\n"
	if got := stdout.String(); got != wantOut {
		t.Errorf("stdout = %q, want %q", got, wantOut)
	}
	if got := stderr.String(); got != "warning: unknown field \"colour\"\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestWriter_Status(t *testing.T) {
	w, _, _ := newTestWriter()
	if got := w.Status(true); got != "ok" {
		t.Errorf("Status(true) = %q", got)
	}
	if got := w.Status(false); got != "FAILED" {
		t.Errorf("Status(false) = %q", got)
	}

	colored := NewWithWriters(&bytes.Buffer{}, &bytes.Buffer{}, true)
	if got := colored.Status(true); got != bold+green+"ok"+reset {
		t.Errorf("colored Status(true) = %q", got)
	}
	if got := colored.Failed(""); got != "" {
		t.Errorf("styling empty text = %q, want empty", got)
	}
}

func TestWriter_Table(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Table([]string{"NAME", "ROOT"}, [][]string{
		{"core", "crates/core"},
		{"cli-tools", "crates/cli"},
	})

	want := strings.Join([]string{
		"NAME       ROOT",
		"---------  -----------",
		"core       crates/core",
		"cli-tools  crates/cli",
		"",
	}, "\n")
	if got := stdout.String(); got != want {
		t.Errorf("Table() =\n%s\nwant:\n%s", got, want)
	}
}

func TestWriter_List(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.List([]string{"a", "b"})

	if got := stdout.String(); got != "    a\n    b\n" {
		t.Errorf("List() = %q", got)
	}
}

func TestPluralize(t *testing.T) {
	if got := Pluralize(1, "package", "packages"); got != "package" {
		t.Errorf("Pluralize(1) = %q", got)
	}
	for _, n := range []int{0, 2} {
		if got := Pluralize(n, "package", "packages"); got != "packages" {
			t.Errorf("Pluralize(%d) = %q", n, got)
		}
	}
}
