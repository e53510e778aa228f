// Package output provides styled terminal output for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Writer handles CLI output formatting.
type Writer struct {
	out   io.Writer
	err   io.Writer
	color bool
}

// New creates a Writer on stdout and stderr, colored when stdout is a terminal.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: IsTerminal(os.Stdout),
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// IsTerminal reports whether w is a terminal that accepts ANSI colors.
// NO_COLOR disables colors regardless of the terminal.
func IsTerminal(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Out returns the underlying standard output writer.
func (w *Writer) Out() io.Writer {
	return w.out
}

// Color reports whether ANSI styling is enabled.
func (w *Writer) Color() bool {
	return w.color
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// ANSI color codes.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"
	red   = "\033[31m"
	green = "\033[32m"
	cyan  = "\033[36m"
)

func (w *Writer) style(text, codes string) string {
	if !w.color || text == "" {
		return text
	}
	return codes + text + reset
}

// OK styles a success word such as "ok".
func (w *Writer) OK(text string) string { return w.style(text, bold+green) }

// Failed styles a failure word such as "FAILED".
func (w *Writer) Failed(text string) string { return w.style(text, bold+red) }

// Label styles a message prefix such as "note".
func (w *Writer) Label(text string) string { return w.style(text, bold+cyan) }

// Dim styles secondary text.
func (w *Writer) Dim(text string) string { return w.style(text, dim) }

// Status returns "ok" or "FAILED", styled.
func (w *Writer) Status(success bool) string {
	if success {
		return w.OK("ok")
	}
	return w.Failed("FAILED")
}

// Note prints "note: <message>".
func (w *Writer) Note(format string, args ...interface{}) {
	w.Println("%s: %s", w.Label("note"), fmt.Sprintf(format, args...))
}

// Tip prints an indented "tip: <message>".
func (w *Writer) Tip(format string, args ...interface{}) {
	w.Println("  %s: %s", w.Label("tip"), fmt.Sprintf(format, args...))
}

// ErrorLine prints "error: <message>" to stdout, next to the run it belongs to.
func (w *Writer) ErrorLine(format string, args ...interface{}) {
	w.Println("%s: %s", w.Failed("error"), fmt.Sprintf(format, args...))
}

// Warning prints "warning: <message>" to stderr.
func (w *Writer) Warning(format string, args ...interface{}) {
	if w.color {
		w.Errorln("\033[33mwarning: "+format+reset, args...)
	} else {
		w.Errorln("warning: "+format, args...)
	}
}

// List prints indented items.
func (w *Writer) List(items []string) {
	for _, item := range items {
		w.Println("    %s", item)
	}
}

// Table prints a simple left-aligned table.
func (w *Writer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			if i < len(widths) {
				parts = append(parts, fmt.Sprintf("%-*s", widths[i], cell))
			}
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	w.Println("%s", w.style(line(headers), bold))
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	w.Println("%s", line(sep))
	for _, row := range rows {
		w.Println("%s", line(row))
	}
}

// Pluralize returns singular when count is one and plural otherwise.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
