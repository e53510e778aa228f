// Package executor runs the test command of every planned package in order
// and collects the outcomes.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	testimpacterrors "github.com/AndreyAkinshin/testimpact/internal/errors"
	"github.com/AndreyAkinshin/testimpact/internal/plan"
	"github.com/AndreyAkinshin/testimpact/internal/report"
	"github.com/AndreyAkinshin/testimpact/internal/runner"
	"github.com/AndreyAkinshin/testimpact/internal/testparser"
)

// Executor tests the packages of a plan one at a time.
type Executor struct {
	Plan     *plan.Plan
	Runner   runner.Runner
	Reporter report.Reporter

	// Live receives child output as it arrives when the plan is verbose.
	// Defaults to os.Stdout.
	Live io.Writer
	// Logger receives diagnostics. Defaults to discarding them.
	Logger *slog.Logger
	// Timeout bounds each package's test process. Zero means no limit.
	Timeout time.Duration
	// Parsers extract per-test counts from output. Defaults to the
	// built-in registry.
	Parsers *testparser.Registry
}

// Execute checks that the runner is installed, then tests every package
// returned by Plan.PackagesToTest in order. A failing package is recorded
// and does not abort the run unless the plan is fail-fast, in which case
// later packages are skipped. Errors are returned only for problems that
// prevent testing: a missing runner, a process that cannot be spawned or
// read, or cancellation of ctx.
func (e *Executor) Execute(ctx context.Context) (*TestResults, error) {
	logger := e.logger()
	results := &TestResults{}
	start := time.Now()

	if !e.Runner.IsInstalled(ctx) {
		return results, testimpacterrors.RunnerNotInstalled(e.Runner.Name(), e.Runner.InstallInstructions())
	}

	packages := e.Plan.PackagesToTest()
	for i, name := range packages {
		if err := ctx.Err(); err != nil {
			results.Duration = time.Since(start)
			return results, testimpacterrors.Wrap(err, "interrupted")
		}

		result, err := e.testPackage(ctx, name, i+1, len(packages))
		if err != nil {
			results.Duration = time.Since(start)
			return results, err
		}
		results.Add(result)

		if !result.Success && e.Plan.FailFast {
			if remaining := len(packages) - i - 1; remaining > 0 {
				logger.Info("stopping after first failure", "package", name, "skipped", remaining)
			}
			break
		}
	}

	results.Duration = time.Since(start)
	return results, nil
}

func (e *Executor) testPackage(ctx context.Context, name string, index, total int) (TestResult, error) {
	logger := e.logger().With("package", name)
	e.Reporter.TestStart(name, index, total)

	argv := slices.Concat(e.Runner.Command(name), e.Plan.RunnerArgs)
	printable := runner.Printable(argv)
	if len(argv) == 0 {
		return TestResult{}, testimpacterrors.CommandFailed(printable, errors.New("runner returned an empty command"))
	}

	runCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = e.Plan.WorkspaceRoot

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return TestResult{}, testimpacterrors.CommandFailed(printable, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return TestResult{}, testimpacterrors.CommandFailed(printable, err)
	}

	logger.Debug("spawning test command", "command", printable, "dir", cmd.Dir)
	started := time.Now()
	if err := cmd.Start(); err != nil {
		return TestResult{}, testimpacterrors.CommandFailed(printable, err)
	}

	// Killing the child does not close pipes inherited by its own children.
	stop := context.AfterFunc(runCtx, func() {
		_ = stdout.Close()
		_ = stderr.Close()
	})
	defer stop()

	out := &mergedOutput{}
	if e.Plan.Verbose {
		out.live = e.live()
	}

	var g errgroup.Group
	g.Go(func() error { return out.drain(runCtx, stdout) })
	g.Go(func() error { return out.drain(runCtx, stderr) })

	if err := g.Wait(); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return TestResult{}, testimpacterrors.CommandFailed(printable, err)
	}
	waitErr := cmd.Wait()
	duration := time.Since(started)

	if ctx.Err() != nil {
		return TestResult{}, testimpacterrors.Wrap(ctx.Err(), "interrupted")
	}

	result := TestResult{Name: name, Duration: duration}
	var exitErr *exec.ExitError
	switch {
	case e.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		out.note(fmt.Sprintf("\ntest process timed out after %s and was killed\n", e.Timeout))
		logger.Warn("test command timed out", "timeout", e.Timeout)
	case waitErr == nil:
		result.Success = true
	case errors.As(waitErr, &exitErr):
		logger.Debug("test command failed", "exit_code", exitErr.ExitCode())
	default:
		return TestResult{}, testimpacterrors.CommandFailed(printable, waitErr)
	}

	result.Output = strings.ToValidUTF8(out.String(), "\uFFFD")
	if parser := e.parsers().Get(e.Runner.Name()); parser != nil {
		result.Counts = parser.Parse(result.Output)
	}

	logger.Info("tested package", "success", result.Success, "duration", duration)
	e.Reporter.TestResult(name, result.Success, duration)
	return result, nil
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (e *Executor) live() io.Writer {
	if e.Live != nil {
		return e.Live
	}
	return os.Stdout
}

func (e *Executor) parsers() *testparser.Registry {
	if e.Parsers != nil {
		return e.Parsers
	}
	return testparser.NewRegistry()
}

// mergedOutput interleaves two streams chunk by chunk. Each stream keeps
// its own order.
type mergedOutput struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	live io.Writer
}

const chunkSize = 32 * 1024

func (m *mergedOutput) drain(ctx context.Context, r io.Reader) error {
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if werr := m.write(chunk[:n]); werr != nil {
				return fmt.Errorf("failed to echo output: %w", werr)
			}
		}
		switch {
		case err == nil:
			continue
		case err == io.EOF:
			return nil
		case ctx.Err() != nil && errors.Is(err, os.ErrClosed):
			return nil
		default:
			return fmt.Errorf("failed to read output: %w", err)
		}
	}
}

func (m *mergedOutput) write(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buf.Write(p)
	if m.live == nil {
		return nil
	}
	_, err := m.live.Write(p)
	return err
}

// note appends text that did not come from the child.
func (m *mergedOutput) note(text string) {
	_ = m.write([]byte(text))
}

func (m *mergedOutput) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.String()
}
