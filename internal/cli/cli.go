// Package cli provides the command-line interface for testimpact.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	testimpacterrors "github.com/AndreyAkinshin/testimpact/internal/errors"
	"github.com/AndreyAkinshin/testimpact/internal/report"
	"github.com/AndreyAkinshin/testimpact/internal/runner"
	"github.com/AndreyAkinshin/testimpact/internal/vcs"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
)

// Version is set at build time.
var Version = "dev"

// app holds the collaborators of every command. Tests replace them.
type app struct {
	stdout io.Writer
	stderr io.Writer

	newVcs      func(logger *slog.Logger) vcs.Vcs
	newProvider func(e workspace.Ecosystem, logger *slog.Logger) (workspace.Provider, error)
	newRunner   func(name string) (runner.Runner, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		newVcs: func(logger *slog.Logger) vcs.Vcs {
			return vcs.NewGitClient(logger)
		},
		newProvider: workspace.NewProvider,
		newRunner:   runner.New,
	}
}

// options are the flags shared by the commands.
type options struct {
	directory string
	config    string
	logLevel  string

	runner         string
	ecosystem      string
	format         string
	skipDependents bool
	transitive     bool
	dryRun         bool
	verbose        bool
	noFailFast     bool
	packages       []string
	from           string
	to             string
	timeout        time.Duration
}

// reportedError marks an error that has already been shown to the user.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newApp(os.Stdout, os.Stderr).run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) int {
	root := a.newRootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return testimpacterrors.ExitSuccess
	}

	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
	}
	return testimpacterrors.GetExitCode(err)
}

func (a *app) newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "testimpact [flags] [-- runner-args...]",
		Short: "Run tests only for workspace packages affected by your changes",
		Long: `testimpact finds the files changed in the current git repository, maps them
to the workspace packages that own them, adds the packages that depend on
those, and runs the test runner once per package.

Cargo workspaces and Go workspaces (go.work or a single go.mod) are
supported. Arguments after -- are passed to every test command.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          runnerArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTests(cmd, opts, args)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return testimpacterrors.InvalidArguments(err.Error())
	})
	root.SetVersionTemplate("testimpact {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.directory, "directory", "C", "", "run as if started in `dir`")
	pf.StringVar(&opts.config, "config", "", "configuration `file` (default: .testimpact.{json,yaml,yml,toml} in the workspace root)")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "diagnostic log level (debug, info, warn, error)")
	pf.StringVar(&opts.ecosystem, "ecosystem", "", "workspace ecosystem (cargo, go); detected when unset")
	pf.StringVar(&opts.format, "format", "", "output format (console, json)")
	pf.StringVar(&opts.from, "from", "", "compare against this git `ref` instead of uncommitted changes")
	pf.StringVar(&opts.to, "to", "", "end `ref` of the comparison (default: HEAD; requires --from)")

	f := root.Flags()
	f.StringVarP(&opts.runner, "test-runner", "t", "", "test runner ("+strings.Join(runner.Names(), ", ")+"); defaults to the ecosystem's runner")
	f.BoolVarP(&opts.skipDependents, "skip-dependents", "s", false, "test only packages with changes")
	f.BoolVar(&opts.transitive, "transitive", false, "also test dependents of dependents")
	f.BoolVarP(&opts.dryRun, "dry-run", "d", false, "print the plan without running tests")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "stream test output while running")
	f.BoolVar(&opts.noFailFast, "no-fail-fast", false, "keep testing after a package fails")
	f.StringArrayVarP(&opts.packages, "package", "p", nil, "test this `package` instead of discovering changes (repeatable)")
	f.DurationVar(&opts.timeout, "timeout", 0, "kill a package's tests after this long (0 disables)")

	root.AddCommand(
		a.newPackagesCommand(opts),
		a.newChangedCommand(opts),
		a.newVersionCommand(),
	)
	return root
}

// runnerArgs accepts positional arguments only after --.
func runnerArgs(cmd *cobra.Command, args []string) error {
	if dash := cmd.ArgsLenAtDash(); dash > 0 || (dash == -1 && len(args) > 0) {
		return testimpacterrors.InvalidArgumentsf("unexpected argument %q (runner arguments go after --)", args[0])
	}
	return nil
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "testimpact %s\n", Version)
		},
	}
}

// setupLogger builds the diagnostic logger. Diagnostics stay on stderr and
// switch to JSON when the report format is JSON.
func setupLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn", "warning", "":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil, testimpacterrors.InvalidArgumentsf("unknown log level %q (expected debug, info, warn or error)", level)
	}

	opts := &slog.HandlerOptions{Level: l}
	if format == report.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
