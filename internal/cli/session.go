package cli

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/testimpact/internal/config"
	testimpacterrors "github.com/AndreyAkinshin/testimpact/internal/errors"
	"github.com/AndreyAkinshin/testimpact/internal/report"
	"github.com/AndreyAkinshin/testimpact/internal/vcs"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
)

// session is a loaded workspace: its root, effective settings and package
// graph.
type session struct {
	root      string
	settings  config.Settings
	ecosystem workspace.Ecosystem
	graph     *workspace.Graph
	vcs       vcs.Vcs
	logger    *slog.Logger
	reporter  report.Reporter
}

// openSession discovers the repository, reads the configuration and the
// workspace metadata. The returned session always carries a reporter, even
// on error, so that the failure can be shown in the selected format.
func (a *app) openSession(ctx context.Context, cmd *cobra.Command, opts *options, extra []string) (*session, error) {
	s := &session{settings: config.Defaults()}
	if opts.format != "" {
		s.settings.Format = opts.format
	}
	if err := s.setOutput(a, opts); err != nil {
		s.reporter = report.NewConsole(a.stdout, false)
		return s, err
	}

	dir := opts.directory
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return s, testimpacterrors.VcsDiscovery(err)
	}

	s.vcs = a.newVcs(s.logger)
	s.root, err = s.vcs.WorkspaceRoot(ctx, dir)
	if err != nil {
		return s, err
	}
	s.logger.Debug("discovered workspace root", "root", s.root)

	cfg, err := s.loadConfig(opts)
	if err != nil {
		return s, err
	}

	s.settings, err = config.Resolve(cfg, overrides(cmd, opts, extra))
	if err != nil {
		return s, err
	}
	if err := s.setOutput(a, opts); err != nil {
		return s, err
	}

	if s.settings.Ecosystem != "" {
		s.ecosystem = workspace.Ecosystem(s.settings.Ecosystem)
	} else {
		var ok bool
		if s.ecosystem, ok = workspace.Detect(s.root); !ok {
			return s, testimpacterrors.Metadataf("no Cargo.toml, go.work or go.mod found in %s", s.root)
		}
	}
	s.logger.Debug("using ecosystem", "ecosystem", s.ecosystem)

	provider, err := a.newProvider(s.ecosystem, s.logger)
	if err != nil {
		return s, err
	}
	s.graph, err = provider.Metadata(ctx, s.root)
	if err != nil {
		return s, err
	}
	s.logger.Debug("loaded workspace graph", "packages", s.graph.Len())
	return s, nil
}

// setOutput (re)builds the logger and reporter from the current settings.
func (s *session) setOutput(a *app, opts *options) error {
	logger, err := setupLogger(opts.logLevel, s.settings.Format, a.stderr)
	if err != nil {
		return err
	}
	rep, err := report.New(s.settings.Format, a.stdout, s.settings.Verbose)
	if err != nil {
		return err
	}
	s.logger, s.reporter = logger, rep
	return nil
}

func (s *session) loadConfig(opts *options) (*config.Config, error) {
	path := opts.config
	if path == "" {
		found, err := config.Find(s.root)
		if err != nil {
			return nil, testimpacterrors.InvalidArguments(err.Error())
		}
		if found == "" {
			return nil, nil
		}
		path = found
	}

	cfg, warnings, err := config.LoadAndValidate(path)
	for _, w := range warnings {
		s.logger.Warn(w, "file", path)
	}
	if err != nil {
		return nil, testimpacterrors.InvalidArguments(err.Error())
	}
	s.logger.Debug("loaded configuration", "file", path)
	return cfg, nil
}

// overrides collects the flags the user set explicitly.
func overrides(cmd *cobra.Command, opts *options, extra []string) config.Overrides {
	o := config.Overrides{RunnerArgs: extra}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("test-runner") {
		o.Runner = &opts.runner
	}
	if changed("ecosystem") {
		o.Ecosystem = &opts.ecosystem
	}
	if changed("format") {
		o.Format = &opts.format
	}
	if changed("skip-dependents") {
		o.SkipDependents = &opts.skipDependents
	}
	if changed("transitive") {
		o.Transitive = &opts.transitive
	}
	if changed("verbose") {
		o.Verbose = &opts.verbose
	}
	if changed("no-fail-fast") {
		failFast := !opts.noFailFast
		o.FailFast = &failFast
	}
	if changed("timeout") {
		o.Timeout = &opts.timeout
	}
	return o
}

// fail shows err through the session reporter and marks it as reported.
// Test failures were already summarised by the run.
func (s *session) fail(err error) error {
	if err == nil {
		return nil
	}
	if !testimpacterrors.Is(err, testimpacterrors.KindTestsFailed) {
		s.reporter.Error(err.Error())
		if e, ok := testimpacterrors.As(err); ok && e.Tip != "" {
			s.reporter.Tip(e.Tip)
		}
	}
	return reportedError{err}
}
