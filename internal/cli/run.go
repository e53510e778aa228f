package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	testimpacterrors "github.com/AndreyAkinshin/testimpact/internal/errors"
	"github.com/AndreyAkinshin/testimpact/internal/executor"
	"github.com/AndreyAkinshin/testimpact/internal/impact"
	"github.com/AndreyAkinshin/testimpact/internal/plan"
	"github.com/AndreyAkinshin/testimpact/internal/report"
	"github.com/AndreyAkinshin/testimpact/internal/runner"
	"github.com/AndreyAkinshin/testimpact/internal/vcs"
)

// runTests is the default command: discover changes, build the plan and
// execute it.
func (a *app) runTests(cmd *cobra.Command, opts *options, args []string) error {
	ctx := cmd.Context()

	s, err := a.openSession(ctx, cmd, opts, args)
	if err != nil {
		return s.fail(err)
	}

	p, err := s.buildPlan(ctx, opts)
	if err != nil {
		return s.fail(err)
	}

	name := s.settings.Runner
	if name == "" {
		name = runner.Default(s.ecosystem)
	}
	r, err := a.newRunner(name)
	if err != nil {
		return s.fail(err)
	}
	if err := runner.Compatible(r, s.ecosystem); err != nil {
		return s.fail(err)
	}

	// Keep stdout a clean event stream in JSON mode.
	var live io.Writer = a.stdout
	if s.settings.Format == report.FormatJSON {
		live = a.stderr
	}

	e := &executor.Executor{
		Plan:     p,
		Runner:   r,
		Reporter: s.reporter,
		Live:     live,
		Logger:   s.logger,
		Timeout:  s.settings.Timeout,
	}
	_, err = executor.RunTests(ctx, e, opts.dryRun)
	return s.fail(err)
}

// buildPlan selects packages either from --package or from the changeset.
func (s *session) buildPlan(ctx context.Context, opts *options) (*plan.Plan, error) {
	planOpts := plan.Options{
		WithDependents: !s.settings.SkipDependents,
		FailFast:       s.settings.FailFast,
		Verbose:        s.settings.Verbose,
		RunnerArgs:     s.settings.RunnerArgs,
	}

	if len(opts.packages) > 0 {
		if opts.from != "" || opts.to != "" {
			return nil, testimpacterrors.InvalidArguments("--package cannot be combined with --from or --to")
		}
		return plan.NewManual(s.root, opts.packages, s.graph, planOpts)
	}

	files, err := s.changes(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.reporter.ChangedFiles(files, s.root)

	ownership, err := s.ownership()
	if err != nil {
		return nil, err
	}
	modified := ownership.Resolve(files)

	reach := impact.ReachDirect
	if s.settings.Transitive {
		reach = impact.ReachTransitive
	}
	dependents := impact.Resolve(modified, s.graph, reach)
	s.logger.Debug("resolved impacted packages",
		"modified", modified,
		"dependents", dependents,
		"reach", reach.String())

	return plan.NewDiscovered(s.root, modified, dependents, planOpts), nil
}

// changes returns the working-tree changes, or the changes between --from
// and --to when a ref is given.
func (s *session) changes(ctx context.Context, opts *options) ([]vcs.ChangedFile, error) {
	if opts.from == "" {
		if opts.to != "" {
			return nil, testimpacterrors.InvalidArguments("--to requires --from")
		}
		return s.vcs.UncommittedChanges(ctx, s.root)
	}
	return s.vcs.ChangesBetween(ctx, s.root, opts.from, opts.to)
}

func (s *session) ownership() (*impact.Ownership, error) {
	ignore, err := impact.NewIgnore(s.root, s.settings.Ignore)
	if err != nil {
		return nil, testimpacterrors.InvalidArguments(err.Error())
	}
	return impact.NewOwnership(s.graph.Infos(), ignore), nil
}
