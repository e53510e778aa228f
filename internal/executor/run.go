package executor

import (
	"context"

	testimpacterrors "github.com/AndreyAkinshin/testimpact/internal/errors"
)

// RunTests reports the plan and, unless dryRun is set, executes it and
// reports the outcome. An empty plan reports that there is nothing to test
// and succeeds. When packages fail, the returned error is a TestsFailed
// error naming them and carrying the results.
func RunTests(ctx context.Context, e *Executor, dryRun bool) (*TestResults, error) {
	p, r := e.Plan, e.Reporter

	if p.IsEmpty() {
		r.NoTests()
		return &TestResults{}, nil
	}

	r.PlanSummary(p)

	if dryRun {
		r.DryRun()
		return &TestResults{}, nil
	}

	results, err := e.Execute(ctx)
	if err != nil {
		return results, err
	}

	// Verbose runs already streamed every package's output.
	if !p.Verbose && results.HasFailures() {
		r.TestFailures(results.Failures())
	}

	r.TestSummary(len(results.Passed), len(results.Failed), results.Duration)
	if counts := results.Counts(); counts.Parsed {
		r.TestCounts(counts)
	}

	if results.HasFailures() {
		return results, testimpacterrors.TestsFailed(results.FailedNames(), results)
	}
	return results, nil
}
