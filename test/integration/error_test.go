package integration

import (
	"context"
	"path/filepath"
	"testing"

	testimpacterrors "github.com/AndreyAkinshin/testimpact/internal/errors"
	"github.com/AndreyAkinshin/testimpact/internal/plan"
	"github.com/AndreyAkinshin/testimpact/internal/vcs"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
	"github.com/AndreyAkinshin/testimpact/pkg/testimpact"
)

func TestError_OutsideRepository(t *testing.T) {
	t.Parallel()
	requireTool(t, "git")

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = vcs.NewGitClient(nil).WorkspaceRoot(context.Background(), dir)
	if code := testimpacterrors.GetExitCode(err); code != testimpact.ExitVcsDiscovery {
		t.Errorf("exit code = %d, want %d (err = %v)", code, testimpact.ExitVcsDiscovery, err)
	}
}

func TestError_UnknownRef(t *testing.T) {
	t.Parallel()
	r := newGoWorkspace(t)

	_, err := vcs.NewGitClient(nil).ChangesBetween(context.Background(), r.root, "no-such-ref", "")
	if code := testimpacterrors.GetExitCode(err); code != testimpact.ExitVcsOperation {
		t.Errorf("exit code = %d, want %d (err = %v)", code, testimpact.ExitVcsOperation, err)
	}
}

func TestError_BrokenModule(t *testing.T) {
	t.Parallel()
	r := newGoWorkspace(t)
	r.write("api/go.mod", "this is not a go.mod\n")

	_, err := workspace.NewGoProvider(nil).Metadata(context.Background(), r.root)
	if code := testimpacterrors.GetExitCode(err); code != testimpact.ExitMetadata {
		t.Errorf("exit code = %d, want %d (err = %v)", code, testimpact.ExitMetadata, err)
	}
}

func TestError_UnknownPackage(t *testing.T) {
	t.Parallel()
	r := newGoWorkspace(t)

	graph, err := workspace.NewGoProvider(nil).Metadata(context.Background(), r.root)
	if err != nil {
		t.Fatal(err)
	}
	_, err = plan.NewManual(r.root, []string{"example.com/missing"}, graph, plan.Options{})
	if code := testimpacterrors.GetExitCode(err); code != testimpact.ExitUnknownPackage {
		t.Errorf("exit code = %d, want %d (err = %v)", code, testimpact.ExitUnknownPackage, err)
	}
}
