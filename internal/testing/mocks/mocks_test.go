package mocks

import (
	"context"
	"reflect"
	"testing"

	"github.com/AndreyAkinshin/testimpact/internal/report"
	"github.com/AndreyAkinshin/testimpact/internal/runner"
	"github.com/AndreyAkinshin/testimpact/internal/vcs"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
)

var (
	_ runner.Runner      = (*Runner)(nil)
	_ report.Reporter    = (*Reporter)(nil)
	_ vcs.Vcs            = (*Vcs)(nil)
	_ workspace.Provider = (*Provider)(nil)
)

func TestRunner_Builder(t *testing.T) {
	t.Parallel()

	r := NewRunner("fake").
		WithScript("bad", "exit 3").
		WithInstalled(false).
		WithInstallInstructions("get it")

	if r.Name() != "fake" || r.IsInstalled(context.Background()) || r.InstallInstructions() != "get it" {
		t.Errorf("builder settings not applied: %+v", r)
	}

	if got := r.Command("bad"); !reflect.DeepEqual(got, []string{"sh", "-c", "exit 3", "bad"}) {
		t.Errorf("Command(bad) = %v", got)
	}
	if got := r.Command("good"); !reflect.DeepEqual(got, []string{"sh", "-c", "exit 0", "good"}) {
		t.Errorf("Command(good) = %v", got)
	}
	if got := r.Commands(); !reflect.DeepEqual(got, []string{"bad", "good"}) {
		t.Errorf("Commands() = %v", got)
	}
}

func TestReporter_Records(t *testing.T) {
	t.Parallel()

	r := NewReporter()
	r.NoTests()
	r.TestStart("core", 1, 2)
	r.Note("hello")

	if got := r.Types(); !reflect.DeepEqual(got, []string{"no_tests", "test_start", "note"}) {
		t.Errorf("Types() = %v", got)
	}
	ev, ok := r.Find("test_start")
	if !ok || ev.Name != "core" || ev.Index != 1 || ev.Total != 2 {
		t.Errorf("Find(test_start) = %+v, %v", ev, ok)
	}
	if _, ok := r.Find("dry_run"); ok {
		t.Error("Find(dry_run) should not find anything")
	}
}

func TestVcs_RecordsRefs(t *testing.T) {
	t.Parallel()

	v := &Vcs{Root: "/w", Between: []vcs.ChangedFile{{CurrentPath: "/w/a"}}}
	root, err := v.WorkspaceRoot(context.Background(), ".")
	if err != nil || root != "/w" {
		t.Fatalf("WorkspaceRoot() = %q, %v", root, err)
	}

	files, err := v.ChangesBetween(context.Background(), "/w", "main", "")
	if err != nil || len(files) != 1 {
		t.Fatalf("ChangesBetween() = %v, %v", files, err)
	}
	if want := [][2]string{{"main", ""}}; !reflect.DeepEqual(v.Refs(), want) {
		t.Errorf("Refs() = %v, want %v", v.Refs(), want)
	}
}

func TestProvider_BuildsGraph(t *testing.T) {
	t.Parallel()

	p := &Provider{Packages: []workspace.Package{
		{PackageInfo: workspace.PackageInfo{Name: "a", Root: "/w/a"}},
	}}
	g, err := p.Metadata(context.Background(), "/w")
	if err != nil {
		t.Fatal(err)
	}
	if !g.Has("a") {
		t.Error("graph is missing package a")
	}
}
