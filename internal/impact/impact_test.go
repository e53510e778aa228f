package impact

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/testimpact/internal/vcs"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
)

// p builds an absolute platform path from slash-separated parts under /w.
func p(rel string) string {
	return filepath.Join(string(filepath.Separator)+"w", filepath.FromSlash(rel))
}

func changed(paths ...string) []vcs.ChangedFile {
	files := make([]vcs.ChangedFile, 0, len(paths))
	for _, path := range paths {
		files = append(files, vcs.ChangedFile{CurrentPath: p(path), ChangeType: vcs.ChangeModified})
	}
	return files
}

func TestOwningPackages_NestedRootsPreferDeepest(t *testing.T) {
	t.Parallel()

	pkgs := []workspace.PackageInfo{
		{Name: "a", Root: p("a")},
		{Name: "nested", Root: p("a/nested")},
	}

	assert.Equal(t, []string{"nested"}, OwningPackages(changed("a/nested/x"), pkgs))
	assert.Equal(t, []string{"a"}, OwningPackages(changed("a/src/lib.rs"), pkgs))

	// provider order must not matter
	reversed := []workspace.PackageInfo{pkgs[1], pkgs[0]}
	assert.Equal(t, []string{"nested"}, OwningPackages(changed("a/nested/x"), reversed))
}

func TestOwningPackages_RenameAttributesBothSides(t *testing.T) {
	t.Parallel()

	pkgs := []workspace.PackageInfo{
		{Name: "a", Root: p("a")},
		{Name: "b", Root: p("b")},
	}
	files := []vcs.ChangedFile{{
		CurrentPath: p("b/new.rs"),
		OldPath:     p("a/old.rs"),
		ChangeType:  vcs.ChangeModified,
	}}

	assert.Equal(t, []string{"b", "a"}, OwningPackages(files, pkgs))
}

func TestOwningPackages_ComponentBoundaries(t *testing.T) {
	t.Parallel()

	pkgs := []workspace.PackageInfo{{Name: "a", Root: p("a")}}

	assert.Empty(t, OwningPackages(changed("ab/file.rs"), pkgs))
	assert.Equal(t, []string{"a"}, OwningPackages(changed("a"), pkgs))
}

func TestOwningPackages_OrderAndDedup(t *testing.T) {
	t.Parallel()

	pkgs := []workspace.PackageInfo{
		{Name: "a", Root: p("a")},
		{Name: "b", Root: p("b")},
		{Name: "c", Root: p("c")},
	}

	got := OwningPackages(changed("c/1", "README.md", "a/1", "c/2", "a/2"), pkgs)
	assert.Equal(t, []string{"c", "a"}, got)
}

func TestOwningPackages_RootPackageOwnsLeftovers(t *testing.T) {
	t.Parallel()

	pkgs := []workspace.PackageInfo{
		{Name: "root", Root: p("")},
		{Name: "member", Root: p("crates/member")},
	}

	assert.Equal(t, []string{"member", "root"},
		OwningPackages(changed("crates/member/src/lib.rs", "build.rs"), pkgs))
}

func TestOwnership_Ignore(t *testing.T) {
	t.Parallel()

	ignore, err := NewIgnore(p(""), []string{"*.md", "a/fixtures"})
	require.NoError(t, err)

	o := NewOwnership([]workspace.PackageInfo{
		{Name: "a", Root: p("a")},
		{Name: "b", Root: p("b")},
	}, ignore)

	got := o.Resolve(changed("a/README.md", "a/fixtures/data.json", "b/docs/guide.md"))
	assert.Empty(t, got)

	got = o.Resolve(changed("a/README.md", "b/src/main.rs"))
	assert.Equal(t, []string{"b"}, got)
}

func TestIgnore(t *testing.T) {
	t.Parallel()

	ig, err := NewIgnore(p(""), []string{" docs/ ", "*.txt", "crates/*/benches", ""})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"docs/index.html", true},
		{"docs", true},
		{"sub/docs/x", true},
		{"notes.txt", true},
		{"deep/tree/notes.txt", true},
		{"crates/a/benches/b.rs", true},
		{"crates/a/src/lib.rs", false},
		{"vendor/crates/a/benches/b.rs", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ig.Match(p(tt.path)), "path %q", tt.path)
	}

	assert.False(t, ig.Match(filepath.Join(string(filepath.Separator)+"elsewhere", "notes.txt")))
}

func TestNewIgnore(t *testing.T) {
	t.Parallel()

	ig, err := NewIgnore("/w", nil)
	require.NoError(t, err)
	assert.Nil(t, ig)
	assert.False(t, ig.Match("/w/anything"))

	_, err = NewIgnore("/w", []string{"[unclosed"})
	assert.Error(t, err)
}

// chain builds a graph where c depends on b, b on a, and x is unrelated.
func chain(t *testing.T) *workspace.Graph {
	t.Helper()
	g, err := workspace.NewGraph([]workspace.Package{
		{PackageInfo: workspace.PackageInfo{Name: "x", Root: p("x")}, Dependencies: []string{"serde"}},
		{PackageInfo: workspace.PackageInfo{Name: "c", Root: p("c")}, Dependencies: []string{"b"}},
		{PackageInfo: workspace.PackageInfo{Name: "b", Root: p("b")}, Dependencies: []string{"a", "serde"}},
		{PackageInfo: workspace.PackageInfo{Name: "a", Root: p("a")}},
	})
	require.NoError(t, err)
	return g
}

func TestDependents_SingleHop(t *testing.T) {
	t.Parallel()
	g := chain(t)

	assert.Equal(t, []string{"b"}, Dependents([]string{"a"}, g))
	assert.Equal(t, []string{"c"}, Dependents([]string{"b"}, g))
	assert.Empty(t, Dependents([]string{"c"}, g))
	assert.Empty(t, Dependents(nil, g))
}

func TestDependents_GraphOrderAndDedup(t *testing.T) {
	t.Parallel()
	g := chain(t)

	// b depends on a and c depends on b; each reported once, in graph order
	assert.Equal(t, []string{"c", "b"}, Dependents([]string{"a", "b"}, g))
}

func TestTransitiveDependents(t *testing.T) {
	t.Parallel()
	g := chain(t)

	assert.Equal(t, []string{"b", "c"}, TransitiveDependents([]string{"a"}, g))
	assert.Equal(t, []string{"c"}, TransitiveDependents([]string{"a", "b"}, g))
	assert.Empty(t, TransitiveDependents([]string{"x"}, g))
}

func TestResolve(t *testing.T) {
	t.Parallel()
	g := chain(t)

	assert.Equal(t, []string{"b"}, Resolve([]string{"a"}, g, ReachDirect))
	assert.Equal(t, []string{"b", "c"}, Resolve([]string{"a"}, g, ReachTransitive))
	assert.Equal(t, "transitive", ReachTransitive.String())
}

func TestResolution_Idempotent(t *testing.T) {
	t.Parallel()
	g := chain(t)
	files := changed("b/src/lib.rs", "a/src/lib.rs")

	first := OwningPackages(files, g.Infos())
	second := OwningPackages(files, g.Infos())
	assert.Equal(t, first, second)
	assert.Equal(t, Dependents(first, g), Dependents(second, g))
}
