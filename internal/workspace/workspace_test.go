package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/testimpact/internal/errors"
)

func TestNewGraph(t *testing.T) {
	t.Parallel()

	g, err := NewGraph([]Package{
		{PackageInfo: PackageInfo{Name: "b", Root: "/w/b/"}, Dependencies: []string{"a", "serde", "a"}},
		{PackageInfo: PackageInfo{Name: "a", Root: "/w/a"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, g.Names())
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Has("a"))
	assert.False(t, g.Has("serde"))

	b, ok := g.Package("b")
	require.True(t, ok)
	assert.Equal(t, filepath.Clean("/w/b"), b.Root)
	assert.Equal(t, []string{"a", "serde"}, b.Dependencies)

	assert.Equal(t, []DependencyEdge{
		{Dependent: "b", Dependency: "a"},
		{Dependent: "b", Dependency: "serde"},
	}, g.Edges())

	assert.Equal(t, map[string][]string{"b": {"a"}, "a": {}}, g.InternalDependencies())
}

func TestNewGraph_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewGraph([]Package{
		{PackageInfo: PackageInfo{Name: "a", Root: "/w/a"}},
		{PackageInfo: PackageInfo{Name: "a", Root: "/w/b"}},
	})
	assert.True(t, errors.Is(err, errors.KindMetadata), "duplicate name: %v", err)

	_, err = NewGraph([]Package{{PackageInfo: PackageInfo{Root: "/w/x"}}})
	assert.True(t, errors.Is(err, errors.KindMetadata), "missing name: %v", err)
}

func TestGraph_PackagesIsACopy(t *testing.T) {
	t.Parallel()

	g, err := NewGraph([]Package{{PackageInfo: PackageInfo{Name: "a", Root: "/w/a"}}})
	require.NoError(t, err)

	pkgs := g.Packages()
	pkgs[0].Name = "mutated"
	assert.Equal(t, []string{"a"}, g.Names())
}

func cargoMetadataJSON(root string) string {
	return fmt.Sprintf(`{
  "packages": [
    {"name": "core", "manifest_path": %q, "dependencies": [{"name": "serde"}]},
    {"name": "app", "manifest_path": %q, "dependencies": [{"name": "core"}, {"name": "core"}]}
  ],
  "workspace_root": %q
}`,
		filepath.Join(root, "crates", "core", "Cargo.toml"),
		filepath.Join(root, "crates", "app", "Cargo.toml"),
		root)
}

func TestParseCargoMetadata(t *testing.T) {
	t.Parallel()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "crates", "core"), 0o755))

	g, err := parseCargoMetadata([]byte(cargoMetadataJSON(root)))
	require.NoError(t, err)

	assert.Equal(t, []PackageInfo{
		{Name: "core", Root: filepath.Join(root, "crates", "core")},
		{Name: "app", Root: filepath.Join(root, "crates", "app")},
	}, g.Infos())

	app, _ := g.Package("app")
	assert.Equal(t, []string{"core"}, app.Dependencies)
}

func TestParseCargoMetadata_Invalid(t *testing.T) {
	t.Parallel()

	_, err := parseCargoMetadata([]byte("not json"))
	assert.True(t, errors.Is(err, errors.KindMetadata))

	_, err = parseCargoMetadata([]byte(`{"packages":[{"name":"x"}]}`))
	assert.True(t, errors.Is(err, errors.KindMetadata))
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestCargoProvider_Metadata(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	t.Parallel()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	jsonPath := filepath.Join(root, "metadata.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(cargoMetadataJSON(root)), 0o644))

	p := NewCargoProvider(nil)
	p.binary = writeScript(t, root, "fake-cargo", "cat "+jsonPath+"\n")

	g, err := p.Metadata(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "app"}, g.Names())
}

func TestCargoProvider_MetadataFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	t.Parallel()

	root := t.TempDir()
	p := NewCargoProvider(nil)
	p.binary = writeScript(t, root, "fake-cargo", "echo 'error: could not find Cargo.toml' >&2\nexit 101\n")

	_, err := p.Metadata(context.Background(), root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindMetadata))
	assert.Contains(t, err.Error(), "could not find Cargo.toml")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestGoProvider_Workspace(t *testing.T) {
	t.Parallel()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "go.work"), "go 1.22\n\nuse (\n\t./lib\n\t./app\n)\n")
	writeFile(t, filepath.Join(root, "lib", "go.mod"), "module example.com/lib\n\ngo 1.22\n\nrequire golang.org/x/text v0.14.0\n")
	writeFile(t, filepath.Join(root, "app", "go.mod"),
		"module example.com/app\n\ngo 1.22\n\nrequire (\n\texample.com/lib v0.0.0\n\tgithub.com/google/uuid v1.6.0 // indirect\n)\n")

	g, err := NewGoProvider(nil).Metadata(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []PackageInfo{
		{Name: "example.com/lib", Root: filepath.Join(root, "lib")},
		{Name: "example.com/app", Root: filepath.Join(root, "app")},
	}, g.Infos())

	app, _ := g.Package("example.com/app")
	assert.Equal(t, []string{"example.com/lib", "github.com/google/uuid"}, app.Dependencies)
	assert.Equal(t, []string{"example.com/lib"}, g.InternalDependencies()["example.com/app"])
}

func TestGoProvider_SingleModule(t *testing.T) {
	t.Parallel()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/solo\n\ngo 1.22\n")

	g, err := NewGoProvider(nil).Metadata(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []PackageInfo{{Name: "example.com/solo", Root: root}}, g.Infos())
}

func TestGoProvider_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
	}{
		{"no manifests", nil},
		{"bad go.work", map[string]string{"go.work": "use (\n"}},
		{"missing member", map[string]string{"go.work": "go 1.22\nuse ./missing\n"}},
		{"no module directive", map[string]string{"go.mod": "go 1.22\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, filepath.Join(root, name), content)
			}
			_, err := NewGoProvider(nil).Metadata(context.Background(), root)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.KindMetadata), "got %v", err)
		})
	}
}
