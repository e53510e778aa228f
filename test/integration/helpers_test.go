// Package integration exercises the testimpact pipeline against real git
// repositories and Go workspaces.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// repo is a throwaway git repository holding a Go workspace:
//
//	core        no workspace dependencies
//	api         requires core
//	tool        requires api
type repo struct {
	t    *testing.T
	root string
}

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func newGoWorkspace(t *testing.T) *repo {
	t.Helper()
	requireTool(t, "git")

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := &repo{t: t, root: root}
	r.git("init", "-q")

	r.write("go.work", "go 1.22\n\nuse (\n\t./core\n\t./api\n\t./tool\n)\n")
	r.write("core/go.mod", "module example.com/core\n\ngo 1.22\n")
	r.write("core/core.go", "package core\n\nfunc Answer() int { return 42 }\n")
	r.write("core/core_test.go", "package core\n\nimport \"testing\"\n\n"+
		"func TestAnswer(t *testing.T) {\n\tif Answer() != 42 {\n\t\tt.Fatal(\"wrong answer\")\n\t}\n}\n")
	r.write("api/go.mod", "module example.com/api\n\ngo 1.22\n\nrequire example.com/core v0.0.0\n")
	r.write("api/api.go", "package api\n\nimport \"example.com/core\"\n\nfunc Value() int { return core.Answer() }\n")
	r.write("tool/go.mod", "module example.com/tool\n\ngo 1.22\n\nrequire example.com/api v0.0.0\n")
	r.write("tool/main.go", "package main\n\nimport \"example.com/api\"\n\nfunc main() { _ = api.Value() }\n")
	r.write("README.md", "workspace\n")
	r.commit("initial")
	return r
}

func (r *repo) git(args ...string) {
	r.t.Helper()
	full := append([]string{
		"-c", "user.name=Test",
		"-c", "user.email=test@example.com",
		"-c", "commit.gpgsign=false",
	}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = r.root
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1")
	if out, err := cmd.CombinedOutput(); err != nil {
		r.t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func (r *repo) write(rel, content string) {
	r.t.Helper()
	path := filepath.Join(r.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatal(err)
	}
}

func (r *repo) commit(msg string) {
	r.t.Helper()
	r.git("add", "-A")
	r.git("commit", "-q", "-m", msg)
}
