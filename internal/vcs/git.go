package vcs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/testimpact/internal/errors"
)

// GitClient implements Vcs by shelling out to the git command.
type GitClient struct {
	binary string
	logger *slog.Logger
}

// NewGitClient creates a git client. A nil logger discards diagnostics.
func NewGitClient(logger *slog.Logger) *GitClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GitClient{binary: "git", logger: logger}
}

// WorkspaceRoot returns the canonical top-level directory of the repository containing path.
func (c *GitClient) WorkspaceRoot(ctx context.Context, path string) (string, error) {
	out, err := c.run(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.VcsDiscovery(err)
	}

	top := strings.TrimSpace(string(out))
	if top == "" {
		return "", errors.VcsDiscovery(fmt.Errorf("%s is not inside a work tree", path))
	}

	root, err := filepath.EvalSymlinks(filepath.FromSlash(top))
	if err != nil {
		return "", errors.VcsDiscovery(err)
	}
	return root, nil
}

// UncommittedChanges returns staged, unstaged and untracked changes relative to HEAD.
func (c *GitClient) UncommittedChanges(ctx context.Context, root string) ([]ChangedFile, error) {
	out, err := c.run(ctx, root, "status", "--porcelain=v2", "-z", "--untracked-files=all")
	if err != nil {
		return nil, errors.VcsOperation("status", err)
	}

	entries, err := parseStatus(out)
	if err != nil {
		return nil, errors.VcsOperation("status", err)
	}

	files := make([]ChangedFile, 0, len(entries))
	for _, e := range entries {
		f := ChangedFile{
			CurrentPath: join(root, e.path),
			ChangeType:  e.change,
			FileType:    e.fileType,
		}
		if e.oldPath != "" {
			f.OldPath = join(root, e.oldPath)
		}
		if e.untracked {
			f.FileType = lstatType(f.CurrentPath)
		}
		files = append(files, f)
	}

	files = dedupe(files)
	c.logger.Debug("collected uncommitted changes", "root", root, "count", len(files))
	return files, nil
}

// ChangesBetween returns the files that differ between fromRef and toRef.
// Only regular files and symlinks are reported.
func (c *GitClient) ChangesBetween(ctx context.Context, root, fromRef, toRef string) ([]ChangedFile, error) {
	if toRef == "" {
		toRef = "HEAD"
	}

	for _, ref := range []string{fromRef, toRef} {
		if _, err := c.run(ctx, root, "rev-parse", "--verify", "--quiet", "--end-of-options", ref+"^{commit}"); err != nil {
			c.logger.Debug("revision lookup failed", "ref", ref, "error", err)
			return nil, errors.VcsOperation(fmt.Sprintf("resolve reference '%s'", ref),
				fmt.Errorf("unknown revision %q", ref))
		}
	}

	out, err := c.run(ctx, root,
		"diff", "--no-color", "--no-ext-diff", "--unified=0", "-M",
		"--src-prefix=a/", "--dst-prefix=b/",
		fromRef, toRef, "--",
	)
	if err != nil {
		return nil, errors.VcsOperation("diff between commits", err)
	}

	entries, err := parseDiff(out)
	if err != nil {
		return nil, errors.VcsOperation("diff between commits", err)
	}

	files := make([]ChangedFile, 0, len(entries))
	for _, e := range entries {
		if e.fileType != FileTypeFile && e.fileType != FileTypeSymlink {
			continue
		}
		f := ChangedFile{
			CurrentPath: join(root, e.path),
			ChangeType:  e.change,
			FileType:    e.fileType,
		}
		if e.oldPath != "" {
			f.OldPath = join(root, e.oldPath)
		}
		files = append(files, f)
	}

	files = dedupe(files)
	c.logger.Debug("collected changes between revisions", "from", fromRef, "to", toRef, "count", len(files))
	return files, nil
}

// run executes git in dir and returns stdout. Stderr is folded into the error.
func (c *GitClient) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	full := append([]string{"-C", dir, "-c", "core.quotePath=false"}, args...)
	cmd := exec.CommandContext(ctx, c.binary, full...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("running git", "args", args, "dir", dir)
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

func join(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// lstatType inspects the working tree for paths git has no mode for.
func lstatType(path string) FileType {
	info, err := os.Lstat(path)
	if err != nil {
		return FileTypeOther
	}
	switch mode := info.Mode(); {
	case mode.IsRegular():
		return FileTypeFile
	case mode.IsDir():
		return FileTypeDirectory
	case mode&os.ModeSymlink != 0:
		return FileTypeSymlink
	default:
		return FileTypeOther
	}
}

var _ Vcs = (*GitClient)(nil)
