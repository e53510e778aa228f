// Package vcs reports which files changed in a repository, either in the
// working tree or between two revisions.
package vcs

import (
	"context"
	"fmt"
)

// FileType classifies the filesystem object behind a changed path.
type FileType int

const (
	FileTypeFile FileType = iota
	FileTypeDirectory
	FileTypeSymlink
	FileTypeOther
)

var fileTypeNames = []string{"file", "directory", "symlink", "other"}

func (t FileType) String() string {
	if int(t) < len(fileTypeNames) {
		return fileTypeNames[t]
	}
	return fmt.Sprintf("FileType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t FileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ChangeType classifies how a path changed.
type ChangeType int

const (
	ChangeAdded ChangeType = iota
	ChangeModified
	ChangeRemoved
)

var changeTypeNames = []string{"added", "modified", "removed"}

func (c ChangeType) String() string {
	if int(c) < len(changeTypeNames) {
		return changeTypeNames[c]
	}
	return fmt.Sprintf("ChangeType(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c ChangeType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ChangedFile is a single changed path. Paths are absolute and rooted at
// the workspace root. OldPath is set only for renames.
type ChangedFile struct {
	CurrentPath string     `json:"current_path"`
	OldPath     string     `json:"old_path,omitempty"`
	FileType    FileType   `json:"file_type"`
	ChangeType  ChangeType `json:"change_type"`
}

// Paths returns the paths that identify the change: the current path
// followed by the old path of a rename.
func (f ChangedFile) Paths() []string {
	if f.OldPath == "" {
		return []string{f.CurrentPath}
	}
	return []string{f.CurrentPath, f.OldPath}
}

// Vcs answers changeset queries against a repository.
type Vcs interface {
	// WorkspaceRoot returns the canonical root of the repository containing path.
	WorkspaceRoot(ctx context.Context, path string) (string, error)
	// UncommittedChanges returns staged, unstaged and untracked changes.
	UncommittedChanges(ctx context.Context, root string) ([]ChangedFile, error)
	// ChangesBetween compares two revisions. An empty toRef means HEAD.
	ChangesBetween(ctx context.Context, root, fromRef, toRef string) ([]ChangedFile, error)
}

// dedupe drops repeated current paths, keeping the first occurrence.
func dedupe(files []ChangedFile) []ChangedFile {
	seen := make(map[string]bool, len(files))
	result := files[:0]
	for _, f := range files {
		if seen[f.CurrentPath] {
			continue
		}
		seen[f.CurrentPath] = true
		result = append(result, f)
	}
	return result
}

// fileTypeFromMode maps a git object mode to a FileType.
func fileTypeFromMode(mode string) FileType {
	switch mode {
	case "100644", "100755", "100664":
		return FileTypeFile
	case "120000":
		return FileTypeSymlink
	case "040000", "40000":
		return FileTypeDirectory
	default:
		return FileTypeOther
	}
}
