// Package impact maps changed files to the packages that own them and
// finds the packages that depend on those.
package impact

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/testimpact/internal/vcs"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
)

// Ownership assigns paths to the most specific package root containing them.
type Ownership struct {
	packages []ownedRoot
	ignore   *Ignore
}

type ownedRoot struct {
	name       string
	root       string
	components int
}

// NewOwnership prepares package roots for matching. A nil ignore keeps every path.
func NewOwnership(packages []workspace.PackageInfo, ignore *Ignore) *Ownership {
	roots := make([]ownedRoot, 0, len(packages))
	for _, p := range packages {
		root := filepath.Clean(p.Root)
		roots = append(roots, ownedRoot{
			name:       p.Name,
			root:       root,
			components: countComponents(root),
		})
	}
	return &Ownership{packages: roots, ignore: ignore}
}

// Owner returns the package owning path. When package roots nest, the
// root with the most path components wins; on equal depth the first
// package in provider order is kept.
func (o *Ownership) Owner(path string) (string, bool) {
	path = filepath.Clean(path)
	if o.ignore.Match(path) {
		return "", false
	}

	best := -1
	for i, p := range o.packages {
		if !within(path, p.root) {
			continue
		}
		if best == -1 || p.components > o.packages[best].components {
			best = i
		}
	}
	if best == -1 {
		return "", false
	}
	return o.packages[best].name, true
}

// Resolve returns the owners of every changed file in first-discovery
// order without duplicates. Both sides of a rename are attributed.
// Files outside every package are dropped.
func (o *Ownership) Resolve(files []vcs.ChangedFile) []string {
	var owners []string
	seen := make(map[string]bool)
	for _, f := range files {
		for _, path := range f.Paths() {
			name, ok := o.Owner(path)
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			owners = append(owners, name)
		}
	}
	return owners
}

// OwningPackages is a shorthand for NewOwnership(packages, nil).Resolve(files).
func OwningPackages(files []vcs.ChangedFile, packages []workspace.PackageInfo) []string {
	return NewOwnership(packages, nil).Resolve(files)
}

// within reports whether path equals root or lies below it, comparing
// whole path components so that /w/ab is not inside /w/a.
func within(path, root string) bool {
	if path == root {
		return true
	}
	if strings.HasSuffix(root, string(os.PathSeparator)) {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(os.PathSeparator))
}

func countComponents(path string) int {
	n := 0
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" {
			n++
		}
	}
	return n
}
