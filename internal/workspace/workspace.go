// Package workspace loads the packages of a multi-package workspace and
// their direct dependency relations.
package workspace

import (
	"context"
	"path/filepath"

	"github.com/AndreyAkinshin/testimpact/internal/errors"
)

// PackageInfo identifies a workspace package.
type PackageInfo struct {
	Name string `json:"name"`
	Root string `json:"root"` // absolute directory containing the manifest
}

// Package is a workspace member together with its declared direct dependencies.
// Dependencies may name packages outside the workspace.
type Package struct {
	PackageInfo
	Dependencies []string `json:"dependencies,omitempty"`
}

// DependencyEdge is a directed relation from a dependent to one of its dependencies.
type DependencyEdge struct {
	Dependent  string
	Dependency string
}

// Provider reads the package graph of the workspace rooted at root.
type Provider interface {
	Metadata(ctx context.Context, root string) (*Graph, error)
}

// Graph is an immutable, ordered snapshot of workspace packages.
type Graph struct {
	packages []Package
	index    map[string]int
}

// NewGraph builds a graph, keeping the given package order and collapsing
// duplicate dependency names. Package names must be unique.
func NewGraph(packages []Package) (*Graph, error) {
	g := &Graph{
		packages: make([]Package, 0, len(packages)),
		index:    make(map[string]int, len(packages)),
	}

	for _, p := range packages {
		if p.Name == "" {
			return nil, errors.Metadataf("package at %s has no name", p.Root)
		}
		if _, dup := g.index[p.Name]; dup {
			return nil, errors.Metadataf("duplicate package name %q", p.Name)
		}

		p.Root = filepath.Clean(p.Root)
		p.Dependencies = uniq(p.Dependencies)

		g.index[p.Name] = len(g.packages)
		g.packages = append(g.packages, p)
	}

	return g, nil
}

// Packages returns all packages in provider order.
func (g *Graph) Packages() []Package {
	out := make([]Package, len(g.packages))
	copy(out, g.packages)
	return out
}

// Infos returns the identity of each package in provider order.
func (g *Graph) Infos() []PackageInfo {
	out := make([]PackageInfo, len(g.packages))
	for i, p := range g.packages {
		out[i] = p.PackageInfo
	}
	return out
}

// Names returns package names in provider order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.packages))
	for i, p := range g.packages {
		out[i] = p.Name
	}
	return out
}

// Package returns the package with the given name.
func (g *Graph) Package(name string) (Package, bool) {
	i, ok := g.index[name]
	if !ok {
		return Package{}, false
	}
	return g.packages[i], true
}

// Has reports whether name is a workspace package.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Len returns the number of packages.
func (g *Graph) Len() int {
	return len(g.packages)
}

// Edges returns one edge per declared direct dependency, including
// dependencies on packages outside the workspace.
func (g *Graph) Edges() []DependencyEdge {
	var edges []DependencyEdge
	for _, p := range g.packages {
		for _, dep := range p.Dependencies {
			edges = append(edges, DependencyEdge{Dependent: p.Name, Dependency: dep})
		}
	}
	return edges
}

// InternalDependencies maps each package to its dependencies that are
// themselves workspace packages.
func (g *Graph) InternalDependencies() map[string][]string {
	deps := make(map[string][]string, len(g.packages))
	for _, p := range g.packages {
		internal := []string{}
		for _, dep := range p.Dependencies {
			if dep != p.Name && g.Has(dep) {
				internal = append(internal, dep)
			}
		}
		deps[p.Name] = internal
	}
	return deps
}

func uniq(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// canonicalDir resolves symlinks so package roots compare equal to the
// canonical paths reported by the VCS layer.
func canonicalDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
