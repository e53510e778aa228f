package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/AndreyAkinshin/testimpact/internal/errors"
)

// GoProvider reads a Go workspace from go.work, falling back to a single
// go.mod at the root. Each module is a package named by its module path.
type GoProvider struct {
	logger *slog.Logger
}

// NewGoProvider creates a Go workspace provider.
func NewGoProvider(logger *slog.Logger) *GoProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GoProvider{logger: logger}
}

// Metadata parses the module files of the workspace rooted at root.
func (p *GoProvider) Metadata(_ context.Context, root string) (*Graph, error) {
	dirs, err := p.moduleDirs(root)
	if err != nil {
		return nil, err
	}

	packages := make([]Package, 0, len(dirs))
	for _, dir := range dirs {
		pkg, err := readModule(dir)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}

	p.logger.Debug("loaded go workspace", "root", root, "modules", len(packages))
	return NewGraph(packages)
}

// moduleDirs lists module directories in go.work order.
func (p *GoProvider) moduleDirs(root string) ([]string, error) {
	workPath := filepath.Join(root, "go.work")
	data, err := os.ReadFile(workPath)
	if os.IsNotExist(err) {
		if _, statErr := os.Stat(filepath.Join(root, "go.mod")); statErr != nil {
			return nil, errors.Metadataf("no go.work or go.mod found in %s", root)
		}
		return []string{root}, nil
	}
	if err != nil {
		return nil, errors.Metadata(fmt.Errorf("read go.work: %w", err))
	}

	work, err := modfile.ParseWork(workPath, data, nil)
	if err != nil {
		return nil, errors.Metadata(fmt.Errorf("parse go.work: %w", err))
	}

	dirs := make([]string, 0, len(work.Use))
	seen := make(map[string]bool, len(work.Use))
	for _, use := range work.Use {
		dir := filepath.FromSlash(use.Path)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

func readModule(dir string) (Package, error) {
	modPath := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		return Package{}, errors.Metadata(fmt.Errorf("read %s: %w", modPath, err))
	}

	f, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return Package{}, errors.Metadata(fmt.Errorf("parse %s: %w", modPath, err))
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return Package{}, errors.Metadataf("%s has no module directive", modPath)
	}

	deps := make([]string, 0, len(f.Require))
	for _, req := range f.Require {
		deps = append(deps, req.Mod.Path)
	}

	return Package{
		PackageInfo: PackageInfo{
			Name: f.Module.Mod.Path,
			Root: canonicalDir(dir),
		},
		Dependencies: deps,
	}, nil
}

var _ Provider = (*GoProvider)(nil)
