package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/testimpact/internal/errors"
)

// CargoProvider reads a Cargo workspace through `cargo metadata`.
type CargoProvider struct {
	binary string
	logger *slog.Logger
}

// NewCargoProvider creates a provider that invokes cargo from PATH.
func NewCargoProvider(logger *slog.Logger) *CargoProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CargoProvider{binary: "cargo", logger: logger}
}

type cargoMetadata struct {
	Packages []struct {
		Name         string `json:"name"`
		ManifestPath string `json:"manifest_path"`
		Dependencies []struct {
			Name string `json:"name"`
		} `json:"dependencies"`
	} `json:"packages"`
}

// Metadata runs cargo metadata for root/Cargo.toml without resolving
// external dependencies.
func (p *CargoProvider) Metadata(ctx context.Context, root string) (*Graph, error) {
	manifest := filepath.Join(root, "Cargo.toml")
	cmd := exec.CommandContext(ctx, p.binary,
		"metadata", "--format-version", "1", "--no-deps", "--all-features",
		"--manifest-path", manifest,
	)
	cmd.Dir = root

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	p.logger.Debug("running cargo metadata", "manifest", manifest)
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Metadata(fmt.Errorf("cargo metadata: %w: %s", err, msg))
		}
		return nil, errors.Metadata(fmt.Errorf("cargo metadata: %w", err))
	}

	return parseCargoMetadata(out)
}

func parseCargoMetadata(data []byte) (*Graph, error) {
	var md cargoMetadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, errors.Metadata(fmt.Errorf("decode cargo metadata: %w", err))
	}

	packages := make([]Package, 0, len(md.Packages))
	for _, pkg := range md.Packages {
		if pkg.ManifestPath == "" {
			return nil, errors.Metadataf("package %q has no manifest path", pkg.Name)
		}
		deps := make([]string, 0, len(pkg.Dependencies))
		for _, d := range pkg.Dependencies {
			deps = append(deps, d.Name)
		}
		packages = append(packages, Package{
			PackageInfo: PackageInfo{
				Name: pkg.Name,
				Root: canonicalDir(filepath.Dir(pkg.ManifestPath)),
			},
			Dependencies: deps,
		})
	}

	return NewGraph(packages)
}

var _ Provider = (*CargoProvider)(nil)
