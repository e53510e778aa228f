package workspace

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/testimpact/internal/errors"
)

// Ecosystem names a supported workspace flavour.
type Ecosystem string

const (
	EcosystemCargo Ecosystem = "cargo"
	EcosystemGo    Ecosystem = "go"
)

// Ecosystems lists supported ecosystems in detection order.
var Ecosystems = []Ecosystem{EcosystemCargo, EcosystemGo}

type ecosystemMarker struct {
	File      string
	Ecosystem Ecosystem
}

// ecosystemMarkers defines the auto-detection order. First match wins.
var ecosystemMarkers = []ecosystemMarker{
	{"Cargo.toml", EcosystemCargo},
	{"go.work", EcosystemGo},
	{"go.mod", EcosystemGo},
}

// Detect picks the ecosystem of the workspace rooted at root from its marker files.
func Detect(root string) (Ecosystem, bool) {
	for _, marker := range ecosystemMarkers {
		if _, err := os.Stat(filepath.Join(root, marker.File)); err == nil {
			return marker.Ecosystem, true
		}
	}
	return "", false
}

// ParseEcosystem validates a user-supplied ecosystem name.
func ParseEcosystem(name string) (Ecosystem, error) {
	for _, e := range Ecosystems {
		if string(e) == name {
			return e, nil
		}
	}
	return "", errors.InvalidArgumentsf("unknown ecosystem %q (supported: cargo, go)", name)
}

// NewProvider returns the metadata provider for an ecosystem.
func NewProvider(e Ecosystem, logger *slog.Logger) (Provider, error) {
	switch e {
	case EcosystemCargo:
		return NewCargoProvider(logger), nil
	case EcosystemGo:
		return NewGoProvider(logger), nil
	default:
		return nil, errors.InvalidArgumentsf("unknown ecosystem %q (supported: cargo, go)", e)
	}
}
