package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    []string
		expected Ecosystem
		found    bool
	}{
		{"cargo", []string{"Cargo.toml"}, EcosystemCargo, true},
		{"go work", []string{"go.work"}, EcosystemGo, true},
		{"go mod", []string{"go.mod"}, EcosystemGo, true},
		{"cargo wins over go", []string{"go.mod", "Cargo.toml"}, EcosystemCargo, true},
		{"nothing", []string{"README.md"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, f), nil, 0o644); err != nil {
					t.Fatal(err)
				}
			}

			got, found := Detect(dir)
			if got != tt.expected || found != tt.found {
				t.Errorf("Detect() = (%q, %v), want (%q, %v)", got, found, tt.expected, tt.found)
			}
		})
	}
}

func TestParseEcosystem(t *testing.T) {
	t.Parallel()

	if e, err := ParseEcosystem("go"); err != nil || e != EcosystemGo {
		t.Errorf("ParseEcosystem(go) = (%q, %v)", e, err)
	}
	if _, err := ParseEcosystem("npm"); err == nil {
		t.Error("ParseEcosystem(npm) expected error")
	}
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	if p, err := NewProvider(EcosystemCargo, nil); err != nil {
		t.Errorf("NewProvider(cargo) error = %v", err)
	} else if _, ok := p.(*CargoProvider); !ok {
		t.Errorf("NewProvider(cargo) = %T, want *CargoProvider", p)
	}

	if p, err := NewProvider(EcosystemGo, nil); err != nil {
		t.Errorf("NewProvider(go) error = %v", err)
	} else if _, ok := p.(*GoProvider); !ok {
		t.Errorf("NewProvider(go) = %T, want *GoProvider", p)
	}

	if _, err := NewProvider("zig", nil); err == nil {
		t.Error("NewProvider(zig) expected error")
	}
}
