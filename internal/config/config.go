package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/testimpact/internal/schema"
)

// FileNames are the configuration files looked up in the workspace root,
// in priority order.
var FileNames = []string{
	".testimpact.json",
	".testimpact.yaml",
	".testimpact.yml",
	".testimpact.toml",
}

// Find returns the first configuration file present in root, or "" when
// there is none.
func Find(root string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat config file: %w", err)
		}
	}
	return "", nil
}

// Load reads and parses a configuration file. The format follows the file
// extension; anything that is not YAML or TOML is read as JSON.
func Load(path string) (*Config, error) {
	cfg, _, err := LoadAndValidate(path)
	return cfg, err
}

// LoadAndValidate reads a configuration file, checks it against the
// embedded schema, validates its values and returns warnings for fields
// it does not know.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	doc, err := normalize(path, data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", filepath.Base(path), err)
	}

	if err := schema.ValidateConfig(doc); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	cfg, warnings, err := LoadWithWarnings(doc)
	if err != nil {
		return nil, nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, warnings, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, warnings, nil
}

// normalize converts a YAML or TOML document to JSON so that a single
// decoder, schema and unknown-field check serve every format.
func normalize(path string, data []byte) ([]byte, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case ".toml":
		var table map[string]any
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, err
		}
		doc = table
	default:
		return data, nil
	}

	// An empty YAML file decodes to nil.
	if doc == nil {
		doc = map[string]any{}
	}
	return json.Marshal(doc)
}
