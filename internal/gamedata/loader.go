package gamedata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and unmarshals a JSON file from the embedded filesystem.
func Load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}

	return result, nil
}

// LoadFile reads a user-supplied catalog from disk. The format is picked from
// the extension: .yaml and .yml use YAML, anything else JSON.
func LoadFile[T any](path string) (T, error) {
	var result T

	content, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &result); err != nil {
			return result, fmt.Errorf("failed to parse YAML from %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(content, &result); err != nil {
			return result, fmt.Errorf("failed to parse JSON from %s: %w", path, err)
		}
	}

	return result, nil
}
