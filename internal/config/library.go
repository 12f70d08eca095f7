package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LibraryConfigFile is the per-library config file name.
const LibraryConfigFile = "library.json"

// LibraryConfig represents per-library settings stored in library.json.
// Values here override the global config for this library.
type LibraryConfig struct {
	DefaultStyle string `json:"default_style,omitempty"`
}

// LibraryConfigPath returns the path to library.json from a library root.
func LibraryConfigPath(root string) string {
	return filepath.Join(root, LibraryConfigFile)
}

// LoadLibraryConfig reads the per-library config. A missing file yields an
// empty config, not an error.
func LoadLibraryConfig(root string) (*LibraryConfig, error) {
	data, err := os.ReadFile(LibraryConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &LibraryConfig{}, nil
		}
		return nil, fmt.Errorf("reading library config: %w", err)
	}

	var cfg LibraryConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing library config: %w", err)
	}
	return &cfg, nil
}

// Save writes the per-library config.
func (c *LibraryConfig) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding library config: %w", err)
	}
	if err := os.WriteFile(LibraryConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing library config: %w", err)
	}
	return nil
}

// StyleFor resolves the citation style for a library: per-library config
// first, then global config, then "apa".
func StyleFor(root string) string {
	if cfg, err := LoadLibraryConfig(root); err == nil && cfg.DefaultStyle != "" {
		return cfg.DefaultStyle
	}
	return GetDefaultStyle()
}
