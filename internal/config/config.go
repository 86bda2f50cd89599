package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration.
type Config struct {
	Notes    NotesConfig    `toml:"notes"`
	Database DatabaseConfig `toml:"database"`
	Index    IndexConfig    `toml:"index"`
	Search   SearchConfig   `toml:"search"`
}

// NotesConfig describes the corpus of note files to index.
type NotesConfig struct {
	Dir       string `toml:"dir"`       // Root directory of the note tree
	Extension string `toml:"extension"` // File extension filter (e.g. ".md")
}

// DatabaseConfig holds store-related settings.
type DatabaseConfig struct {
	Path    string `toml:"path"`    // Path to the SQLite file
	Enabled bool   `toml:"enabled"` // When false, searches fall back to filesystem scans
}

// IndexConfig holds indexing settings.
type IndexConfig struct {
	PreviewLength int  `toml:"preview_length"` // Max bytes of content preview
	KeepContent   bool `toml:"keep_content"`   // Retain full (compressed) content in the store
}

// SearchConfig holds search-related settings.
type SearchConfig struct {
	DefaultLimit int    `toml:"default_limit"` // Default number of search results
	DefaultSort  string `toml:"default_sort"`  // Default sort field (modified, title, date, created)
}

// Load reads the configuration from the XDG config path or uses defaults.
func Load() (*Config, error) {
	configPath, err := configFilePath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the XDG config path.
func (cfg *Config) Save() error {
	configPath, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// FilePath returns the path of the active configuration file, honoring
// the INKWELL_CONFIG override.
func FilePath() (string, error) {
	return configFilePath()
}

func configFilePath() (string, error) {
	if path := os.Getenv("INKWELL_CONFIG"); path != "" {
		return path, nil
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.toml"), nil
}
