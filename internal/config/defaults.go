package config

import (
	"os"
	"path/filepath"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Notes: NotesConfig{
			Dir:       defaultNotesDir(),
			Extension: ".md",
		},
		Database: DatabaseConfig{
			Path:    defaultDatabasePath(),
			Enabled: true,
		},
		Index: IndexConfig{
			PreviewLength: 320,
			KeepContent:   true,
		},
		Search: SearchConfig{
			DefaultLimit: 50,
			DefaultSort:  "modified",
		},
	}
}

func defaultDatabasePath() string {
	dataDir, err := DataDir()
	if err != nil {
		return "index.db"
	}
	return filepath.Join(dataDir, "index.db")
}

func defaultNotesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "notes"
	}
	return filepath.Join(home, "notes")
}
