package config

import (
	"os"
	"path/filepath"
)

// ResolveDatabasePath converts a database name or path to an absolute path.
// If the input is empty or "default", returns the configured database path.
// If the input is already an absolute path, returns it as-is.
// If the input is a relative path or basename, resolves it in the data directory.
func ResolveDatabasePath(nameOrPath string) (string, error) {
	if nameOrPath == "" || nameOrPath == "default" {
		cfg, err := Load()
		if err != nil {
			return "", err
		}
		return cfg.Database.Path, nil
	}

	if filepath.IsAbs(nameOrPath) {
		return nameOrPath, nil
	}

	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	if filepath.Ext(nameOrPath) == "" {
		nameOrPath += ".db"
	}

	return filepath.Join(dataDir, nameOrPath), nil
}

// EnsureDatabaseDir ensures the directory for a database file exists.
func EnsureDatabaseDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
