package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the XDG configuration directory for inkwell.
// Uses $XDG_CONFIG_HOME/inkwell or ~/.config/inkwell on Unix.
// On macOS, uses ~/Library/Application Support/inkwell.
func ConfigDir() (string, error) {
	if homeOverride := os.Getenv("INKWELL_HOME"); homeOverride != "" {
		return filepath.Join(homeOverride, "config"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "inkwell"), nil
	}

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "inkwell"), nil
	}

	return filepath.Join(home, ".config", "inkwell"), nil
}

// DataDir returns the XDG data directory for inkwell.
// Uses $XDG_DATA_HOME/inkwell or ~/.local/share/inkwell on Unix.
// On macOS, uses ~/Library/Application Support/inkwell.
func DataDir() (string, error) {
	if homeOverride := os.Getenv("INKWELL_HOME"); homeOverride != "" {
		return filepath.Join(homeOverride, "data"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "inkwell"), nil
	}

	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "inkwell"), nil
	}

	return filepath.Join(home, ".local", "share", "inkwell"), nil
}
