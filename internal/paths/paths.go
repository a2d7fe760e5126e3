// Package paths locates the local diary database.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName = "snooze"
	dbName  = "snooze.db"
)

// Dir is $XDG_CONFIG_HOME/snooze, falling back to ~/.config/snooze.
func Dir() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); filepath.IsAbs(base) {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// DB returns the default database path, creating its directory
// owner-only if needed.
func DB() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	return filepath.Join(dir, dbName), nil
}
