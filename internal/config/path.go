// Package config loads client settings from viper and resolves the paths
// budgetview keeps its files under.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the directory budgetview keeps its config under.
const AppName = "budgetview"

// ExpandPath resolves a leading ~ to the home directory and then expands
// $VAR references. The path is returned unchanged when the home directory
// cannot be determined.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}
	if path == "" {
		return path
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// Dir returns budgetview's config directory, $XDG_CONFIG_HOME/budgetview
// or ~/.config/budgetview.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// File returns the path of name inside the config directory.
func File(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
