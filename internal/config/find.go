package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AppName is the directory name used under the XDG and system config roots.
const AppName = "axisflow"

// SystemPath is the last configuration file consulted.
var SystemPath = filepath.Join("/etc", AppName, "config.yml")

var candidateNames = []string{"config.yml", "config.yaml", "config.hcl"}

// ErrNoConfig is returned by Find when no configuration file exists.
var ErrNoConfig = errors.New("found no config file")

// Find resolves the configuration file: the explicit path when given, then
// $XDG_CONFIG_HOME/axisflow (defaulting to ~/.config), then SystemPath.
// getenv is normally os.Getenv.
func Find(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	root := getenv("XDG_CONFIG_HOME")
	if root == "" {
		if home := getenv("HOME"); home != "" {
			root = filepath.Join(home, ".config")
		}
	}
	if root != "" {
		for _, name := range candidateNames {
			p := filepath.Join(root, AppName, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}
	}

	if info, err := os.Stat(SystemPath); err == nil && !info.IsDir() {
		return SystemPath, nil
	}
	return "", ErrNoConfig
}
