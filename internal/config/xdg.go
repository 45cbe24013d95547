package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const appName = "tokenstore"

// ConfigDir returns the XDG-compliant config directory for tokenstore
// Typically ~/.config/tokenstore/ on Linux
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// ConfigPath returns the full path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json5")
}

// ExpandHome resolves a leading ~ in a path read from the config file
func ExpandHome(path string) string {
	if path == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}
