package config

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
)

func TestConfigPath(t *testing.T) {
	t.Cleanup(xdg.Reload)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()

	assert.Equal(t, filepath.Join(dir, "tokenstore"), ConfigDir())
	assert.Equal(t, filepath.Join(dir, "tokenstore", "config.json5"), ConfigPath())
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "home", path: "~", expected: xdg.Home},
		{name: "under home", path: "~/secrets", expected: filepath.Join(xdg.Home, "secrets")},
		{name: "absolute", path: "/var/lib/tokenstore", expected: "/var/lib/tokenstore"},
		{name: "relative", path: "secrets", expected: "secrets"},
		{name: "other user", path: "~bob/secrets", expected: "~bob/secrets"},
		{name: "empty", path: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandHome(tt.path))
		})
	}
}
