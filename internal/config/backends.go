package config

import (
	"fmt"
	"sort"
)

// BackendInfo describes a selectable vault backend
type BackendInfo struct {
	Name        string
	Description string
	Platforms   string
}

// Backends maps backend names to their descriptions
var Backends = map[string]BackendInfo{
	"auto": {
		Name:        "auto",
		Description: "OS keyring, falling back to encrypted file on WSL/headless hosts",
		Platforms:   "all",
	},
	"system": {
		Name:        "system",
		Description: "Native secret service via direct platform calls",
		Platforms:   "macOS Keychain, Windows Credential Manager, Linux Secret Service",
	},
	"keyring": {
		Name:        "keyring",
		Description: "Multi-backend keyring (keychain, wincred, secret-service, kwallet, pass, keyctl)",
		Platforms:   "all",
	},
	"file": {
		Name:        "file",
		Description: "AES-256-GCM encrypted file in the XDG data directory",
		Platforms:   "all",
	},
}

// DefaultBackend is used when neither flag, env nor config chooses one
const DefaultBackend = "auto"

// GetBackend returns the description of the named backend
func GetBackend(name string) (BackendInfo, error) {
	info, ok := Backends[name]
	if !ok {
		return BackendInfo{}, fmt.Errorf("unknown backend: %s", name)
	}
	return info, nil
}

// ValidBackends returns a sorted list of backend names
func ValidBackends() []string {
	names := make([]string, 0, len(Backends))
	for name := range Backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
