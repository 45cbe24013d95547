package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
)

// OpenFunc opens a keyring for a given configuration. keyring.Open by default.
type OpenFunc func(cfg keyring.Config) (keyring.Keyring, error)

// KeyringOptions configures a KeyringVault
type KeyringOptions struct {
	// FileDir is where the keyring's own encrypted-file backend keeps items.
	FileDir string
	// Password unlocks the file backend; empty means prompt on the terminal.
	Password string
	// Backends restricts which keyring backends may be used (nil = all available).
	Backends []keyring.BackendType
	// Open replaces keyring.Open, mostly for tests.
	Open OpenFunc
}

// KeyringVault implements Vault on top of github.com/99designs/keyring.
// The keyring is opened anew for every entry so that an unreachable
// secret service is reported per operation.
type KeyringVault struct {
	opts KeyringOptions
}

// NewKeyringVault creates a keyring-backed vault
func NewKeyringVault(opts KeyringOptions) *KeyringVault {
	if opts.Open == nil {
		opts.Open = keyring.Open
	}
	if opts.FileDir == "" {
		opts.FileDir = filepath.Join(DataDir(), "keyring")
	}
	return &KeyringVault{opts: opts}
}

func (v *KeyringVault) config(service string) keyring.Config {
	prompt := keyring.TerminalPrompt
	if v.opts.Password != "" {
		prompt = keyring.FixedStringPrompt(v.opts.Password)
	}

	return keyring.Config{
		ServiceName:              service,
		AllowedBackends:          v.opts.Backends,
		KeychainTrustApplication: true, // macOS: don't prompt every access
		FileDir:                  v.opts.FileDir,
		FilePasswordFunc:         prompt,
	}
}

// Entry opens the keyring for service and returns a handle for key
func (v *KeyringVault) Entry(service, key string) (Entry, error) {
	if service == "" {
		return nil, ErrNoService
	}

	ring, err := v.opts.Open(v.config(service))
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	return &keyringEntry{ring: ring, key: key}, nil
}

// Probe opens the keyring once to check the backend is usable
func (v *KeyringVault) Probe(service string) error {
	_, err := v.Entry(service, "")
	return err
}

type keyringEntry struct {
	ring keyring.Keyring
	key  string
}

func (e *keyringEntry) Get() (string, error) {
	item, err := e.ring.Get(e.key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keyring get failed: %w", err)
	}
	return string(item.Data), nil
}

func (e *keyringEntry) Set(value string) error {
	item := keyring.Item{
		Key:  e.key,
		Data: []byte(value),
	}
	if err := e.ring.Set(item); err != nil {
		return fmt.Errorf("keyring set failed: %w", err)
	}
	return nil
}

func (e *keyringEntry) Delete() error {
	if err := e.ring.Remove(e.key); err != nil {
		// The file and keyctl backends surface a missing item as an os error
		if errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("keyring delete failed: %w", err)
	}
	return nil
}
