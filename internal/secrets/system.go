package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// SystemVault implements Vault with direct calls to the OS secret service
// (macOS Keychain, Windows Credential Manager, Secret Service on Linux).
type SystemVault struct{}

// NewSystemVault creates a vault backed by github.com/zalando/go-keyring
func NewSystemVault() *SystemVault {
	return &SystemVault{}
}

// Entry returns a handle for (service, key). No connection is made until the
// handle is used.
func (v *SystemVault) Entry(service, key string) (Entry, error) {
	if service == "" {
		return nil, ErrNoService
	}
	return &systemEntry{service: service, user: key}, nil
}

type systemEntry struct {
	service string
	user    string
}

func (e *systemEntry) Get() (string, error) {
	secret, err := keyring.Get(e.service, e.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("secret service get failed: %w", err)
	}
	return secret, nil
}

func (e *systemEntry) Set(value string) error {
	if err := keyring.Set(e.service, e.user, value); err != nil {
		return fmt.Errorf("secret service set failed: %w", err)
	}
	return nil
}

func (e *systemEntry) Delete() error {
	if err := keyring.Delete(e.service, e.user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("secret service delete failed: %w", err)
	}
	return nil
}
