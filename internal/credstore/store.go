// Package credstore stores, reads and removes named secrets in a platform
// vault under a fixed service namespace, reporting every result as an Outcome.
package credstore

import (
	"errors"

	"github.com/slackteams/tokenstore/internal/secrets"
)

// CredentialStore is a stateless facade over a secrets.Vault.
// It is safe for concurrent use; ordering between calls on the same key is
// whatever the vault provides.
type CredentialStore struct {
	service string
	vault   secrets.Vault
}

// New creates a CredentialStore scoped to service
func New(service string, vault secrets.Vault) *CredentialStore {
	return &CredentialStore{service: service, vault: vault}
}

// Service returns the namespace this store writes under
func (s *CredentialStore) Service() string {
	return s.service
}

func (s *CredentialStore) entry(key string) (secrets.Entry, *Outcome) {
	entry, err := s.vault.Entry(s.service, key)
	if err != nil {
		out := failed(KindVaultUnavailable, "failed to open vault entry: %v", err)
		return nil, &out
	}
	return entry, nil
}

// Store writes value under key, replacing any previous value
func (s *CredentialStore) Store(key, value string) Outcome {
	entry, fail := s.entry(key)
	if fail != nil {
		return *fail
	}

	if err := entry.Set(value); err != nil {
		return failed(KindWriteFailure, "failed to store secret: %v", err)
	}
	return succeeded()
}

// Get reads the secret stored under key.
// A missing secret is a success with no value.
func (s *CredentialStore) Get(key string) Outcome {
	entry, fail := s.entry(key)
	if fail != nil {
		return *fail
	}

	value, err := entry.Get()
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return succeeded()
		}
		return failed(KindReadFailure, "failed to read secret: %v", err)
	}
	return found(value)
}

// Delete removes the secret stored under key.
// Deleting a missing secret succeeds.
func (s *CredentialStore) Delete(key string) Outcome {
	entry, fail := s.entry(key)
	if fail != nil {
		return *fail
	}

	if err := entry.Delete(); err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return succeeded()
		}
		return failed(KindDeleteFailure, "failed to delete secret: %v", err)
	}
	return succeeded()
}
