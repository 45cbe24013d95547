package secrets

import "errors"

// Vault is the platform secret vault a credential store talks to.
// Entry resolves a handle for one (service, key) identity; construction may
// fail when the underlying secret service is unreachable.
type Vault interface {
	Entry(service, key string) (Entry, error)
}

// Entry addresses a single secret in a Vault.
// Get and Delete return an error wrapping ErrNotFound when nothing is stored.
type Entry interface {
	Get() (string, error)
	Set(value string) error
	Delete() error
}

// ErrNotFound is returned when no secret exists for an identity
var ErrNotFound = errors.New("secret not found")

// ErrNoService is returned when an entry is requested without a service name
var ErrNoService = errors.New("service name is required")

// DefaultServiceName is the namespace secrets are stored under unless configured otherwise
const DefaultServiceName = "slackteams"
