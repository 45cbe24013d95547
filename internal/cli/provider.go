package cli

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/slackteams/tokenstore/internal/credstore"
	"github.com/slackteams/tokenstore/internal/output"
	"github.com/slackteams/tokenstore/internal/secrets"
)

// StoreProvider lazily opens the vault and builds the credential store
type StoreProvider struct {
	settings Settings
	stderr   io.Writer
	logger   *zap.Logger
	open     func(secrets.Options) (*secrets.Selection, error)

	once      sync.Once
	store     *credstore.CredentialStore
	selection *secrets.Selection
	err       error
}

// NewStoreProvider creates a StoreProvider; open defaults to secrets.Open
func NewStoreProvider(settings Settings, stderr io.Writer, logger *zap.Logger, open func(secrets.Options) (*secrets.Selection, error)) *StoreProvider {
	if open == nil {
		open = secrets.Open
	}
	return &StoreProvider{settings: settings, stderr: stderr, logger: logger, open: open}
}

// Settings returns the resolved settings
func (sp *StoreProvider) Settings() Settings {
	return sp.settings
}

// Selection returns the backend chosen by Store, or nil before the first call
func (sp *StoreProvider) Selection() *secrets.Selection {
	return sp.selection
}

// Store returns the CredentialStore, opening the vault on first call
func (sp *StoreProvider) Store() (*credstore.CredentialStore, error) {
	sp.once.Do(func() {
		sel, err := sp.open(secrets.Options{
			Backend:  sp.settings.Backend,
			Service:  sp.settings.Service,
			FileDir:  sp.settings.FileDir,
			Password: sp.settings.Password,
			Stderr:   sp.stderr,
		})
		if err != nil {
			sp.err = &output.CLIError{
				ExitCode: output.ExitConfigError,
				Message:  fmt.Sprintf("Failed to initialize secrets store: %v", err),
			}
			return
		}

		if sel.Fallback != nil {
			sp.logger.Warn("keyring unavailable, using file backend", zap.Error(sel.Fallback))
		}
		sp.logger.Debug("vault opened",
			zap.String("requested", sp.settings.Backend),
			zap.String("backend", sel.Backend),
			zap.String("service", sp.settings.Service),
		)

		sp.selection = sel
		sp.store = credstore.New(sp.settings.Service, sel.Vault)
	})
	return sp.store, sp.err
}
