package output

import (
	"errors"

	"github.com/slackteams/tokenstore/internal/credstore"
)

// Exit codes following sysexits.h convention
const (
	ExitOK          = 0  // Success
	ExitGeneral     = 1  // General error
	ExitUsage       = 2  // Invalid usage / bad arguments
	ExitNotFound    = 4  // Secret or key not found
	ExitVault       = 7  // Platform vault failure
	ExitConfigError = 10 // Configuration error
)

// CLIError represents a structured error with exit code and optional hint
type CLIError struct {
	ExitCode int
	Message  string
	Hint     string
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLIError
func NewCLIError(code int, msg string) *CLIError {
	return &CLIError{
		ExitCode: code,
		Message:  msg,
	}
}

// WithHint adds a user-facing hint to the error
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// FromOutcome converts a failed outcome into a CLIError, or returns nil
func FromOutcome(o credstore.Outcome) *CLIError {
	if o.Success {
		return nil
	}

	msg := "operation failed"
	if o.Error != nil {
		msg = *o.Error
	}

	switch o.Kind {
	case credstore.KindInvalidRequest:
		return NewCLIError(ExitUsage, msg)
	case credstore.KindVaultUnavailable:
		return NewCLIError(ExitVault, msg).
			WithHint("Check that the OS secret service is running, or select another backend with --backend file")
	default:
		return NewCLIError(ExitVault, msg)
	}
}

// ExitWithError prints the error via the formatter.
// The os.Exit call itself stays in main.go.
func ExitWithError(formatter Formatter, err error) int {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		formatter.PrintError(cliErr)
		if cliErr.Hint != "" {
			formatter.PrintHint(cliErr.Hint)
		}
		return cliErr.ExitCode
	}

	formatter.PrintError(err)
	return ExitGeneral
}
