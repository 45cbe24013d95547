package credstore

import "fmt"

// Kind classifies why an operation failed
type Kind int

const (
	KindNone Kind = iota
	KindVaultUnavailable
	KindWriteFailure
	KindReadFailure
	KindDeleteFailure
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindVaultUnavailable:
		return "vault_unavailable"
	case KindWriteFailure:
		return "write_failure"
	case KindReadFailure:
		return "read_failure"
	case KindDeleteFailure:
		return "delete_failure"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of every credential operation.
// Error is set iff Success is false; Value is set only by a Get that found a secret.
type Outcome struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
	Value   *string `json:"value"`

	Kind Kind `json:"-"`
}

// Found reports whether a Get returned a stored secret
func (o Outcome) Found() bool {
	return o.Success && o.Value != nil
}

// Err returns the failure as an error, or nil on success
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	msg := "unknown failure"
	if o.Error != nil {
		msg = *o.Error
	}
	return &OutcomeError{Kind: o.Kind, Message: msg}
}

// OutcomeError is the error form of a failed Outcome
type OutcomeError struct {
	Kind    Kind
	Message string
}

func (e *OutcomeError) Error() string {
	return e.Message
}

func succeeded() Outcome {
	return Outcome{Success: true}
}

func found(value string) Outcome {
	return Outcome{Success: true, Value: &value}
}

func failed(kind Kind, format string, args ...any) Outcome {
	msg := fmt.Sprintf(format, args...)
	return Outcome{Success: false, Error: &msg, Kind: kind}
}
