// internal/errors/errors.go
package appErrors

import "fmt"

// ValidationError means the input can never succeed as given (missing
// recipient, missing template). Jobs failing validation are not retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError covers records looked up by id that do not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func NewNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// TransportError wraps a failure from an outbound channel (SMTP, SMS
// gateway). The provider's message is kept verbatim for diagnosis.
type TransportError struct {
	Channel string
	Cause   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport: %v", e.Channel, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

func NewTransport(channel string, cause error) error {
	return &TransportError{Channel: channel, Cause: cause}
}

// LookupError means a record the dispatcher needs vanished between
// scheduling and dispatch. Treated like a transport failure: the job is
// marked failed and the batch continues.
type LookupError struct {
	Kind string
	ID   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %s no longer exists", e.Kind, e.ID)
}

func NewLookup(kind, id string) error {
	return &LookupError{Kind: kind, ID: id}
}
