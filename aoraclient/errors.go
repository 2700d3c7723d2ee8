package aoraclient

import (
	"errors"
	"fmt"
)

// ErrorKind labels the operation family an error came from so callers can
// branch on the failure without parsing messages.
type ErrorKind string

const (
	KindAccountCreation ErrorKind = "account_creation"
	KindAuthentication  ErrorKind = "authentication"
	KindSignOut         ErrorKind = "sign_out"
	KindNotFound        ErrorKind = "not_found"
	KindFetch           ErrorKind = "fetch"
	KindValidation      ErrorKind = "validation"
	KindInvalidKind     ErrorKind = "invalid_kind"
	KindRemote          ErrorKind = "remote"
)

// Error is the single error type returned by Client operations. The original
// cause is always preserved and reachable through errors.Is / errors.As.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf reports the kind of err, or the empty kind when err did not come
// from this package.
func KindOf(err error) ErrorKind {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Kind
	}
	return ""
}

// apiError carries a non-2xx response from the service before an operation
// assigns it a kind.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("service returned %d: %s", e.Status, e.Message)
}
