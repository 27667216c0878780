// Package apperr carries the service-wide error taxonomy. Every failure
// crossing a component boundary is an *Error with a Kind tag; the REST
// layer maps kinds to HTTP status codes exactly once.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport boundary.
type Kind int

const (
	// Unauthorized means the request carried no credential at all.
	Unauthorized Kind = iota
	// Forbidden means the credential was invalid or the role did not match.
	Forbidden
	// NotFound means a referenced entity is absent from the store.
	NotFound
	// BadRequest means a required field was missing or malformed.
	BadRequest
	// Conflict means the requested state change is illegal from the
	// entity's current state, e.g. a backward delivery-status transition.
	Conflict
	// ExternalProvider means a payment or identity provider call failed.
	ExternalProvider
	// Store means a generic persistence failure.
	Store
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case BadRequest:
		return "bad_request"
	case Conflict:
		return "conflict"
	case ExternalProvider:
		return "external_provider"
	default:
		return "store"
	}
}

// Error is the single error type used across usecases and repositories.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an error with a kind tag and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind tag from err. Untagged errors count as Store
// failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Store
}

// MessageOf extracts the boundary-safe message from err. Untagged errors
// get a generic message so internals never leak into responses.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
