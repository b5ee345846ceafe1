// Package errors defines the typed error kinds surfaced by the service.
// Handlers map a kind to an HTTP status uniformly instead of inspecting
// error strings.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for uniform handling at the HTTP boundary.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
)

// Error carries a kind alongside a user-safe message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports bad or missing input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Auth reports missing, invalid or expired credentials.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// NotFound reports an unknown resource id.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Storage reports a store operation failure. The cause is kept for logs but
// never rendered to clients.
func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Untyped errors are treated
// as storage failures.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindStorage
}

// HTTPStatus maps an error kind to its response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
