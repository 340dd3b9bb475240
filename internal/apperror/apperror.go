// Package apperror defines the domain failure kinds surfaced to API callers.
//
// Every kind is an expected, caller-recoverable condition. Anything that is
// not an *Error is treated as an unexpected internal failure by the HTTP
// layer and is never shown to the caller.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a domain failure.
type Kind int

const (
	Unknown Kind = iota
	DuplicateEmail
	DuplicateTitle
	WeakPassword
	InvalidCredentials
	NotFound
	AlreadyOwned
	Unauthorized
	Forbidden
	InvalidInput
)

var kindNames = map[Kind]string{
	Unknown:            "unknown",
	DuplicateEmail:     "duplicate_email",
	DuplicateTitle:     "duplicate_title",
	WeakPassword:       "weak_password",
	InvalidCredentials: "invalid_credentials",
	NotFound:           "not_found",
	AlreadyOwned:       "already_owned",
	Unauthorized:       "unauthorized",
	Forbidden:          "forbidden",
	InvalidInput:       "invalid_input",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[Unknown]
}

// Error is a domain failure with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports a match when target is an *Error of the same kind, so the
// sentinels below work with errors.Is regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// StatusCode maps the kind onto an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case InvalidInput, WeakPassword:
		return http.StatusBadRequest
	case InvalidCredentials, Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case DuplicateEmail, DuplicateTitle, AlreadyOwned:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// New creates a domain error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Sentinels for errors.Is checks.
var (
	ErrDuplicateEmail     = New(DuplicateEmail, "email already in use")
	ErrDuplicateTitle     = New(DuplicateTitle, "game already registered")
	ErrWeakPassword       = New(WeakPassword, "password must be at least 8 characters and contain a letter, a digit and a special character")
	ErrInvalidCredentials = New(InvalidCredentials, "invalid email or password")
	ErrNotFound           = New(NotFound, "not found")
	ErrAlreadyOwned       = New(AlreadyOwned, "game already in library")
	ErrUnauthorized       = New(Unauthorized, "authentication required")
	ErrForbidden          = New(Forbidden, "insufficient permissions")
	ErrInvalidInput       = New(InvalidInput, "invalid input")
)

// FromError extracts the domain error from err's chain.
func FromError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or Unknown when err is not a domain error.
func KindOf(err error) Kind {
	if appErr, ok := FromError(err); ok {
		return appErr.Kind
	}
	return Unknown
}
