// Package apperr defines the error kinds surfaced to API clients.
//
// Services return these values (or wrap them); the HTTP layer maps a kind to a
// status code and a JSON body. Anything else is treated as an internal error
// and never shown to the client verbatim.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind names an error class on the wire.
type Kind string

const (
	KindValidation         Kind = "validation_failed"
	KindDuplicate          Kind = "duplicate_field"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindRoleMismatch       Kind = "role_mismatch"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindRateLimited        Kind = "rate_limited"
	KindInternal           Kind = "internal"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrNotFound           = errors.New("not found")
	ErrRateLimited        = errors.New("too many requests, slow down")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Validation builds a *ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateError reports a uniqueness violation on Field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s is already registered", e.Field)
}

// Duplicate builds a *DuplicateError.
func Duplicate(field string) error {
	return &DuplicateError{Field: field}
}

// RoleMismatchError is returned when a login names the wrong portal. Role is
// the account's actual role.
type RoleMismatchError struct {
	Role string
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("invalid role, please login using the %s portal", e.Role)
}

// KindOf classifies err.
func KindOf(err error) Kind {
	var (
		verr *ValidationError
		derr *DuplicateError
		rerr *RoleMismatchError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return KindValidation
	case errors.As(err, &derr):
		return KindDuplicate
	case errors.As(err, &rerr):
		return KindRoleMismatch
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	default:
		return KindInternal
	}
}

// Status maps a kind to its HTTP status code.
func Status(k Kind) int {
	switch k {
	case KindValidation, KindDuplicate:
		return http.StatusBadRequest
	case KindInvalidCredentials, KindRoleMismatch, KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Field returns the offending field for validation and duplicate errors.
func Field(err error) string {
	var (
		verr *ValidationError
		derr *DuplicateError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Field
	case errors.As(err, &derr):
		return derr.Field
	}
	return ""
}
