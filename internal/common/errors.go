// Package common defines shared constants, sentinel errors and small helpers
// used across the BrandVigilante server. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// ErrInvalidCredentials is returned by sign-in for an unknown email or a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTooManyAttempts is returned when a rate limiter rejects a request.
	ErrTooManyAttempts = errors.New("too many attempts")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// PublicError carries a message that may be shown to the client verbatim.
// Kind is one of the sentinels above and decides how the error is reported.
type PublicError struct {
	Kind    error
	Message string
}

func (e *PublicError) Error() string { return e.Message }
func (e *PublicError) Unwrap() error { return e.Kind }

func Public(kind error, msg string) error {
	return &PublicError{Kind: kind, Message: msg}
}
