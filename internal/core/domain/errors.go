package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidRole     = errors.New("invalid role")
	ErrHashing         = errors.New("password hashing failed")

	// ErrInvalidCredentials is what every failed login looks like from outside.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Credential extraction failures. Both render as 401 "unauthorized".
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("access forbidden")
)

// Token verification failures. They are wrapped in ErrInvalidCredential before
// leaving the core and only surface in logs and metrics.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// ErrMissingSecret is returned when the token signing secret is absent.
var ErrMissingSecret = errors.New("token signing secret is not configured")
