package auth

import "errors"

var (
	// ErrMissingToken is returned when the request carries no Authorization header
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned when the token is malformed or rejected by the identity service
	ErrInvalidToken = errors.New("invalid bearer token")

	// ErrNotConfigured is returned when no identity service URL is configured outside dev mode
	ErrNotConfigured = errors.New("authentication service not configured")
)
