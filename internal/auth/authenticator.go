package auth

import (
	"context"
)

// User is the identity behind a bearer token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	// Authenticate returns ErrInvalidToken when the token is rejected.
	// Any other error means the identity service could not be asked.
	Authenticate(ctx context.Context, token string) (*User, error)
}
