package auth

import (
	"context"
)

const (
	// LocalDevToken is the hardcoded bearer token for local development only
	LocalDevToken = "sk_local_freight_dev_token"

	// LocalDevUserID is the user the dev token resolves to
	LocalDevUserID = "00000000-0000-4000-8000-000000000001"
)

// MockAuthenticator recognizes only LocalDevToken and resolves it to the local dev user.
type MockAuthenticator struct{}

// NewMockAuthenticator creates a new MockAuthenticator for local development
func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{}
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*User, error) {
	if token != LocalDevToken {
		return nil, ErrInvalidToken
	}
	return &User{ID: LocalDevUserID, Email: "dev@localhost"}, nil
}
