package auth

import (
	"context"
	"time"

	"github.com/semi-dlc/flowt-bb/internal/config"
)

// NewAuthenticator creates the appropriate Authenticator based on configuration.
// Dev mode uses the mock; otherwise the GoTrue service at AuthURL is required.
func NewAuthenticator(cfg *config.Config) Authenticator {
	if cfg.IsDevMode() {
		return NewMockAuthenticator()
	}
	if cfg.AuthURL == "" {
		return unconfigured{}
	}
	return NewGoTrueAuthenticator(cfg.AuthURL, cfg.AuthAPIKey, 10*time.Second)
}

// unconfigured rejects every token so writes fail closed.
type unconfigured struct{}

func (unconfigured) Authenticate(context.Context, string) (*User, error) {
	return nil, ErrNotConfigured
}
