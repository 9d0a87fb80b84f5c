package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// GoTrueAuthenticator validates tokens against a GoTrue-compatible
// identity service (GET /auth/v1/user).
type GoTrueAuthenticator struct {
	client *resty.Client
}

// NewGoTrueAuthenticator creates an authenticator for the service at baseURL.
// apiKey is sent as the apikey header when non-empty.
func NewGoTrueAuthenticator(baseURL, apiKey string, timeout time.Duration) *GoTrueAuthenticator {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	if apiKey != "" {
		c.SetHeader("apikey", apiKey)
	}
	return &GoTrueAuthenticator{client: c}
}

func (g *GoTrueAuthenticator) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get("/auth/v1/user")
	if err != nil {
		return nil, fmt.Errorf("auth service request: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return nil, ErrInvalidToken
	default:
		return nil, fmt.Errorf("auth service returned %d", resp.StatusCode())
	}

	var u User
	if err := json.Unmarshal(resp.Body(), &u); err != nil {
		return nil, fmt.Errorf("decode auth user: %w", err)
	}
	if u.ID == "" {
		return nil, ErrInvalidToken
	}
	return &u, nil
}

// HealthPing implements health.HealthPinger against the service's health endpoint.
func (g *GoTrueAuthenticator) HealthPing(ctx context.Context) error {
	resp, err := g.client.R().SetContext(ctx).Get("/auth/v1/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("auth health returned %d", resp.StatusCode())
	}
	return nil
}
