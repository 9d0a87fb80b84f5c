package auth

import (
	"fmt"
	"net/http"
	"strings"
)

// ExtractBearerToken extracts the token from the Authorization header.
// Returns ErrMissingToken when the header is absent and ErrInvalidToken when it is not "Bearer <token>".
func ExtractBearerToken(r *http.Request) (string, error) {
	return ParseBearer(r.Header.Get("Authorization"))
}

// ParseBearer parses an Authorization header value.
func ParseBearer(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("expected 'Bearer <token>': %w", ErrInvalidToken)
	}

	return parts[1], nil
}
