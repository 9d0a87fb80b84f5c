package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/semi-dlc/flowt-bb/internal/api/respond"
	"github.com/semi-dlc/flowt-bb/internal/auth"
)

// authenticate resolves the bearer token of r, writing the error reply itself on failure.
func authenticate(w http.ResponseWriter, r *http.Request, authn auth.Authenticator, log zerolog.Logger) (*auth.User, bool) {
	token, err := auth.ExtractBearerToken(r)
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) {
			respond.WriteUnauthorized(w, "Authentication required")
		} else {
			respond.WriteUnauthorized(w, "Invalid authentication token")
		}
		return nil, false
	}

	user, err := authn.Authenticate(r.Context(), token)
	switch {
	case err == nil:
		return user, true
	case errors.Is(err, auth.ErrInvalidToken):
		respond.WriteUnauthorized(w, "Invalid authentication token")
	case errors.Is(err, auth.ErrNotConfigured):
		log.Error().Err(err).Msg("authentication service not configured")
		respond.WriteError(w, http.StatusServiceUnavailable, "Authentication is unavailable")
	default:
		log.Error().Stack().Err(err).Msg("token verification failed")
		respond.WriteError(w, http.StatusServiceUnavailable, "Authentication is unavailable")
	}
	return nil, false
}
