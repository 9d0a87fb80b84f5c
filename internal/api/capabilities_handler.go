package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/semi-dlc/flowt-bb/internal/api/respond"
	"github.com/semi-dlc/flowt-bb/internal/auth"
	"github.com/semi-dlc/flowt-bb/internal/services"
)

type CapabilityHandler struct {
	svc   *services.CapabilityService
	authn auth.Authenticator
	log   zerolog.Logger
}

func NewCapabilityHandler(svc *services.CapabilityService, authn auth.Authenticator, log zerolog.Logger) *CapabilityHandler {
	return &CapabilityHandler{svc: svc, authn: authn, log: log}
}

// Me GET /api/me/capabilities
func (h *CapabilityHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticate(w, r, h.authn, h.log)
	if !ok {
		return
	}
	dev, err := h.svc.IsDeveloper(r.Context(), user.ID)
	if err != nil {
		h.log.Error().Stack().Err(err).Str("user_id", user.ID).Msg("role lookup failed")
		respond.WriteInternalError(w, "Failed to load capabilities")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"userId": user.ID, "isDeveloper": dev})
}
