package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/semi-dlc/flowt-bb/internal/agent"
	"github.com/semi-dlc/flowt-bb/internal/api/respond"
	"github.com/semi-dlc/flowt-bb/internal/api/validate"
	"github.com/semi-dlc/flowt-bb/internal/auth"
	"github.com/semi-dlc/flowt-bb/internal/model"
	"github.com/semi-dlc/flowt-bb/internal/services"
	"github.com/semi-dlc/flowt-bb/internal/store"
	"github.com/semi-dlc/flowt-bb/internal/tools"
)

// Feed limits for GET /api/offers and /api/requests.
const (
	DefaultFeedLimit = 50
	MaxFeedLimit     = 200
)

type ListingHandler struct {
	svc   *services.ListingService
	authn auth.Authenticator
	log   zerolog.Logger
}

func NewListingHandler(svc *services.ListingService, authn auth.Authenticator, log zerolog.Logger) *ListingHandler {
	return &ListingHandler{svc: svc, authn: authn, log: log}
}

// CreateOffer POST /api/offers
func (h *ListingHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticate(w, r, h.authn, h.log)
	if !ok {
		return
	}
	var in tools.OfferArgs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateOffer(in); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.CreateOffer(r.Context(), user.ID, services.SourceForm, in)
	if err != nil {
		h.log.Error().Stack().Err(err).Str("user_id", user.ID).Msg("create offer failed")
		respond.WriteInternalError(w, agent.MsgOfferFailed)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// CreateRequest POST /api/requests
func (h *ListingHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticate(w, r, h.authn, h.log)
	if !ok {
		return
	}
	var in tools.RequestArgs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateRequest(in); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.CreateRequest(r.Context(), user.ID, services.SourceForm, in)
	if err != nil {
		h.log.Error().Stack().Err(err).Str("user_id", user.ID).Msg("create request failed")
		respond.WriteInternalError(w, agent.MsgRequestFailed)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListOffers GET /api/offers
func (h *ListingHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	limit, err := feedLimit(r)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.ListOffers(r.Context(), limit)
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("list offers failed")
		respond.WriteInternalError(w, "Failed to load offers")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"offers": out, "count": len(out)})
}

// ListRequests GET /api/requests
func (h *ListingHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	limit, err := feedLimit(r)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.ListRequests(r.Context(), limit)
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("list requests failed")
		respond.WriteInternalError(w, "Failed to load requests")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"requests": out, "count": len(out)})
}

// GetOffer GET /api/offers/{offerId}
func (h *ListingHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetOffer(r.Context(), mux.Vars(r)["offerId"])
	if err != nil {
		h.writeLookupError(w, err, "offer")
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// GetRequest GET /api/requests/{requestId}
func (h *ListingHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetRequest(r.Context(), mux.Vars(r)["requestId"])
	if err != nil {
		h.writeLookupError(w, err, "request")
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *ListingHandler) writeLookupError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, model.ErrNotFound) {
		respond.WriteNotFound(w, what+" not found")
		return
	}
	h.log.Error().Stack().Err(err).Str("listing", what).Msg("lookup failed")
	respond.WriteInternalError(w, "Failed to load "+what)
}

func feedLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultFeedLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return store.Limit(model.ListOptions{Limit: n}, DefaultFeedLimit, MaxFeedLimit), nil
}
