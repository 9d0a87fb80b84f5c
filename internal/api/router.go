package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/semi-dlc/flowt-bb/internal/api/recovery"
	"github.com/semi-dlc/flowt-bb/internal/auth"
	"github.com/semi-dlc/flowt-bb/internal/metrics"
	"github.com/semi-dlc/flowt-bb/internal/services"
)

// Deps are the components the HTTP surface is built from.
type Deps struct {
	Agent           Chatter
	Listings        *services.ListingService
	Capabilities    *services.CapabilityService
	Authenticator   auth.Authenticator
	CORSAllowOrigin string
	Log             zerolog.Logger
}

// NewRouter wires HTTP routes to handlers.
func NewRouter(d Deps) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)
	root.Use(metrics.Middleware)
	root.Use(CORS(d.CORSAllowOrigin))

	// Chat
	chat := NewChatHandler(d.Agent, d.Log)
	root.HandleFunc("/freight-ai-agent", chat.Chat).Methods(http.MethodPost, http.MethodOptions)

	// Listings
	listings := NewListingHandler(d.Listings, d.Authenticator, d.Log)
	root.HandleFunc("/api/offers", listings.CreateOffer).Methods(http.MethodPost, http.MethodOptions)
	root.HandleFunc("/api/offers", listings.ListOffers).Methods(http.MethodGet)
	root.HandleFunc("/api/offers/{offerId}", listings.GetOffer).Methods(http.MethodGet, http.MethodOptions)
	root.HandleFunc("/api/requests", listings.CreateRequest).Methods(http.MethodPost, http.MethodOptions)
	root.HandleFunc("/api/requests", listings.ListRequests).Methods(http.MethodGet)
	root.HandleFunc("/api/requests/{requestId}", listings.GetRequest).Methods(http.MethodGet, http.MethodOptions)

	// Capabilities
	caps := NewCapabilityHandler(d.Capabilities, d.Authenticator, d.Log)
	root.HandleFunc("/api/me/capabilities", caps.Me).Methods(http.MethodGet, http.MethodOptions)

	// Health & metrics
	healthHandler := NewHealthHandler()
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods(http.MethodGet)
	root.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	return root
}
