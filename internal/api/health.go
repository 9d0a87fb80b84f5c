package api

import (
	"net/http"
	"time"

	"github.com/semi-dlc/flowt-bb/internal/api/respond"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// BindServiceHealth allows run.go to inject the service health function.
var serviceIsHealthy = func() bool { return false }

func BindServiceHealth(f func() bool) { serviceIsHealthy = f }

// BindComponentHealth injects the per-dependency report shown next to the overall status.
var componentHealth = func() map[string]bool { return nil }

func BindComponentHealth(f func() map[string]bool) { componentHealth = f }

// CheckHealth handles GET /api/health
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if serviceIsHealthy() {
		status = "healthy"
	}
	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if comps := componentHealth(); len(comps) > 0 {
		response["components"] = comps
	}
	respond.WriteJSON(w, http.StatusOK, response)
}
