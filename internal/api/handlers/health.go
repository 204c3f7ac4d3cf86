package handlers

import (
	"net/http"

	"github.com/marmos91/dittodrive/pkg/drive/store"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

// Liveness handles GET /health. It answers as long as the process serves
// requests, regardless of dependency state.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready. Not ready until the database
// answers a ping.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}
	WriteJSONOK(w, map[string]string{"status": "ready"})
}
