package rest

import "net/http"

// handleLiveness always answers 200: the process being up is the only
// condition. Artifact availability is a readiness concern.
func (h *Handler) handleLiveness(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "alive", Model: h.scorer.Ready()})
}

// handleReadiness answers 200 when artifacts are loaded and 503 when the
// service is degraded. A degraded service still starts and answers here.
func (h *Handler) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if !h.scorer.Ready() {
		h.writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Model: false})
		return
	}
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "ready", Model: true})
}
