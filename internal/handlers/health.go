package handlers

import "net/http"

// HealthHandler responds with service health information.
type HealthHandler struct {
	APIKeyConfigured bool
}

// Handle implements GET /healthz.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		respondError(r.Context(), w, errMethodNotAllowed, false)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, map[string]any{
		"status":            "ok",
		"youtubeConfigured": h.APIKeyConfigured,
	})
}
