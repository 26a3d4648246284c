package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{APIKeyConfigured: deps.APIKey != ""}
	analyze := AnalyzeHandler{Analyzer: deps.Analyzer, APIKey: deps.APIKey, Development: deps.Development}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/analyze", analyze.Analyze)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Analyzer    VideoAnalyzer
	APIKey      string
	Development bool
}
