package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	kerrors "github.com/go-kratos/kratos/v2/errors"

	"github.com/vidinfo/backend/internal/logging"
	"github.com/vidinfo/backend/internal/videos"
)

const maxRequestBodyBytes = 1 << 20

var errMethodNotAllowed = kerrors.New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")

// AnalyzeHandler serves video lookups.
type AnalyzeHandler struct {
	Analyzer    VideoAnalyzer
	APIKey      string
	Development bool
}

type analyzeRequest struct {
	URL any `json:"url"`
}

// AnalyzeResponse is the success envelope of a lookup.
type AnalyzeResponse struct {
	Success   bool             `json:"success"`
	VideoInfo videos.VideoInfo `json:"videoInfo"`
}

// Analyze implements POST /api/analyze.
func (h AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		respondError(ctx, w, errMethodNotAllowed, false)
		return
	}
	if h.Analyzer == nil {
		respondError(ctx, w, videos.Classify(videos.ErrProviderUnavailable), h.Development)
		return
	}

	var req analyzeRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		logging.FromContext(ctx).Debug("ignoring unreadable request body", slog.Any("error", err))
	}
	rawURL, _ := req.URL.(string)

	info, err := h.Analyzer.Analyze(ctx, rawURL, h.APIKey)
	if err != nil {
		respondError(ctx, w, videos.Classify(err), h.Development)
		return
	}

	respondJSON(ctx, w, http.StatusOK, AnalyzeResponse{Success: true, VideoInfo: info})
}
