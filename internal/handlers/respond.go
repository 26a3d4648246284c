package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	kerrors "github.com/go-kratos/kratos/v2/errors"

	"github.com/vidinfo/backend/internal/logging"
)

// ErrorResponse is the failure envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// NewErrorResponse builds the envelope for a typed failure. The cause is exposed as details only
// when development is set.
func NewErrorResponse(err *kerrors.Error, development bool) ErrorResponse {
	payload := ErrorResponse{
		Success: false,
		Error:   err.Message,
		Code:    err.Reason,
	}
	if development {
		if cause := err.Unwrap(); cause != nil {
			payload.Details = cause.Error()
		}
	}
	return payload
}

func respondError(ctx context.Context, w http.ResponseWriter, err *kerrors.Error, development bool) {
	respondJSON(ctx, w, int(err.Code), NewErrorResponse(err, development))
}
