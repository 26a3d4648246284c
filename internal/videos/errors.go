package videos

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"google.golang.org/api/googleapi"
)

// Failure reasons reported to callers. Each reason maps to exactly one HTTP status.
const (
	ReasonMissingURL      = "MISSING_URL"
	ReasonInvalidURL      = "INVALID_URL"
	ReasonNotConfigured   = "NOT_CONFIGURED"
	ReasonUpstream        = "UPSTREAM_ERROR"
	ReasonUpstreamTimeout = "UPSTREAM_TIMEOUT"
	ReasonNotFound        = "VIDEO_NOT_FOUND"
	ReasonInternal        = "INTERNAL_ERROR"
)

var (
	// ErrMissingURL indicates the request did not carry a URL at all.
	ErrMissingURL = kerrors.BadRequest(ReasonMissingURL, "Please provide a valid video URL")
	// ErrInvalidURL indicates the URL is not a recognized YouTube link or carries no video id.
	ErrInvalidURL = kerrors.BadRequest(ReasonInvalidURL, "Invalid YouTube video link")
	// ErrNotConfigured indicates the YouTube API key is missing from the deployment.
	ErrNotConfigured = kerrors.InternalServer(ReasonNotConfigured, "YouTube API key is not configured")
	// ErrUpstreamTimeout indicates the YouTube API did not answer before the deadline.
	ErrUpstreamTimeout = kerrors.GatewayTimeout(ReasonUpstreamTimeout, "Upstream request timed out")
	// ErrVideoNotFound indicates the YouTube API answered successfully with no items.
	ErrVideoNotFound = kerrors.NotFound(ReasonNotFound, "Video not found")
	// ErrInternal is the fallback for every failure that has no dedicated reason.
	ErrInternal = kerrors.InternalServer(ReasonInternal, "Internal server error")

	// ErrProviderUnavailable indicates the metadata provider is not configured.
	ErrProviderUnavailable = errors.New("video metadata provider unavailable")
)

// Classify converts any error produced while analyzing a URL into a typed failure.
// Errors without a dedicated reason become ErrInternal with the original error as cause.
func Classify(err error) *kerrors.Error {
	if err == nil {
		return nil
	}
	var kerr *kerrors.Error
	if errors.As(err, &kerr) {
		return kerr
	}
	return ErrInternal.WithCause(err)
}

// upstreamFailure builds an UPSTREAM_ERROR from a non-2xx YouTube API response. The upstream
// status is passed through when it is an HTTP error status and is always kept in metadata.
func upstreamFailure(err error, status int) *kerrors.Error {
	var message string
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		message = strings.TrimSpace(gerr.Message)
		if gerr.Code != 0 {
			status = gerr.Code
		}
	}
	if message == "" {
		message = fmt.Sprintf("YouTube API request failed: %d", status)
	}

	code := status
	if code < http.StatusBadRequest || code > 599 {
		code = http.StatusInternalServerError
	}

	return kerrors.New(code, ReasonUpstream, message).
		WithCause(err).
		WithMetadata(map[string]string{"upstream_status": strconv.Itoa(status)})
}
