package handlers

import (
	"context"

	"github.com/vidinfo/backend/internal/videos"
)

// VideoAnalyzer turns a user-supplied URL into a video description. Errors are typed failures
// from the videos package.
type VideoAnalyzer interface {
	Analyze(ctx context.Context, rawURL, credential string) (videos.VideoInfo, error)
}
