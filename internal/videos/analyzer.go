package videos

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/vidinfo/backend/internal/logging"
)

// Fetcher retrieves raw metadata for a resolved video.
type Fetcher interface {
	Fetch(ctx context.Context, id VideoID, credential string) (RawMetadata, error)
}

// Analyzer runs the lookup pipeline: resolve the URL, fetch upstream metadata and normalize it.
// It is the single error boundary of the pipeline and is safe for concurrent use.
type Analyzer struct {
	fetcher Fetcher
	metrics *lookupMetrics
}

// NewAnalyzer constructs an Analyzer. A nil provider records metrics on the global meter provider.
func NewAnalyzer(fetcher Fetcher, provider metric.MeterProvider) (*Analyzer, error) {
	metrics, err := newLookupMetrics(provider)
	if err != nil {
		return nil, err
	}
	return &Analyzer{fetcher: fetcher, metrics: metrics}, nil
}

// Analyze describes the video rawURL points at. A non-nil error is always a *errors.Error from
// github.com/go-kratos/kratos/v2/errors whose code is the HTTP status to report.
func (a *Analyzer) Analyze(ctx context.Context, rawURL, credential string) (info VideoInfo, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error("video analysis panicked", slog.Any("panic", r))
			info = VideoInfo{}
			err = ErrInternal.WithCause(fmt.Errorf("panic: %v", r))
		}
		if a != nil {
			a.metrics.record(ctx, err, time.Since(start))
		}
	}()

	info, err = a.analyze(ctx, rawURL, credential)
	if err != nil {
		return VideoInfo{}, Classify(err)
	}
	return info, nil
}

func (a *Analyzer) analyze(ctx context.Context, rawURL, credential string) (VideoInfo, error) {
	if rawURL == "" {
		return VideoInfo{}, ErrMissingURL
	}
	if !IsRecognizedURL(rawURL) {
		return VideoInfo{}, ErrInvalidURL
	}
	if credential == "" {
		return VideoInfo{}, ErrNotConfigured
	}
	if a == nil || a.fetcher == nil {
		return VideoInfo{}, ErrProviderUnavailable
	}

	_, resolveSpan := logging.StartSpan(ctx, "videos.resolve")
	match, ok := Resolve(rawURL)
	resolveSpan.End()
	if !ok {
		return VideoInfo{}, ErrInvalidURL
	}

	fetchCtx, fetchSpan := logging.StartSpan(ctx, "videos.fetch")
	raw, err := a.fetcher.Fetch(fetchCtx, match.ID, credential)
	fetchSpan.End()
	if err != nil {
		return VideoInfo{}, fmt.Errorf("fetch video %s: %w", match.ID, err)
	}

	return Normalize(raw), nil
}
