package app

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/vidinfo/backend/internal/config"
	"github.com/vidinfo/backend/internal/handlers"
	"github.com/vidinfo/backend/internal/middleware"
	"github.com/vidinfo/backend/internal/videos"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(cfg config.Config, provider metric.MeterProvider) (handlers.Dependencies, error) {
	analyzer, err := newAnalyzer(cfg, provider)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	return handlers.Dependencies{
		Analyzer:    analyzer,
		APIKey:      cfg.YouTubeAPIKey,
		Development: cfg.Development(),
	}, nil
}

func newAnalyzer(cfg config.Config, provider metric.MeterProvider) (*videos.Analyzer, error) {
	client, err := videos.NewYouTubeClient(cfg.YouTubeEndpoint, cfg.UpstreamTimeout, cfg.UpstreamRetries)
	if err != nil {
		return nil, fmt.Errorf("configure youtube client: %w", err)
	}
	return videos.NewAnalyzer(client, provider)
}

// buildRateLimiter returns nil when rate limiting is disabled.
func buildRateLimiter(cfg config.RateLimitConfig) middleware.RateLimiter {
	if !cfg.Enabled() {
		return nil
	}
	return middleware.NewIPRateLimiter(cfg.Requests, cfg.Window, cfg.Burst, 2*cfg.Window)
}
