package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vidinfo/backend/internal/config"
	"github.com/vidinfo/backend/internal/handlers"
	"github.com/vidinfo/backend/internal/httpserver"
	"github.com/vidinfo/backend/internal/logging"
	"github.com/vidinfo/backend/internal/middleware"
	"github.com/vidinfo/backend/internal/videos"
)

// Run bootstraps the vidinfo backend application.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve or lookup <url>")
	}

	switch args[0] {
	case "serve":
		cfg, logger, err := setup(os.Stdout)
		if err != nil {
			return err
		}
		return serve(ctx, cfg, logger)
	case "lookup":
		cfg, _, err := setup(os.Stderr)
		if err != nil {
			return err
		}
		return runLookup(ctx, cfg, args[1:], os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func setup(logOutput io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.New(logOutput, level)
	slog.SetDefault(logger)

	return cfg, logger, nil
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	provider, shutdownTelemetry, err := setupTelemetry(cfg.Metrics, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warn("flush metrics", "error", err)
		}
	}()

	deps, err := buildDependencies(cfg, provider)
	if err != nil {
		return err
	}

	srv := httpserver.New(httpserver.Options{
		Port:         cfg.AppPort,
		WriteTimeout: writeTimeout(cfg),
	}, newHandler(cfg, deps, logger))

	if cfg.YouTubeAPIKey == "" {
		logger.Warn("YOUTUBE_API_KEY is not set; lookups will fail with NOT_CONFIGURED")
	}
	logger.Info("starting http server",
		"port", cfg.AppPort,
		"environment", cfg.Environment,
		"api_key_configured", cfg.YouTubeAPIKey != "",
		"api_key_fingerprint", cfg.APIKeyFingerprint(),
		"rate_limit_enabled", cfg.RateLimit.Enabled(),
		"upstream_retries", cfg.UpstreamRetries,
	)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newHandler assembles the middleware chain around the API routes.
func newHandler(cfg config.Config, deps handlers.Dependencies, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps)

	var handler http.Handler = mux
	handler = middleware.RateLimit(buildRateLimiter(cfg.RateLimit), cfg.RateLimit.Window)(handler)
	handler = middleware.CORS(cfg.CORSOrigin)(handler)
	return middleware.RequestLogger(logger)(handler)
}

// writeTimeout leaves room for every upstream attempt plus response encoding.
func writeTimeout(cfg config.Config) time.Duration {
	attempts := time.Duration(cfg.UpstreamRetries + 1)
	return cfg.UpstreamTimeout*attempts + 5*time.Second
}

// runLookup analyzes a single URL and prints the same JSON envelope the HTTP API returns.
func runLookup(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	pretty := fs.Bool("pretty", false, "indent the JSON output")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse lookup flags: %w", err)
	}
	if fs.NArg() != 1 {
		return errors.New("usage: lookup [-pretty] <url>")
	}

	analyzer, err := newAnalyzer(cfg, nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	if *pretty {
		enc.SetIndent("", "  ")
	}

	info, err := analyzer.Analyze(ctx, fs.Arg(0), cfg.YouTubeAPIKey)
	if err != nil {
		failure := videos.Classify(err)
		if encErr := enc.Encode(handlers.NewErrorResponse(failure, cfg.Development())); encErr != nil {
			return fmt.Errorf("write lookup result: %w", encErr)
		}
		return fmt.Errorf("lookup failed: %s (%d)", failure.Reason, failure.Code)
	}

	if err := enc.Encode(handlers.AnalyzeResponse{Success: true, VideoInfo: info}); err != nil {
		return fmt.Errorf("write lookup result: %w", err)
	}
	return nil
}
