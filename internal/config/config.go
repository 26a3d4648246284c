package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/blake2b"
)

// EnvDevelopment enables diagnostic detail in error responses.
const EnvDevelopment = "development"

// Config captures the runtime configuration for the vidinfo backend service.
type Config struct {
	AppPort         int
	Environment     string
	LogLevel        string
	YouTubeAPIKey   string
	YouTubeEndpoint string
	UpstreamTimeout time.Duration
	UpstreamRetries int
	CORSOrigin      string
	RateLimit       RateLimitConfig
	Metrics         MetricsConfig
}

// RateLimitConfig configures the per-client request limiter. Requests <= 0 disables it.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Burst    int
}

// Enabled reports whether rate limiting is switched on.
func (c RateLimitConfig) Enabled() bool {
	return c.Requests > 0
}

// MetricsConfig configures periodic export of lookup metrics to stdout.
type MetricsConfig struct {
	Stdout   bool
	Interval time.Duration
}

// Load reads .env.local and .env from the working directory, then builds the configuration from
// environment variables. Variables already present in the process environment take precedence
// over both files, and .env.local takes precedence over .env.
func Load() (Config, error) {
	if err := loadEnvFiles(".env.local", ".env"); err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppPort:         getInt("VIDINFO_PORT", 8080),
		Environment:     strings.ToLower(getString("VIDINFO_ENV", "production")),
		LogLevel:        getString("VIDINFO_LOG_LEVEL", "info"),
		YouTubeAPIKey:   strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY")),
		YouTubeEndpoint: getString("VIDINFO_YOUTUBE_ENDPOINT", "https://www.googleapis.com/youtube/v3/"),
		UpstreamTimeout: getDuration("VIDINFO_UPSTREAM_TIMEOUT", 10*time.Second),
		UpstreamRetries: getInt("VIDINFO_UPSTREAM_RETRIES", 0),
		CORSOrigin:      getString("VIDINFO_CORS_ORIGIN", "*"),
		RateLimit: RateLimitConfig{
			Requests: getInt("VIDINFO_RATE_LIMIT_REQUESTS", 0),
			Window:   getDuration("VIDINFO_RATE_LIMIT_WINDOW", time.Minute),
			Burst:    getInt("VIDINFO_RATE_LIMIT_BURST", 10),
		},
		Metrics: MetricsConfig{
			Stdout:   getBool("VIDINFO_METRICS_STDOUT", false),
			Interval: getDuration("VIDINFO_METRICS_INTERVAL", time.Minute),
		},
	}

	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return Config{}, fmt.Errorf("VIDINFO_PORT %d out of range", cfg.AppPort)
	}
	if cfg.UpstreamRetries < 0 {
		cfg.UpstreamRetries = 0
	}

	return cfg, nil
}

// Development reports whether the service runs in development mode.
func (c Config) Development() bool {
	return c.Environment == EnvDevelopment
}

// APIKeyFingerprint returns a short, non-reversible identifier of the configured API key so
// operators can tell keys apart in logs. It returns "" when no key is configured.
func (c Config) APIKeyFingerprint() string {
	if c.YouTubeAPIKey == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(c.YouTubeAPIKey))
	return hex.EncodeToString(sum[:4])
}

func loadEnvFiles(names ...string) error {
	var files []string
	for _, name := range names {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		files = append(files, name)
	}
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
