package videos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"google.golang.org/api/googleapi"

	"github.com/vidinfo/backend/internal/logging"
)

const (
	// DefaultEndpoint is the base URL of the YouTube Data API v3.
	DefaultEndpoint = "https://www.googleapis.com/youtube/v3/"

	defaultTimeout       = 10 * time.Second
	defaultRetryInterval = 250 * time.Millisecond
	maxResponseBytes     = 4 << 20
	redactedKey          = "HIDDEN_KEY"
)

// DefaultParts are the videos.list facets requested for every lookup.
var DefaultParts = []string{"snippet", "contentDetails", "statistics", "status"}

// YouTubeClient fetches raw video metadata from the YouTube Data API.
type YouTubeClient struct {
	Endpoint      string
	Parts         []string
	Timeout       time.Duration
	MaxRetries    int
	RetryInterval time.Duration
	HTTPClient    *http.Client
}

// NewYouTubeClient constructs a client against endpoint. An empty endpoint selects
// DefaultEndpoint; a non-positive timeout selects ten seconds.
func NewYouTubeClient(endpoint string, timeout time.Duration, maxRetries int) (*YouTubeClient, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse youtube endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("youtube endpoint %q must be an absolute http(s) URL", endpoint)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &YouTubeClient{
		Endpoint:      u.String(),
		Parts:         append([]string(nil), DefaultParts...),
		Timeout:       timeout,
		MaxRetries:    maxRetries,
		RetryInterval: defaultRetryInterval,
		HTTPClient:    &http.Client{},
	}, nil
}

// Fetch retrieves the first videos.list item for id. Failures are returned as typed errors:
// ErrNotConfigured, ErrUpstreamTimeout, ErrVideoNotFound or an UPSTREAM_ERROR carrying the
// upstream status. Timeouts and 5xx responses are retried up to MaxRetries times.
func (c *YouTubeClient) Fetch(ctx context.Context, id VideoID, credential string) (RawMetadata, error) {
	if c == nil {
		return RawMetadata{}, ErrProviderUnavailable
	}
	if strings.TrimSpace(credential) == "" {
		return RawMetadata{}, ErrNotConfigured
	}

	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval()
	bounded := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(retries)), ctx)

	attempt := 0
	operation := func() (RawMetadata, error) {
		attempt++
		raw, err := c.fetchOnce(ctx, id, credential)
		if err != nil && !retryable(err) {
			return RawMetadata{}, backoff.Permanent(err)
		}
		return raw, err
	}
	notify := func(err error, wait time.Duration) {
		logging.FromContext(ctx).Warn("retrying youtube request",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("reason", kerrors.Reason(err)),
		)
	}

	return backoff.RetryNotifyWithData(operation, bounded, notify)
}

func (c *YouTubeClient) fetchOnce(ctx context.Context, id VideoID, credential string) (RawMetadata, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	reqURL, err := c.videosURL(id, credential)
	if err != nil {
		return RawMetadata{}, err
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return RawMetadata{}, fmt.Errorf("build youtube request: %w", redactKey(err, credential))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		err = redactKey(err, credential)
		if isTimeout(callCtx, err) {
			return RawMetadata{}, ErrUpstreamTimeout.WithCause(err)
		}
		return RawMetadata{}, fmt.Errorf("youtube request: %w", err)
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		return RawMetadata{}, upstreamFailure(err, resp.StatusCode)
	}

	var payload struct {
		Items []RawMetadata `json:"items"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		if isTimeout(callCtx, err) {
			return RawMetadata{}, ErrUpstreamTimeout.WithCause(err)
		}
		return RawMetadata{}, fmt.Errorf("decode youtube response: %w", err)
	}
	if len(payload.Items) == 0 {
		return RawMetadata{}, ErrVideoNotFound
	}

	return payload.Items[0], nil
}

func (c *YouTubeClient) videosURL(id VideoID, credential string) (string, error) {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse youtube endpoint: %w", err)
	}
	u, err = url.Parse(googleapi.ResolveRelative(u.String(), "videos"))
	if err != nil {
		return "", fmt.Errorf("resolve videos url: %w", err)
	}

	parts := c.Parts
	if len(parts) == 0 {
		parts = DefaultParts
	}
	q := url.Values{}
	q.Set("key", credential)
	q.Set("id", string(id))
	q.Set("part", strings.Join(parts, ","))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *YouTubeClient) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

func (c *YouTubeClient) retryInterval() time.Duration {
	if c.RetryInterval <= 0 {
		return defaultRetryInterval
	}
	return c.RetryInterval
}

func (c *YouTubeClient) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// retryable reports whether a failed attempt may be repeated: timeouts and upstream 5xx only.
func retryable(err error) bool {
	switch kerrors.Reason(err) {
	case ReasonUpstreamTimeout:
		return true
	case ReasonUpstream:
		status, _ := strconv.Atoi(Classify(err).Metadata["upstream_status"])
		return status >= http.StatusInternalServerError && status <= 599
	default:
		return false
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// redactKey strips the credential from transport errors, which embed the request URL.
func redactKey(err error, credential string) error {
	if err == nil || credential == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, url.QueryEscape(credential), redactedKey)
		uerr.URL = strings.ReplaceAll(uerr.URL, credential, redactedKey)
	}
	return err
}
