package videos

import (
	"context"
	"errors"
	"net/http"
	"testing"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type stubFetcher struct {
	raw        RawMetadata
	err        error
	panicValue any
	calls      int
	ids        []VideoID
}

func (s *stubFetcher) Fetch(_ context.Context, id VideoID, _ string) (RawMetadata, error) {
	s.calls++
	s.ids = append(s.ids, id)
	if s.panicValue != nil {
		panic(s.panicValue)
	}
	if s.err != nil {
		return RawMetadata{}, s.err
	}
	return s.raw, nil
}

func newTestAnalyzer(t *testing.T, fetcher Fetcher) (*Analyzer, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	analyzer, err := NewAnalyzer(fetcher, provider)
	require.NoError(t, err)
	return analyzer, reader
}

func TestAnalyzerSuccess(t *testing.T) {
	fetcher := &stubFetcher{raw: RawMetadata{ID: "dQw4w9WgXcQ", Snippet: &RawSnippet{Title: "Song"}}}
	analyzer, _ := newTestAnalyzer(t, fetcher)

	info, err := analyzer.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ", testKey)
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", info.ID)
	assert.Equal(t, "Song", info.Title)
	assert.Equal(t, []VideoID{"dQw4w9WgXcQ"}, fetcher.ids)
}

func TestAnalyzerFailures(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		credential string
		fetcher    *stubFetcher
		status     int
		reason     string
		fetches    int
	}{
		{name: "missing url", url: "", credential: testKey, fetcher: &stubFetcher{}, status: http.StatusBadRequest, reason: ReasonMissingURL},
		{name: "unrecognized host", url: "https://vimeo.com/123", credential: testKey, fetcher: &stubFetcher{}, status: http.StatusBadRequest, reason: ReasonInvalidURL},
		{name: "no id", url: "https://www.youtube.com/channel/UC1", credential: testKey, fetcher: &stubFetcher{}, status: http.StatusBadRequest, reason: ReasonInvalidURL},
		{name: "no credential", url: "https://youtu.be/abc", credential: "", fetcher: &stubFetcher{}, status: http.StatusInternalServerError, reason: ReasonNotConfigured},
		{name: "not found", url: "https://youtu.be/abc", credential: testKey, fetcher: &stubFetcher{err: ErrVideoNotFound}, status: http.StatusNotFound, reason: ReasonNotFound, fetches: 1},
		{name: "timeout", url: "https://youtu.be/abc", credential: testKey, fetcher: &stubFetcher{err: ErrUpstreamTimeout}, status: http.StatusGatewayTimeout, reason: ReasonUpstreamTimeout, fetches: 1},
		{name: "upstream", url: "https://youtu.be/abc", credential: testKey, fetcher: &stubFetcher{err: upstreamFailure(nil, http.StatusForbidden)}, status: http.StatusForbidden, reason: ReasonUpstream, fetches: 1},
		{name: "unclassified", url: "https://youtu.be/abc", credential: testKey, fetcher: &stubFetcher{err: errors.New("decode failure")}, status: http.StatusInternalServerError, reason: ReasonInternal, fetches: 1},
		{name: "panic", url: "https://youtu.be/abc", credential: testKey, fetcher: &stubFetcher{panicValue: "nil map"}, status: http.StatusInternalServerError, reason: ReasonInternal, fetches: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			analyzer, _ := newTestAnalyzer(t, tc.fetcher)

			info, err := analyzer.Analyze(context.Background(), tc.url, tc.credential)
			require.Error(t, err)
			assert.Equal(t, VideoInfo{}, info)

			var kerr *kerrors.Error
			require.True(t, errors.As(err, &kerr))
			assert.Equal(t, int32(tc.status), kerr.Code)
			assert.Equal(t, tc.reason, kerr.Reason)
			assert.Equal(t, tc.fetches, tc.fetcher.calls)
		})
	}
}

func TestAnalyzerWithoutFetcher(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil)

	_, err := analyzer.Analyze(context.Background(), "https://youtu.be/abc", testKey)
	assert.Equal(t, ReasonInternal, kerrors.Reason(err))
}

func TestAnalyzerRecordsMetrics(t *testing.T) {
	fetcher := &stubFetcher{raw: RawMetadata{ID: "abc"}}
	analyzer, reader := newTestAnalyzer(t, fetcher)
	ctx := context.Background()

	_, err := analyzer.Analyze(ctx, "https://youtu.be/abc", testKey)
	require.NoError(t, err)
	_, err = analyzer.Analyze(ctx, "https://vimeo.com/1", testKey)
	require.Error(t, err)
	_, err = analyzer.Analyze(ctx, "https://vimeo.com/2", testKey)
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counts := map[string]int64{}
	var histogramSeen bool
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch m.Name {
			case lookupsMetricName:
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				for _, dp := range sum.DataPoints {
					outcome, _ := dp.Attributes.Value(attrOutcome)
					counts[outcome.AsString()] += dp.Value
				}
			case lookupDurationMetricName:
				_, ok := m.Data.(metricdata.Histogram[float64])
				require.True(t, ok)
				histogramSeen = true
			}
		}
	}

	assert.Equal(t, map[string]int64{outcomeSuccess: 1, ReasonInvalidURL: 2}, counts)
	assert.True(t, histogramSeen)
}
