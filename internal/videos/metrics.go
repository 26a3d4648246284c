package videos

import (
	"context"
	"fmt"
	"time"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

const (
	meterName = "github.com/vidinfo/backend/internal/videos"

	lookupsMetricName        = "vidinfo_lookups_total"
	lookupDurationMetricName = "vidinfo_lookup_duration_ms"

	outcomeSuccess = "success"
)

var attrOutcome = attribute.Key("outcome")

type lookupMetrics struct {
	lookups  metric.Int64Counter
	duration metric.Float64Histogram
}

func newLookupMetrics(provider metric.MeterProvider) (*lookupMetrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	if provider == nil {
		provider = noopmetric.NewMeterProvider()
	}
	meter := provider.Meter(meterName)

	lookups, err := meter.Int64Counter(lookupsMetricName,
		metric.WithDescription("Number of video lookups by outcome"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", lookupsMetricName, err)
	}
	duration, err := meter.Float64Histogram(lookupDurationMetricName,
		metric.WithDescription("Time spent resolving, fetching and normalizing a video"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", lookupDurationMetricName, err)
	}

	return &lookupMetrics{lookups: lookups, duration: duration}, nil
}

// record tags the lookup with its outcome: "success" or the failure reason.
func (m *lookupMetrics) record(ctx context.Context, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := outcomeSuccess
	if err != nil {
		outcome = kerrors.Reason(err)
	}
	attrs := metric.WithAttributes(attrOutcome.String(outcome))
	m.lookups.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}
