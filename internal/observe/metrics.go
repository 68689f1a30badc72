// Package observe provides application-wide observability primitives for
// PlotWeaver: OpenTelemetry metrics, distributed tracing, structured
// logging, and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all PlotWeaver metrics.
const meterName = "github.com/TETEnot/plotweaver"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// GenerationDuration tracks text-generation latency per request.
	GenerationDuration metric.Float64Histogram

	// GenerationRequests counts generation calls. Use with attributes:
	//   Attr("provider", ...), Attr("mode", ...), Attr("status", ...)
	GenerationRequests metric.Int64Counter

	// GenerationErrors counts failed generation calls. Use with attributes:
	//   Attr("provider", ...), Attr("mode", ...)
	GenerationErrors metric.Int64Counter

	// GeneratedTokens counts tokens reported by the backend, when known.
	GeneratedTokens metric.Int64Counter

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   Attr("method", ...), Attr("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Text
// generation is slow compared to ordinary request handling, so the upper
// buckets stretch well past a minute.
var latencyBuckets = []float64{
	0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.GenerationDuration, err = m.Float64Histogram("plotweaver.generation.duration",
		metric.WithDescription("Latency of text generation requests."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.GenerationRequests, err = m.Int64Counter("plotweaver.generation.requests",
		metric.WithDescription("Total generation requests by provider, mode, and status."),
	); err != nil {
		return nil, err
	}
	if met.GenerationErrors, err = m.Int64Counter("plotweaver.generation.errors",
		metric.WithDescription("Total generation errors by provider and mode."),
	); err != nil {
		return nil, err
	}
	if met.GeneratedTokens, err = m.Int64Counter("plotweaver.generation.tokens",
		metric.WithDescription("Total tokens produced, as reported by the backend."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("plotweaver.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// StoreSizes reports the current number of persisted entities per kind. It
// is sampled by the gauge callback registered in [RegisterStoreGauges].
type StoreSizes struct {
	Settings   int
	Events     int
	Threads    int
	Stories    int
	Characters int
}

// RegisterStoreGauges registers an observable gauge that reports the stored
// entity counts via the sample function on every metrics collection.
func RegisterStoreGauges(mp metric.MeterProvider, sample func() StoreSizes) error {
	m := mp.Meter(meterName)

	gauge, err := m.Int64ObservableGauge("plotweaver.store.entities",
		metric.WithDescription("Number of stored entities by kind."),
	)
	if err != nil {
		return err
	}

	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sample()
		o.ObserveInt64(gauge, int64(s.Settings), metric.WithAttributes(Attr("kind", "setting")))
		o.ObserveInt64(gauge, int64(s.Events), metric.WithAttributes(Attr("kind", "event")))
		o.ObserveInt64(gauge, int64(s.Threads), metric.WithAttributes(Attr("kind", "plot_thread")))
		o.ObserveInt64(gauge, int64(s.Stories), metric.WithAttributes(Attr("kind", "story")))
		o.ObserveInt64(gauge, int64(s.Characters), metric.WithAttributes(Attr("kind", "character")))
		return nil
	}, gauge)
	return err
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordGeneration records one finished generation call: latency, the
// request counter, and the error counter when status is not "ok".
func (m *Metrics) RecordGeneration(ctx context.Context, provider, mode, status string, seconds float64) {
	attrs := metric.WithAttributes(
		Attr("provider", provider),
		Attr("mode", mode),
		Attr("status", status),
	)
	m.GenerationDuration.Record(ctx, seconds, attrs)
	m.GenerationRequests.Add(ctx, 1, attrs)
	if status != "ok" {
		m.GenerationErrors.Add(ctx, 1, metric.WithAttributes(
			Attr("provider", provider),
			Attr("mode", mode),
		))
	}
}

// RecordTokens records backend-reported token usage.
func (m *Metrics) RecordTokens(ctx context.Context, provider string, tokens int) {
	if tokens <= 0 {
		return
	}
	m.GeneratedTokens.Add(ctx, int64(tokens),
		metric.WithAttributes(Attr("provider", provider)),
	)
}
