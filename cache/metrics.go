package cache

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/goliatone/go-jobboard/cache"

// Stats is a point in time snapshot of cache counters.
type Stats struct {
	Hits          int64
	Misses        int64
	Errors        int64
	Invalidations int64
}

// metrics mirrors every counter into OpenTelemetry. Without a meter
// provider the instruments are no-ops and only the atomics count.
type metrics struct {
	hits          atomic.Int64
	misses        atomic.Int64
	errors        atomic.Int64
	invalidations atomic.Int64

	otelHits          metric.Int64Counter
	otelMisses        metric.Int64Counter
	otelErrors        metric.Int64Counter
	otelInvalidations metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter(meterName)
	m := &metrics{}

	m.otelHits, _ = meter.Int64Counter("cache.hits",
		metric.WithDescription("Number of cache hits"))
	m.otelMisses, _ = meter.Int64Counter("cache.misses",
		metric.WithDescription("Number of cache misses"))
	m.otelErrors, _ = meter.Int64Counter("cache.errors",
		metric.WithDescription("Number of cache backend errors"))
	m.otelInvalidations, _ = meter.Int64Counter("cache.invalidations",
		metric.WithDescription("Number of pattern deletions issued"))

	return m
}

func (m *metrics) recordHit(ctx context.Context) {
	m.hits.Add(1)
	if m.otelHits != nil {
		m.otelHits.Add(ctx, 1)
	}
}

func (m *metrics) recordMiss(ctx context.Context) {
	m.misses.Add(1)
	if m.otelMisses != nil {
		m.otelMisses.Add(ctx, 1)
	}
}

func (m *metrics) recordError(ctx context.Context) {
	m.errors.Add(1)
	if m.otelErrors != nil {
		m.otelErrors.Add(ctx, 1)
	}
}

func (m *metrics) recordInvalidation(ctx context.Context) {
	m.invalidations.Add(1)
	if m.otelInvalidations != nil {
		m.otelInvalidations.Add(ctx, 1)
	}
}

func (m *metrics) snapshot() Stats {
	return Stats{
		Hits:          m.hits.Load(),
		Misses:        m.misses.Load(),
		Errors:        m.errors.Load(),
		Invalidations: m.invalidations.Load(),
	}
}
