package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is how long computed payloads stay in the backend.
const DefaultTTL = time.Hour

// ComputeFn produces the payload for a key on a cache miss. It must be
// deterministic for a given key at a given point in time.
type ComputeFn func(ctx context.Context) ([]byte, error)

// ReadThrough serves payloads from a Backend and populates it on misses.
// Backend failures never reach the caller: the payload is computed and
// returned without being stored.
//
// Concurrent misses for the same key are not coalesced; each caller computes
// and the last write wins. A read racing a write may store a pre-write
// payload after invalidation has run. Such entries live at most one TTL, and
// the freshness fingerprint in the key usually routes readers around them.
type ReadThrough struct {
	backend    Backend
	defaultTTL time.Duration
	logger     *zap.Logger
	metrics    *metrics
}

// NewReadThrough builds a ReadThrough on backend. A nil logger disables logging.
func NewReadThrough(backend Backend, defaultTTL time.Duration, logger *zap.Logger) *ReadThrough {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &ReadThrough{
		backend:    backend,
		defaultTTL: defaultTTL,
		logger:     logger.Named("cache"),
		metrics:    newMetrics(),
	}
}

// FetchOrCompute returns the payload stored under key, or computes, stores
// and returns it. A zero ttl uses the default TTL. Errors from compute are
// returned as is and nothing is stored. If ctx is done once compute returns,
// the store is skipped.
func (c *ReadThrough) FetchOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFn) ([]byte, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	data, found, err := c.backend.Get(ctx, key)
	if err != nil {
		c.metrics.recordError(ctx)
		c.logger.Warn("cache backend unavailable, computing uncached",
			zap.String("key", key), zap.Error(err))
		return compute(ctx)
	}

	if found {
		c.metrics.recordHit(ctx)
		c.logger.Debug("cache hit", zap.String("key", key))
		return data, nil
	}

	c.metrics.recordMiss(ctx)
	c.logger.Debug("cache miss", zap.String("key", key))

	data, err = compute(ctx)
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		c.logger.Debug("context done, skipping cache store", zap.String("key", key))
		return data, nil
	}

	if err := c.backend.Put(ctx, key, data, ttl); err != nil {
		c.metrics.recordError(ctx)
		c.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}

	return data, nil
}

// Stats returns the counters recorded so far.
func (c *ReadThrough) Stats() Stats {
	return c.metrics.snapshot()
}
