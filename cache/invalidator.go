package cache

import (
	"context"

	"go.uber.org/zap"
)

// Invalidator removes cached payloads after writes. It must run after the
// write is committed. Failures are logged and absorbed: the write has
// already succeeded and stale entries expire with their TTL.
type Invalidator struct {
	backend Backend
	logger  *zap.Logger
	metrics *metrics
}

// NewInvalidator builds an Invalidator on backend. A nil logger disables logging.
func NewInvalidator(backend Backend, logger *zap.Logger) *Invalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invalidator{
		backend: backend,
		logger:  logger.Named("cache"),
		metrics: newMetrics(),
	}
}

// InvalidateIndex deletes every list key of ns.
func (i *Invalidator) InvalidateIndex(ctx context.Context, ns Namespace) {
	i.deleteMatching(ctx, IndexPattern(ns))
}

// InvalidateShow deletes every key of entity id in ns.
func (i *Invalidator) InvalidateShow(ctx context.Context, ns Namespace, id string) {
	i.deleteMatching(ctx, ShowPattern(ns, id))
}

// Invalidate runs after a write to entity id. Creates pass skipShow since a
// new entity has no show entry yet.
func (i *Invalidator) Invalidate(ctx context.Context, ns Namespace, id string, skipShow bool) {
	i.InvalidateIndex(ctx, ns)
	if !skipShow {
		i.InvalidateShow(ctx, ns, id)
	}
}

// Stats returns the counters recorded so far.
func (i *Invalidator) Stats() Stats {
	return i.metrics.snapshot()
}

func (i *Invalidator) deleteMatching(ctx context.Context, pattern string) {
	i.logger.Info("deleting cache keys", zap.String("pattern", pattern))

	// The write is committed; a cancelled request must not skip the delete.
	ctx = context.WithoutCancel(ctx)

	if err := i.backend.DeleteMatching(ctx, pattern); err != nil {
		i.metrics.recordError(ctx)
		i.logger.Error("cache invalidation failed",
			zap.String("pattern", pattern), zap.Error(err))
		return
	}
	i.metrics.recordInvalidation(ctx)
}
