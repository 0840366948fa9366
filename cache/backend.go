package cache

import (
	"context"
	"time"

	"github.com/goliatone/go-jobboard/internal/cacheinfra"
)

// ErrBackendUnavailable is wrapped by backend errors caused by an
// unreachable cache server. ReadThrough and Invalidator absorb it.
var ErrBackendUnavailable = cacheinfra.ErrUnavailable

// Backend is the external key value store holding cached payloads.
//
// Implementations must be safe for concurrent use. Get reports a miss with
// found == false and a nil error. DeleteMatching accepts either an exact key
// or a prefix followed by a single trailing '*'.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteMatching(ctx context.Context, pattern string) error
}

// ClosableBackend is a Backend owning network resources.
type ClosableBackend interface {
	Backend
	Close() error
}
