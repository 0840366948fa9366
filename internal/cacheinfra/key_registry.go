package cacheinfra

import (
	"context"
	"sync"
	"time"
)

// PointStore is a key value store without key enumeration.
type PointStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// KeyRegistry adds pattern deletion to a PointStore by remembering every
// key written through it. The registry lives in process memory: keys
// written by other processes are only removed by TTL expiry.
type KeyRegistry struct {
	store PointStore
	keys  *sync.Map // key -> expiry time.Time
	now   func() time.Time
}

// NewKeyRegistry wraps store.
func NewKeyRegistry(store PointStore) *KeyRegistry {
	return &KeyRegistry{
		store: store,
		keys:  &sync.Map{},
		now:   time.Now,
	}
}

func (r *KeyRegistry) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, found, err := r.store.Get(ctx, key)
	if err == nil && !found {
		r.keys.Delete(key)
	}
	return data, found, err
}

func (r *KeyRegistry) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.store.Put(ctx, key, value, ttl); err != nil {
		return err
	}
	r.trackKey(key, ttl)
	return nil
}

// DeleteMatching deletes every tracked key matching pattern. Keys that fail
// to delete stay tracked so that a later call can retry them.
func (r *KeyRegistry) DeleteMatching(ctx context.Context, pattern string) error {
	now := r.now()
	var firstErr error

	r.keys.Range(func(k, v any) bool {
		key := k.(string)
		if !MatchPattern(pattern, key) {
			return true
		}

		if exp, ok := v.(time.Time); ok && !exp.IsZero() && !now.Before(exp) {
			r.keys.Delete(key)
			return true
		}

		if err := r.store.Delete(ctx, key); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return true
		}
		r.keys.Delete(key)
		return true
	})

	return firstErr
}

// Tracked reports how many keys the registry currently knows about.
func (r *KeyRegistry) Tracked() int {
	n := 0
	r.keys.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (r *KeyRegistry) Close() error {
	return r.store.Close()
}

// trackKey registers a cache key for later pattern deletion.
func (r *KeyRegistry) trackKey(key string, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = r.now().Add(ttl)
	}
	r.keys.Store(key, exp)
}
