package cacheinfra

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

const (
	memcacheMaxKeyLen = 250
	memcacheMaxTTL    = 30 * 24 * time.Hour
)

// MemcacheStore is a point lookup store on top of memcached. memcached
// cannot enumerate keys, so DeleteMatching is only available through
// NewKeyRegistry.
type MemcacheStore struct {
	client *memcache.Client
}

// NewMemcacheStore builds a client for cfg.Servers. Connections are lazy.
func NewMemcacheStore(cfg MemcacheConfig) (*MemcacheStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := memcache.New(cfg.Servers...)
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}

	return &MemcacheStore{client: client}, nil
}

func (m *MemcacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	item, err := m.client.Get(memcacheKey(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("memcache get", err)
	}
	return item.Value, true, nil
}

func (m *MemcacheStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := m.client.Set(&memcache.Item{
		Key:        memcacheKey(key),
		Value:      value,
		Expiration: memcacheExpiration(ttl),
	})
	if err != nil {
		return unavailable("memcache set", err)
	}
	return nil
}

func (m *MemcacheStore) Delete(ctx context.Context, key string) error {
	err := m.client.Delete(memcacheKey(key))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return unavailable("memcache delete", err)
	}
	return nil
}

// Close is a no-op; the client keeps an idle pool only.
func (m *MemcacheStore) Close() error {
	return nil
}

// memcacheKey maps keys that exceed the protocol limit to a digest.
func memcacheKey(key string) string {
	if len(key) <= memcacheMaxKeyLen {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// memcacheExpiration converts ttl to memcached's relative seconds. Values
// above 30 days would be read as a unix timestamp, so they are capped.
func memcacheExpiration(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl > memcacheMaxTTL {
		ttl = memcacheMaxTTL
	}
	secs := int32(ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
