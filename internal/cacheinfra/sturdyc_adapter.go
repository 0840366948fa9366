package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// ToSturdycOptions converts the MemoryConfig to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
func (c MemoryConfig) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// memoryEntry keeps the caller's TTL next to the payload, since the
// sturdyc client only knows a single TTL for all entries.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryBackend stores payloads in a sturdyc client.
type MemoryBackend struct {
	client *sturdyc.Client[memoryEntry]
	maxTTL time.Duration
	now    func() time.Time
}

// NewMemoryBackend validates cfg and builds a sturdyc client from it.
func NewMemoryBackend(cfg MemoryConfig) (*MemoryBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[memoryEntry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &MemoryBackend{
		client: client,
		maxTTL: cfg.TTL,
		now:    time.Now,
	}, nil
}

// Get returns the payload stored under key. Entries past their own TTL
// are dropped and reported as a miss.
func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, ok := m.client.Get(key)
	if !ok {
		return nil, false, nil
	}

	if !m.now().Before(entry.expiresAt) {
		m.client.Delete(key)
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Put stores value under key. TTLs above the client TTL are capped by
// sturdyc itself.
func (m *MemoryBackend) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > m.maxTTL {
		ttl = m.maxTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.client.Set(key, memoryEntry{value: stored, expiresAt: m.now().Add(ttl)})
	return nil
}

// DeleteMatching removes every key matching pattern.
func (m *MemoryBackend) DeleteMatching(ctx context.Context, pattern string) error {
	for _, key := range m.client.ScanKeys() {
		if MatchPattern(pattern, key) {
			m.client.Delete(key)
		}
	}
	return nil
}

// Len reports the number of entries currently held.
func (m *MemoryBackend) Len() int {
	return len(m.client.ScanKeys())
}

// Close is a no-op; sturdyc has nothing to release.
func (m *MemoryBackend) Close() error {
	return nil
}
