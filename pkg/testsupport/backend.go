package testsupport

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-jobboard/internal/cacheinfra"
)

// Backend operations recorded by RecordingBackend.
const (
	OpGet    = "get"
	OpPut    = "put"
	OpDelete = "delete"
)

// Call is one operation seen by RecordingBackend.
type Call struct {
	Op  string
	Key string // key, or pattern for deletes
}

// RecordingBackend is an in-memory cache backend that records every call
// and can be told to fail.
type RecordingBackend struct {
	mu    sync.Mutex
	data  map[string][]byte
	ttls  map[string]time.Duration
	calls []Call

	GetErr    error
	PutErr    error
	DeleteErr error
}

func NewRecordingBackend() *RecordingBackend {
	return &RecordingBackend{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (b *RecordingBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, Call{Op: OpGet, Key: key})
	if b.GetErr != nil {
		return nil, false, b.GetErr
	}
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *RecordingBackend) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, Call{Op: OpPut, Key: key})
	if b.PutErr != nil {
		return b.PutErr
	}
	b.data[key] = append([]byte(nil), value...)
	b.ttls[key] = ttl
	return nil
}

func (b *RecordingBackend) DeleteMatching(ctx context.Context, pattern string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, Call{Op: OpDelete, Key: pattern})
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	for key := range b.data {
		if cacheinfra.MatchPattern(pattern, key) {
			delete(b.data, key)
			delete(b.ttls, key)
		}
	}
	return nil
}

func (b *RecordingBackend) Close() error { return nil }

// Seed stores value under key without recording a call.
func (b *RecordingBackend) Seed(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
}

// Has reports whether key is stored.
func (b *RecordingBackend) Has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.data[key]
	return ok
}

// TTL returns the ttl key was stored with.
func (b *RecordingBackend) TTL(key string) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ttls[key]
}

// Keys returns the stored keys in sorted order.
func (b *RecordingBackend) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Calls returns a copy of the recorded calls.
func (b *RecordingBackend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallCount returns how many calls of op were recorded.
func (b *RecordingBackend) CallCount(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, c := range b.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Patterns returns the patterns passed to DeleteMatching, in call order.
func (b *RecordingBackend) Patterns() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []string
	for _, c := range b.calls {
		if c.Op == OpDelete {
			out = append(out, c.Key)
		}
	}
	return out
}

// ResetCalls forgets recorded calls but keeps stored data.
func (b *RecordingBackend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}
