package di

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-jobboard/cache"
	"github.com/goliatone/go-jobboard/internal/cacheinfra"
	"github.com/goliatone/go-jobboard/pkg/testsupport"
	"go.uber.org/zap/zaptest"
)

func TestNewContainer(t *testing.T) {
	config := cache.DefaultConfig()
	config.TTL = 5 * time.Minute
	config.Memory.Capacity = 1000
	config.Memory.NumShards = 16

	container, err := NewContainer(testsupport.OpenDB(t), config, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	if _, ok := container.Backend().(*cacheinfra.MemoryBackend); !ok {
		t.Errorf("expected memory backend, got %T", container.Backend())
	}
	if container.ReadThrough() == nil || container.Invalidator() == nil {
		t.Error("expected cache components to be initialised")
	}
	if container.Users().Namespace() != "users" || container.Jobs().Namespace() != "jobs" {
		t.Errorf("namespaces = %q, %q", container.Users().Namespace(), container.Jobs().Namespace())
	}
	if got := container.Config(); got.TTL != config.TTL || got.Memory.Capacity != 1000 {
		t.Errorf("stored config = %+v", got)
	}
	if container.Handler() == nil {
		t.Error("expected handler")
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults(testsupport.OpenDB(t), nil)
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	defer container.Close()

	if got, want := container.Config().TTL, cache.DefaultConfig().TTL; got != want {
		t.Errorf("TTL = %v, want %v", got, want)
	}
}

func TestNewContainer_InvalidInput(t *testing.T) {
	db := testsupport.OpenDB(t)

	invalid := cache.DefaultConfig()
	invalid.Memory.Capacity = 0

	var cfgErr *cacheinfra.ConfigError
	if _, err := NewContainer(db, invalid, nil); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %v", err)
	}

	if _, err := NewContainer(nil, cache.DefaultConfig(), nil); err == nil {
		t.Error("expected error without a database")
	}
}

func TestNewContainer_MemcacheUsesKeyRegistry(t *testing.T) {
	config := cache.DefaultConfig()
	config.Backend = cache.BackendMemcache
	config.Memcache.Servers = []string{"127.0.0.1:1"}

	container, err := NewContainer(testsupport.OpenDB(t), config, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	if _, ok := container.Backend().(*cacheinfra.KeyRegistry); !ok {
		t.Errorf("expected key registry, got %T", container.Backend())
	}
}

func TestContainer_InjectedBackendIsShared(t *testing.T) {
	backend := testsupport.NewRecordingBackend()
	container := newSeededContainer(t, WithBackend(backend))

	if container.Backend() != backend {
		t.Fatal("expected injected backend")
	}

	ctx := context.Background()
	if _, err := container.Users().Index(ctx, indexAll()); err != nil {
		t.Fatalf("users index: %v", err)
	}
	if _, err := container.Jobs().Index(ctx, indexAll()); err != nil {
		t.Fatalf("jobs index: %v", err)
	}

	var users, jobs int
	for _, key := range backend.Keys() {
		switch {
		case hasPrefix(key, "users/index/"):
			users++
		case hasPrefix(key, "jobs/index/"):
			jobs++
		}
	}
	if users != 1 || jobs != 1 {
		t.Errorf("keys = %v", backend.Keys())
	}

	stats := container.CacheStats()
	if stats.Misses != 2 || stats.Hits != 0 {
		t.Errorf("stats = %+v", stats)
	}
}
