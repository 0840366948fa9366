package cache

import (
	"fmt"
	"time"

	"github.com/goliatone/go-jobboard/internal/cacheinfra"
	"go.uber.org/zap"
)

// Backend kinds accepted by Config.Backend.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendMemcache = "memcache"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend  string
	TTL      time.Duration
	Memory   MemoryConfig
	Redis    RedisConfig
	Memcache MemcacheConfig
}

// MemoryConfig mirrors the sturdyc client options.
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	URL           string
	KeyPrefix     string
	Timeout       time.Duration
	RetryInterval time.Duration
}

// MemcacheConfig configures the memcache backend.
type MemcacheConfig struct {
	Servers []string
	Timeout time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	mem := cacheinfra.DefaultMemoryConfig()
	rds := cacheinfra.DefaultRedisConfig()
	mc := cacheinfra.DefaultMemcacheConfig()

	return Config{
		Backend: BackendMemory,
		TTL:     DefaultTTL,
		Memory: MemoryConfig{
			Capacity:           mem.Capacity,
			NumShards:          mem.NumShards,
			EvictionPercentage: mem.EvictionPercentage,
			EvictionInterval:   mem.EvictionInterval,
		},
		Redis: RedisConfig{
			URL:           rds.URL,
			KeyPrefix:     rds.KeyPrefix,
			Timeout:       rds.Timeout,
			RetryInterval: rds.RetryInterval,
		},
		Memcache: MemcacheConfig{
			Servers: mc.Servers,
			Timeout: mc.Timeout,
		},
	}
}

// Validate checks whether the configuration values are valid. Only the
// selected backend's section is checked.
func (c Config) Validate() error {
	if c.TTL <= 0 {
		return &cacheinfra.ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	switch c.Backend {
	case BackendMemory:
		return c.memoryConfig().Validate()
	case BackendRedis:
		return c.redisConfig().Validate()
	case BackendMemcache:
		return c.memcacheConfig().Validate()
	default:
		return &cacheinfra.ConfigError{
			Field:   "Backend",
			Message: fmt.Sprintf("unknown backend %q, want one of memory, redis, memcache", c.Backend),
		}
	}
}

// NewBackend constructs the backend selected by cfg.Backend. memcache
// cannot enumerate keys, so it is wrapped in a key registry.
func NewBackend(cfg Config, logger *zap.Logger) (ClosableBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendRedis:
		backend, err := cacheinfra.NewRedisBackend(cfg.redisConfig(), logger)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case BackendMemcache:
		store, err := cacheinfra.NewMemcacheStore(cfg.memcacheConfig())
		if err != nil {
			return nil, err
		}
		return cacheinfra.NewKeyRegistry(store), nil
	default:
		backend, err := cacheinfra.NewMemoryBackend(cfg.memoryConfig())
		if err != nil {
			return nil, err
		}
		return backend, nil
	}
}

func (c Config) memoryConfig() cacheinfra.MemoryConfig {
	return cacheinfra.MemoryConfig{
		Capacity:           c.Memory.Capacity,
		NumShards:          c.Memory.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.Memory.EvictionPercentage,
		EvictionInterval:   c.Memory.EvictionInterval,
	}
}

func (c Config) redisConfig() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{
		URL:           c.Redis.URL,
		KeyPrefix:     c.Redis.KeyPrefix,
		Timeout:       c.Redis.Timeout,
		RetryInterval: c.Redis.RetryInterval,
	}
}

func (c Config) memcacheConfig() cacheinfra.MemcacheConfig {
	return cacheinfra.MemcacheConfig{
		Servers: c.Memcache.Servers,
		Timeout: c.Memcache.Timeout,
	}
}
