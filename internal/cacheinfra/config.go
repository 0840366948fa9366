package cacheinfra

import (
	"strings"
	"time"
)

// MemoryConfig holds the configuration for the sturdyc backed in-process store.
type MemoryConfig struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0. Default: 64
	NumShards int

	// TTL is the upper bound for any entry stored in the client. Entries
	// written with a shorter TTL expire earlier.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	// URL is parsed with redis.ParseURL, e.g. redis://localhost:6379/0.
	URL string

	// KeyPrefix is prepended to every key written to redis so that several
	// deployments can share one database.
	KeyPrefix string

	// Timeout bounds every redis round trip.
	Timeout time.Duration

	// RetryInterval is how long the backend stays in unavailable mode before
	// it pings redis again.
	RetryInterval time.Duration
}

// MemcacheConfig configures the memcache backend.
type MemcacheConfig struct {
	Servers []string
	Timeout time.Duration
}

// DefaultMemoryConfig returns a MemoryConfig with sensible defaults.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          64,
		TTL:                time.Hour,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
	}
}

// DefaultRedisConfig returns a RedisConfig pointing at a local redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		URL:           "redis://localhost:6379/0",
		KeyPrefix:     "jobboard:",
		Timeout:       100 * time.Millisecond,
		RetryInterval: 30 * time.Second,
	}
}

// DefaultMemcacheConfig returns a MemcacheConfig pointing at a local memcached.
func DefaultMemcacheConfig() MemcacheConfig {
	return MemcacheConfig{
		Servers: []string{"localhost:11211"},
		Timeout: 100 * time.Millisecond,
	}
}

// Validate checks if the configuration values are valid.
func (c MemoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// Validate checks if the configuration values are valid.
func (c RedisConfig) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return &ConfigError{Field: "Redis.URL", Message: "cannot be empty"}
	}

	if c.Timeout <= 0 {
		return &ConfigError{Field: "Redis.Timeout", Message: "must be greater than 0"}
	}

	if c.RetryInterval < 0 {
		return &ConfigError{Field: "Redis.RetryInterval", Message: "must be non-negative"}
	}

	return nil
}

// Validate checks if the configuration values are valid.
func (c MemcacheConfig) Validate() error {
	if len(c.Servers) == 0 {
		return &ConfigError{Field: "Memcache.Servers", Message: "must list at least one server"}
	}

	for _, s := range c.Servers {
		if strings.TrimSpace(s) == "" {
			return &ConfigError{Field: "Memcache.Servers", Message: "cannot contain empty addresses"}
		}
	}

	if c.Timeout < 0 {
		return &ConfigError{Field: "Memcache.Timeout", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
