// Package config loads process configuration from defaults, an optional
// config file, a .env file and JOBBOARD_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-jobboard/cache"
	"github.com/goliatone/go-jobboard/store"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, so cache.redis.url is
// read from JOBBOARD_CACHE_REDIS_URL.
const EnvPrefix = "JOBBOARD"

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type CacheConfig struct {
	Backend  string              `mapstructure:"backend"`
	TTL      time.Duration       `mapstructure:"ttl"`
	Memory   MemoryCacheConfig   `mapstructure:"memory"`
	Redis    RedisCacheConfig    `mapstructure:"redis"`
	Memcache MemcacheCacheConfig `mapstructure:"memcache"`
}

type MemoryCacheConfig struct {
	Capacity           int           `mapstructure:"capacity"`
	Shards             int           `mapstructure:"shards"`
	EvictionPercentage int           `mapstructure:"eviction_percentage"`
	EvictionInterval   time.Duration `mapstructure:"eviction_interval"`
}

type RedisCacheConfig struct {
	URL           string        `mapstructure:"url"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

type MemcacheCacheConfig struct {
	Servers []string      `mapstructure:"servers"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration. configFile may be empty. A .env file in
// the working directory is loaded when present; variables already set in
// the environment win over it.
func Load(configFile string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := cache.DefaultConfig()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)

	v.SetDefault("database.driver", store.DriverSQLite)
	v.SetDefault("database.dsn", "file:jobboard.db?cache=shared")

	v.SetDefault("cache.backend", defaults.Backend)
	v.SetDefault("cache.ttl", defaults.TTL)
	v.SetDefault("cache.memory.capacity", defaults.Memory.Capacity)
	v.SetDefault("cache.memory.shards", defaults.Memory.NumShards)
	v.SetDefault("cache.memory.eviction_percentage", defaults.Memory.EvictionPercentage)
	v.SetDefault("cache.memory.eviction_interval", defaults.Memory.EvictionInterval)
	v.SetDefault("cache.redis.url", defaults.Redis.URL)
	v.SetDefault("cache.redis.key_prefix", defaults.Redis.KeyPrefix)
	v.SetDefault("cache.redis.timeout", defaults.Redis.Timeout)
	v.SetDefault("cache.redis.retry_interval", defaults.Redis.RetryInterval)
	v.SetDefault("cache.memcache.servers", defaults.Memcache.Servers)
	v.SetDefault("cache.memcache.timeout", defaults.Memcache.Timeout)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks the settings the cache package does not own.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return errors.New("http.addr must not be empty")
	}
	switch c.Database.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn must not be empty")
	}
	return c.Cache.CacheConfig().Validate()
}

// CacheConfig converts the cache section to the cache package's Config.
func (c CacheConfig) CacheConfig() cache.Config {
	return cache.Config{
		Backend: c.Backend,
		TTL:     c.TTL,
		Memory: cache.MemoryConfig{
			Capacity:           c.Memory.Capacity,
			NumShards:          c.Memory.Shards,
			EvictionPercentage: c.Memory.EvictionPercentage,
			EvictionInterval:   c.Memory.EvictionInterval,
		},
		Redis: cache.RedisConfig{
			URL:           c.Redis.URL,
			KeyPrefix:     c.Redis.KeyPrefix,
			Timeout:       c.Redis.Timeout,
			RetryInterval: c.Redis.RetryInterval,
		},
		Memcache: cache.MemcacheConfig{
			Servers: c.Memcache.Servers,
			Timeout: c.Memcache.Timeout,
		},
	}
}
