package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisScanCount = 500

// RedisBackend stores payloads in redis. After a failed round trip it
// reports ErrUnavailable without touching the network until RetryInterval
// has elapsed and a ping succeeds.
type RedisBackend struct {
	client    *redis.Client
	prefix    string
	timeout   time.Duration
	retry     time.Duration
	logger    *zap.Logger
	available atomic.Bool
	lastCheck atomic.Int64
}

// NewRedisBackend parses cfg.URL and pings the server. A failed ping is not
// fatal: the backend starts in unavailable mode and recovers on its own.
func NewRedisBackend(cfg RedisConfig, logger *zap.Logger) (*RedisBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	return newRedisBackend(redis.NewClient(opts), cfg, logger), nil
}

func newRedisBackend(client *redis.Client, cfg RedisConfig, logger *zap.Logger) *RedisBackend {
	if logger == nil {
		logger = zap.NewNop()
	}

	rb := &RedisBackend{
		client:  client,
		prefix:  cfg.KeyPrefix,
		timeout: cfg.Timeout,
		retry:   cfg.RetryInterval,
		logger:  logger.Named("redis"),
	}
	rb.available.Store(true)

	ctx, cancel := context.WithTimeout(context.Background(), rb.timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		rb.logger.Warn("redis not reachable, starting in degraded mode", zap.Error(err))
		rb.markDown()
	}

	return rb
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := r.ready(); err != nil {
		return nil, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, r.fail("get", err)
	}

	return data, true, nil
}

func (r *RedisBackend) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.ready(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return r.fail("set", err)
	}
	return nil
}

// DeleteMatching deletes every key matching pattern. Patterns ending in '*'
// are resolved with SCAN MATCH; the literal part is glob escaped so that
// only a true prefix match is performed.
func (r *RedisBackend) DeleteMatching(ctx context.Context, pattern string) error {
	if err := r.ready(); err != nil {
		return err
	}

	prefix, wildcard := strings.CutSuffix(pattern, "*")
	if !wildcard {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		if err := r.client.Del(ctx, r.prefix+pattern).Err(); err != nil {
			return r.fail("del", err)
		}
		return nil
	}

	match := escapeGlob(r.prefix+prefix) + "*"
	var cursor uint64
	deleted := 0
	for {
		scanCtx, cancel := context.WithTimeout(ctx, r.timeout)
		keys, next, err := r.client.Scan(scanCtx, cursor, match, redisScanCount).Result()
		cancel()
		if err != nil {
			return r.fail("scan", err)
		}

		if len(keys) > 0 {
			delCtx, cancel := context.WithTimeout(ctx, r.timeout)
			err := r.client.Del(delCtx, keys...).Err()
			cancel()
			if err != nil {
				return r.fail("del", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.Debug("pattern delete", zap.String("pattern", pattern), zap.Int("deleted", deleted))
	return nil
}

// Close closes the underlying client.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}

func (r *RedisBackend) ready() error {
	if r.available.Load() {
		return nil
	}

	if time.Since(time.Unix(0, r.lastCheck.Load())) < r.retry {
		return ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		r.markDown()
		return unavailable("ping", err)
	}

	r.logger.Info("redis connection restored")
	r.available.Store(true)
	return nil
}

func (r *RedisBackend) fail(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	r.logger.Warn("redis command failed", zap.String("op", op), zap.Error(err))
	r.markDown()
	return unavailable(op, err)
}

func (r *RedisBackend) markDown() {
	r.available.Store(false)
	r.lastCheck.Store(time.Now().UnixNano())
}

// escapeGlob escapes the characters redis MATCH treats specially.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\', '^':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
