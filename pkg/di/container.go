package di

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-jobboard/api"
	"github.com/goliatone/go-jobboard/cache"
	"github.com/goliatone/go-jobboard/resource"
	"github.com/goliatone/go-jobboard/store"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Container wires the cache, repositories and resource services of one
// process. Services share a single backend, read-through cache and
// invalidator.
type Container struct {
	config      cache.Config
	db          *bun.DB
	backend     cache.Backend
	closer      func() error
	reads       *cache.ReadThrough
	invalidator *cache.Invalidator
	users       *resource.UserService
	jobs        *resource.JobService
	logger      *zap.Logger
}

// Option configures a Container.
type Option func(*containerOptions)

type containerOptions struct {
	backend   cache.Backend
	storeOpts []store.Option
}

// WithBackend replaces the backend built from the cache config. The
// caller keeps ownership of it; Close does not close it.
func WithBackend(backend cache.Backend) Option {
	return func(o *containerOptions) {
		o.backend = backend
	}
}

// WithStoreOptions passes options to both repositories.
func WithStoreOptions(opts ...store.Option) Option {
	return func(o *containerOptions) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

// NewContainer builds every component on top of db. The cache config is
// validated even when a backend is injected, since its TTL still applies.
func NewContainer(db *bun.DB, config cache.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	if db == nil {
		return nil, errors.New("di: database is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var o containerOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		config: config,
		db:     db,
		closer: func() error { return nil },
		logger: logger,
	}

	if o.backend != nil {
		c.backend = o.backend
	} else {
		backend, err := cache.NewBackend(config, logger.Named("cache"))
		if err != nil {
			return nil, err
		}
		c.backend = backend
		c.closer = backend.Close
	}

	c.reads = cache.NewReadThrough(c.backend, config.TTL, logger)
	c.invalidator = cache.NewInvalidator(c.backend, logger)

	users, err := resource.NewUserService(
		store.NewUserRepository(db, o.storeOpts...),
		c.reads, c.invalidator,
		resource.WithTTL(config.TTL), resource.WithLogger(logger.Named("users")),
	)
	if err != nil {
		return nil, errors.Join(err, c.closer())
	}

	jobs, err := resource.NewJobService(
		store.NewJobRepository(db, o.storeOpts...),
		c.reads, c.invalidator,
		resource.WithTTL(config.TTL), resource.WithLogger(logger.Named("jobs")),
	)
	if err != nil {
		return nil, errors.Join(err, c.closer())
	}

	c.users = users
	c.jobs = jobs
	return c, nil
}

// NewContainerWithDefaults uses cache.DefaultConfig, an in-process memory cache.
func NewContainerWithDefaults(db *bun.DB, logger *zap.Logger) (*Container, error) {
	return NewContainer(db, cache.DefaultConfig(), logger)
}

// Config returns a copy of the cache configuration.
func (c *Container) Config() cache.Config {
	return c.config
}

func (c *Container) Backend() cache.Backend {
	return c.backend
}

func (c *Container) ReadThrough() *cache.ReadThrough {
	return c.reads
}

func (c *Container) Invalidator() *cache.Invalidator {
	return c.invalidator
}

func (c *Container) Users() *resource.UserService {
	return c.users
}

func (c *Container) Jobs() *resource.JobService {
	return c.jobs
}

// CacheStats merges read and invalidation counters.
func (c *Container) CacheStats() cache.Stats {
	reads := c.reads.Stats()
	inv := c.invalidator.Stats()
	return cache.Stats{
		Hits:          reads.Hits,
		Misses:        reads.Misses,
		Errors:        reads.Errors + inv.Errors,
		Invalidations: inv.Invalidations,
	}
}

// Handler returns the HTTP router over the container's services.
func (c *Container) Handler() http.Handler {
	return api.NewRouter(api.Deps{Users: c.users, Jobs: c.jobs, DB: c.db}, c.logger.Named("http"))
}

// Close releases the backend the container built. The database belongs
// to the caller.
func (c *Container) Close() error {
	return c.closer()
}
