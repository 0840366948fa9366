// Package resource serves users and jobs: cached index and show reads, and
// writes that invalidate the cache once they commit.
package resource

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/goliatone/go-jobboard/cache"
	"github.com/goliatone/go-jobboard/pagination"
	"github.com/goliatone/go-jobboard/store"
	"go.uber.org/zap"
)

// Entity is a record the service can cache. EntityID must be the
// canonical id used in show keys and invalidation patterns.
type Entity interface {
	EntityID() string
	LastModified() time.Time
}

// Filter narrows an index listing. Criteria lists the active filter
// fields; an empty result means the listing is unfiltered.
type Filter interface {
	Criteria() map[string]string
}

// Repository is the persistence contract the service runs against.
type Repository[T Entity, F Filter, A any] interface {
	Stats(ctx context.Context, filter F) (store.Stats, error)
	FindPage(ctx context.Context, filter F, page pagination.PageRequest) ([]T, error)
	FindByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, attrs A) (T, error)
	Update(ctx context.Context, id string, attrs A) (T, error)
	Delete(ctx context.Context, id string) error
}

// IndexRequest carries the raw listing parameters of a request.
type IndexRequest struct {
	Page     string
	PageSize string
	Params   url.Values
}

// IndexResult is a serialized page plus its pagination metadata. Meta is
// always computed from fresh stats, never from the cache.
type IndexResult struct {
	Data json.RawMessage
	Meta pagination.Meta
}

// Option configures a Service.
type Option func(*settings)

type settings struct {
	namespace string
	ttl       time.Duration
	logger    *zap.Logger
}

// WithNamespace overrides the namespace derived from the entity type.
func WithNamespace(ns string) Option {
	return func(s *settings) {
		s.namespace = ns
	}
}

// WithTTL sets the lifetime of cached payloads. Zero uses the read-through default.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.ttl = ttl
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service serves one resource: cached listing and show reads, plus
// writes that invalidate the resource's cache after they commit.
type Service[T Entity, F Filter, A any] struct {
	ns          cache.Namespace
	repo        Repository[T, F, A]
	serializer  Serializer[T]
	parseFilter func(url.Values) F
	reads       *cache.ReadThrough
	invalidator *cache.Invalidator
	ttl         time.Duration
	logger      *zap.Logger
}

// NewService wires a repository and serializer to the shared read-through
// cache and invalidator. parseFilter maps query parameters to a filter
// and must tolerate malformed input.
func NewService[T Entity, F Filter, A any](
	repo Repository[T, F, A],
	serializer Serializer[T],
	parseFilter func(url.Values) F,
	reads *cache.ReadThrough,
	invalidator *cache.Invalidator,
	opts ...Option,
) (*Service[T, F, A], error) {
	cfg := settings{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		ns  cache.Namespace
		err error
	)
	if cfg.namespace != "" {
		ns, err = cache.NewNamespace(cfg.namespace)
	} else {
		ns, err = namespaceFor[T]()
	}
	if err != nil {
		return nil, err
	}

	return &Service[T, F, A]{
		ns:          ns,
		repo:        repo,
		serializer:  serializer,
		parseFilter: parseFilter,
		reads:       reads,
		invalidator: invalidator,
		ttl:         cfg.ttl,
		logger:      cfg.logger.With(zap.String("namespace", ns.String())),
	}, nil
}

// Namespace returns the cache namespace of the resource.
func (s *Service[T, F, A]) Namespace() cache.Namespace {
	return s.ns
}

// Index returns one page of the filtered listing. The fingerprint in the
// cache key comes from live stats, so any write to the set moves the key.
func (s *Service[T, F, A]) Index(ctx context.Context, req IndexRequest) (IndexResult, error) {
	filter := s.parseFilter(req.Params)

	stats, err := s.repo.Stats(ctx, filter)
	if err != nil {
		return IndexResult{}, err
	}

	page := pagination.Resolve(req.Page, req.PageSize)
	key := cache.IndexKey(s.ns, cache.DescribeFilter(filter.Criteria()), stats.Fingerprint(), page.Page, page.PageSize)

	data, err := s.reads.FetchOrCompute(ctx, key, s.ttl, func(ctx context.Context) ([]byte, error) {
		records, err := s.repo.FindPage(ctx, filter, page)
		if err != nil {
			return nil, err
		}
		return json.Marshal(s.serializer.SerializePage(records))
	})
	if err != nil {
		return IndexResult{}, err
	}

	return IndexResult{
		Data: data,
		Meta: pagination.MetaFor(page, stats.Count),
	}, nil
}

// Show returns a single serialized record. A missing record is reported
// before the cache is consulted.
func (s *Service[T, F, A]) Show(ctx context.Context, id string) (json.RawMessage, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := cache.ShowKey(s.ns, record.EntityID(), record.LastModified().UnixMicro())
	return s.reads.FetchOrCompute(ctx, key, s.ttl, func(context.Context) ([]byte, error) {
		return json.Marshal(s.serializer.Serialize(record))
	})
}

// Create persists a new record and drops the cached listings. No show
// entry can exist yet for the new id, so show keys are left alone.
func (s *Service[T, F, A]) Create(ctx context.Context, attrs A) (json.RawMessage, error) {
	record, err := s.repo.Create(ctx, attrs)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("record created", zap.String("id", record.EntityID()))
	s.invalidator.Invalidate(ctx, s.ns, record.EntityID(), true)

	return json.Marshal(s.serializer.Serialize(record))
}

// Update applies a partial update and drops the cached listings and the
// record's show entries.
func (s *Service[T, F, A]) Update(ctx context.Context, id string, attrs A) (json.RawMessage, error) {
	record, err := s.repo.Update(ctx, id, attrs)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("record updated", zap.String("id", record.EntityID()))
	s.invalidator.Invalidate(ctx, s.ns, record.EntityID(), false)

	return json.Marshal(s.serializer.Serialize(record))
}

// Delete removes a record and drops the cached listings and its show entries.
func (s *Service[T, F, A]) Delete(ctx context.Context, id string) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Invalidation uses the canonical id, which may differ from the raw
	// path segment in case.
	canonical := record.EntityID()
	if err := s.repo.Delete(ctx, canonical); err != nil {
		return err
	}

	s.logger.Debug("record deleted", zap.String("id", canonical))
	s.invalidator.Invalidate(ctx, s.ns, canonical, false)
	return nil
}
