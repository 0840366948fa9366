package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-jobboard/pagination"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Stats summarises a filtered record set.
type Stats struct {
	Count        int
	LatestUpdate time.Time
}

// Fingerprint is LatestUpdate in unix microseconds, or 0 for an empty set.
func (s Stats) Fingerprint() int64 {
	if s.Count == 0 || s.LatestUpdate.IsZero() {
		return 0
	}
	return s.LatestUpdate.UnixMicro()
}

// Option configures a repository.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() uuid.UUID
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides how new record ids are generated.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timestamp returns the current time in UTC at microsecond precision, the
// resolution both SQLite and PostgreSQL round-trip exactly.
func (o options) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Microsecond)
}

func newestFirst(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("created_at DESC, id DESC")
}

func paginate(page pagination.PageRequest) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Limit(page.Limit()).Offset(page.Offset())
	}
}

// latestUpdate returns the greatest updated_at selected by q, or the zero
// time when q selects nothing.
func latestUpdate(ctx context.Context, q *bun.SelectQuery) (time.Time, error) {
	var ts time.Time
	err := q.Column("updated_at").
		OrderExpr("updated_at DESC").
		Limit(1).
		Scan(ctx, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

// parseID returns false for anything that is not a UUID.
func parseID(id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed == uuid.Nil {
		return uuid.Nil, false
	}
	return parsed, true
}

// findByID loads model by primary key, mapping a missing row to ErrNotFound.
func findByID(ctx context.Context, db bun.IDB, model any, id string) error {
	uid, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}

	err := db.NewSelect().Model(model).Where("id = ?", uid).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
