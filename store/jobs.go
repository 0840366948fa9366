package store

import (
	"context"
	"fmt"

	"github.com/goliatone/go-jobboard/pagination"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// JobFilter selects jobs. A zero UserID selects every job.
type JobFilter struct {
	UserID uuid.UUID
}

// NewJobFilter builds a filter from a raw user id. A value that is not a
// valid id is ignored and the filter selects every job.
func NewJobFilter(rawUserID string) JobFilter {
	uid, ok := parseID(rawUserID)
	if !ok {
		return JobFilter{}
	}
	return JobFilter{UserID: uid}
}

// Criteria returns the filter as name/value pairs.
func (f JobFilter) Criteria() map[string]string {
	if f.UserID == uuid.Nil {
		return nil
	}
	return map[string]string{"user_id": f.UserID.String()}
}

func (f JobFilter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.UserID != uuid.Nil {
		q = q.Where("user_id = ?", f.UserID)
	}
	return q
}

// JobRepository persists jobs.
type JobRepository struct {
	db   *bun.DB
	repo repository.Repository[*Job]
	opts options
}

func NewJobRepository(db *bun.DB, opts ...Option) *JobRepository {
	handlers := repository.ModelHandlers[*Job]{
		NewRecord: func() *Job { return &Job{} },
		GetID: func(j *Job) uuid.UUID {
			if j == nil {
				return uuid.Nil
			}
			return j.ID
		},
		SetID: func(j *Job, id uuid.UUID) {
			j.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
	}

	return &JobRepository{
		db:   db,
		repo: repository.NewRepository[*Job](db, handlers),
		opts: buildOptions(opts),
	}
}

// Stats counts the jobs selected by f and finds their latest update.
func (r *JobRepository) Stats(ctx context.Context, f JobFilter) (Stats, error) {
	count, err := r.repo.Count(ctx, f.apply)
	if err != nil {
		return Stats{}, fmt.Errorf("count jobs: %w", err)
	}

	latest, err := latestUpdate(ctx, f.apply(r.db.NewSelect().Model((*Job)(nil))))
	if err != nil {
		return Stats{}, fmt.Errorf("latest job update: %w", err)
	}

	return Stats{Count: count, LatestUpdate: latest}, nil
}

// FindPage returns one page of the jobs selected by f, newest first.
func (r *JobRepository) FindPage(ctx context.Context, f JobFilter, page pagination.PageRequest) ([]*Job, error) {
	records, _, err := r.repo.List(ctx, f.apply, newestFirst, paginate(page))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return records, nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*Job, error) {
	job := &Job{}
	if err := findByID(ctx, r.db, job, id); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *JobRepository) Create(ctx context.Context, attrs JobAttrs) (*Job, error) {
	job := &Job{}
	applyJobAttrs(job, attrs)

	if err := r.validate(ctx, job); err != nil {
		return nil, err
	}

	now := r.opts.timestamp()
	job.ID = r.opts.newID()
	job.CreatedAt = now
	job.UpdatedAt = now

	created, err := r.repo.Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return created, nil
}

func (r *JobRepository) Update(ctx context.Context, id string, attrs JobAttrs) (*Job, error) {
	job, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyJobAttrs(job, attrs)
	if err := r.validate(ctx, job); err != nil {
		return nil, err
	}
	job.UpdatedAt = r.opts.timestamp()

	updated, err := r.repo.Update(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return updated, nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	job, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.repo.Delete(ctx, job); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

// validate checks attribute rules and that the owning user exists.
func (r *JobRepository) validate(ctx context.Context, job *Job) error {
	verr, err := validateJob(job)
	if err != nil {
		return err
	}

	exists := false
	if job.UserID != uuid.Nil {
		exists, err = r.db.NewSelect().
			Model((*User)(nil)).
			Where("id = ?", job.UserID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("check job owner: %w", err)
		}
	}
	if !exists {
		verr.add("user_id", msgMustExist)
	}

	return verr.orNil()
}

func applyJobAttrs(job *Job, attrs JobAttrs) {
	if attrs.Title != nil {
		job.Title = *attrs.Title
	}
	if attrs.Description != nil {
		job.Description = *attrs.Description
	}
	if attrs.Status != nil {
		job.Status = *attrs.Status
	}
	if attrs.UserID != nil {
		// Unparseable ids become Nil and fail the owner check.
		job.UserID, _ = parseID(*attrs.UserID)
	}
}
