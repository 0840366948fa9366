package store

import (
	"context"
	"fmt"

	"github.com/goliatone/go-jobboard/pagination"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserFilter selects users. Users have no filters today; the type keeps
// the repository shape uniform with jobs.
type UserFilter struct{}

// Criteria returns the filter as name/value pairs.
func (UserFilter) Criteria() map[string]string { return nil }

// UserRepository persists users.
type UserRepository struct {
	db   *bun.DB
	repo repository.Repository[*User]
	opts options
}

func NewUserRepository(db *bun.DB, opts ...Option) *UserRepository {
	handlers := repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
	}

	return &UserRepository{
		db:   db,
		repo: repository.NewRepository[*User](db, handlers),
		opts: buildOptions(opts),
	}
}

func (r *UserRepository) Stats(ctx context.Context, _ UserFilter) (Stats, error) {
	count, err := r.repo.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}

	latest, err := latestUpdate(ctx, r.db.NewSelect().Model((*User)(nil)))
	if err != nil {
		return Stats{}, fmt.Errorf("latest user update: %w", err)
	}

	return Stats{Count: count, LatestUpdate: latest}, nil
}

// FindPage returns one page of users, newest first.
func (r *UserRepository) FindPage(ctx context.Context, _ UserFilter, page pagination.PageRequest) ([]*User, error) {
	records, _, err := r.repo.List(ctx, newestFirst, paginate(page))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return records, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	user := &User{}
	if err := findByID(ctx, r.db, user, id); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, attrs UserAttrs) (*User, error) {
	user := &User{}
	applyUserAttrs(user, attrs)

	if err := r.validate(ctx, user); err != nil {
		return nil, err
	}

	now := r.opts.timestamp()
	user.ID = r.opts.newID()
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := r.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, attrs UserAttrs) (*User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUserAttrs(user, attrs)
	if err := r.validate(ctx, user); err != nil {
		return nil, err
	}
	user.UpdatedAt = r.opts.timestamp()

	updated, err := r.repo.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// Delete removes the user. Jobs owned by the user are kept.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.repo.Delete(ctx, user); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) validate(ctx context.Context, user *User) error {
	verr, err := validateUser(user)
	if err != nil {
		return err
	}

	if !verr.Has("email") {
		taken, err := r.db.NewSelect().
			Model((*User)(nil)).
			Where("LOWER(email) = LOWER(?)", user.Email).
			Where("id != ?", user.ID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("check email uniqueness: %w", err)
		}
		if taken {
			verr.add("email", msgTaken)
		}
	}

	return verr.orNil()
}

func applyUserAttrs(user *User, attrs UserAttrs) {
	if attrs.Name != nil {
		user.Name = *attrs.Name
	}
	if attrs.Email != nil {
		user.Email = *attrs.Email
	}
	if attrs.Phone != nil {
		user.Phone = *attrs.Phone
	}
}
