package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-jobboard/pagination"
	"github.com/goliatone/go-jobboard/pkg/testsupport"
	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

type fixture struct {
	clock *testsupport.Clock
	users *UserRepository
	jobs  *JobRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testsupport.OpenDB(t)
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Migrations are idempotent.
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	clock := testsupport.NewClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return &fixture{
		clock: clock,
		users: NewUserRepository(db, WithClock(clock.Now)),
		jobs:  NewJobRepository(db, WithClock(clock.Now)),
	}
}

func (f *fixture) createUser(t *testing.T, email string) *User {
	t.Helper()
	f.clock.Advance(time.Second)
	u, err := f.users.Create(context.Background(), UserAttrs{
		Name:  strPtr("Damar"),
		Email: strPtr(email),
		Phone: strPtr("0812345678"),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) createJob(t *testing.T, owner *User, title string) *Job {
	t.Helper()
	f.clock.Advance(time.Second)
	j, err := f.jobs.Create(context.Background(), JobAttrs{
		Title:       strPtr(title),
		Description: strPtr("Coding"),
		Status:      strPtr(StatusPending),
		UserID:      strPtr(owner.ID.String()),
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return j
}

func TestUserRepository_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.createUser(t, "damar@mail.com")
	if u.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}
	if !u.CreatedAt.Equal(u.UpdatedAt) {
		t.Error("expected created_at == updated_at on create")
	}

	got, err := f.users.FindByID(ctx, u.ID.String())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Email != "damar@mail.com" || !got.UpdatedAt.Equal(u.UpdatedAt) {
		t.Errorf("unexpected user %+v", got)
	}

	f.clock.Advance(time.Minute)
	updated, err := f.users.Update(ctx, u.ID.String(), UserAttrs{Phone: strPtr("0899")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != "0899" || updated.Name != "Damar" {
		t.Errorf("expected partial update, got %+v", updated)
	}
	if !updated.UpdatedAt.After(u.UpdatedAt) {
		t.Error("expected updated_at to move forward")
	}

	if err := f.users.Delete(ctx, u.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.users.FindByID(ctx, u.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUserRepository_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "dup@mail.com")

	tests := []struct {
		name  string
		attrs UserAttrs
		want  []string
	}{
		{
			name:  "missing name",
			attrs: UserAttrs{Email: strPtr("a@mail.com"), Phone: strPtr("1")},
			want:  []string{"Name can't be blank"},
		},
		{
			name:  "blank fields",
			attrs: UserAttrs{Name: strPtr("  "), Email: strPtr(""), Phone: strPtr("")},
			want:  []string{"Name can't be blank", "Email can't be blank", "Phone can't be blank"},
		},
		{
			name:  "invalid email",
			attrs: UserAttrs{Name: strPtr("x"), Email: strPtr("nope"), Phone: strPtr("1")},
			want:  []string{"Email is invalid"},
		},
		{
			name:  "duplicate email ignoring case",
			attrs: UserAttrs{Name: strPtr("x"), Email: strPtr("DUP@mail.com"), Phone: strPtr("1")},
			want:  []string{"Email has already been taken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Create(ctx, tt.attrs)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if got := verr.FullMessages(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FullMessages() = %v, want %v", got, tt.want)
			}
		})
	}

	stats, err := f.users.Stats(ctx, UserFilter{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Count != 1 {
		t.Errorf("expected failed creates not to be written, count=%d", stats.Count)
	}
}

func TestUserRepository_UpdateKeepsOwnEmail(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "self@mail.com")

	if _, err := f.users.Update(context.Background(), u.ID.String(), UserAttrs{Email: strPtr("self@mail.com")}); err != nil {
		t.Fatalf("expected own email to pass uniqueness, got %v", err)
	}
}

func TestJobRepository_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@mail.com")

	tests := []struct {
		name  string
		attrs JobAttrs
		want  []string
	}{
		{
			name: "blank fields",
			attrs: JobAttrs{
				Title: strPtr(""), Description: strPtr(""), Status: strPtr(""),
				UserID: strPtr(owner.ID.String()),
			},
			want: []string{"Title can't be blank", "Description can't be blank", "Status can't be blank"},
		},
		{
			name: "unknown status",
			attrs: JobAttrs{
				Title: strPtr("Dev"), Description: strPtr("Coding"), Status: strPtr("unknown"),
				UserID: strPtr(owner.ID.String()),
			},
			want: []string{"Status is not included in the list"},
		},
		{
			name:  "missing user",
			attrs: JobAttrs{Title: strPtr("Dev"), Description: strPtr("Coding"), Status: strPtr("pending")},
			want:  []string{"User must exist"},
		},
		{
			name: "malformed user id",
			attrs: JobAttrs{
				Title: strPtr("Dev"), Description: strPtr("Coding"), Status: strPtr("pending"),
				UserID: strPtr("abc"),
			},
			want: []string{"User must exist"},
		},
		{
			name: "unknown user id",
			attrs: JobAttrs{
				Title: strPtr("Dev"), Description: strPtr("Coding"), Status: strPtr("pending"),
				UserID: strPtr(uuid.NewString()),
			},
			want: []string{"User must exist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.jobs.Create(ctx, tt.attrs)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if got := verr.FullMessages(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FullMessages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJobRepository_FilterAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@mail.com")
	bob := f.createUser(t, "bob@mail.com")

	a1 := f.createJob(t, alice, "a1")
	a2 := f.createJob(t, alice, "a2")
	b1 := f.createJob(t, bob, "b1")

	t.Run("filtered stats", func(t *testing.T) {
		stats, err := f.jobs.Stats(ctx, JobFilter{UserID: alice.ID})
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if stats.Count != 2 {
			t.Errorf("expected 2 jobs, got %d", stats.Count)
		}
		if !stats.LatestUpdate.Equal(a2.UpdatedAt) {
			t.Errorf("expected latest update %v, got %v", a2.UpdatedAt, stats.LatestUpdate)
		}
		if stats.Fingerprint() != a2.UpdatedAt.UnixMicro() {
			t.Errorf("unexpected fingerprint %d", stats.Fingerprint())
		}
	})

	t.Run("newest first", func(t *testing.T) {
		jobs, err := f.jobs.FindPage(ctx, JobFilter{}, pagination.PageRequest{Page: 1, PageSize: 10})
		if err != nil {
			t.Fatalf("find page: %v", err)
		}
		want := []uuid.UUID{b1.ID, a2.ID, a1.ID}
		if len(jobs) != len(want) {
			t.Fatalf("expected %d jobs, got %d", len(want), len(jobs))
		}
		for i, j := range jobs {
			if j.ID != want[i] {
				t.Errorf("position %d: got %s, want %s", i, j.Title, want[i])
			}
		}
	})

	t.Run("second page", func(t *testing.T) {
		jobs, err := f.jobs.FindPage(ctx, JobFilter{}, pagination.PageRequest{Page: 2, PageSize: 2})
		if err != nil {
			t.Fatalf("find page: %v", err)
		}
		if len(jobs) != 1 || jobs[0].ID != a1.ID {
			t.Errorf("expected only a1 on page 2, got %v", jobs)
		}
	})

	t.Run("out of range page is empty", func(t *testing.T) {
		jobs, err := f.jobs.FindPage(ctx, JobFilter{}, pagination.PageRequest{Page: 50, PageSize: 10})
		if err != nil {
			t.Fatalf("find page: %v", err)
		}
		if len(jobs) != 0 {
			t.Errorf("expected no jobs, got %d", len(jobs))
		}
	})

	t.Run("update moves the fingerprint", func(t *testing.T) {
		before, _ := f.jobs.Stats(ctx, JobFilter{UserID: bob.ID})
		f.clock.Advance(time.Minute)
		if _, err := f.jobs.Update(ctx, b1.ID.String(), JobAttrs{Status: strPtr(StatusCompleted)}); err != nil {
			t.Fatalf("update: %v", err)
		}
		after, _ := f.jobs.Stats(ctx, JobFilter{UserID: bob.ID})
		if after.Fingerprint() == before.Fingerprint() {
			t.Error("expected fingerprint to change after update")
		}

		other, _ := f.jobs.Stats(ctx, JobFilter{UserID: alice.ID})
		if other.Fingerprint() != a2.UpdatedAt.UnixMicro() {
			t.Error("expected other user's fingerprint to be unchanged")
		}
	})
}

func TestJobRepository_EmptySet(t *testing.T) {
	f := newFixture(t)

	stats, err := f.jobs.Stats(context.Background(), JobFilter{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Count != 0 || stats.Fingerprint() != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}

func TestJobRepository_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{uuid.NewString(), "abc", ""} {
		if _, err := f.jobs.FindByID(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("FindByID(%q): expected ErrNotFound, got %v", id, err)
		}
		if _, err := f.jobs.Update(ctx, id, JobAttrs{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update(%q): expected ErrNotFound, got %v", id, err)
		}
		if err := f.jobs.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete(%q): expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestNewJobFilter(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		raw  string
		want JobFilter
	}{
		{"", JobFilter{}},
		{"abc", JobFilter{}},
		{"1", JobFilter{}},
		{id.String(), JobFilter{UserID: id}},
	}

	for _, tt := range tests {
		if got := NewJobFilter(tt.raw); got != tt.want {
			t.Errorf("NewJobFilter(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}

	if NewJobFilter("abc").Criteria() != nil {
		t.Error("expected no criteria for malformed id")
	}
	if got := NewJobFilter(id.String()).Criteria()["user_id"]; got != id.String() {
		t.Errorf("unexpected criteria value %q", got)
	}
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"title":      "Title",
		"user_id":    "User",
		"created_at": "Created at",
	}
	for in, want := range tests {
		if got := humanize(in); got != want {
			t.Errorf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open("mysql", "", nil); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestUserRepository_IDGenerator(t *testing.T) {
	db := testsupport.OpenDB(t)
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	fixed := uuid.MustParse("11111111-2222-4333-8444-555555555555")
	repo := NewUserRepository(db, WithIDGenerator(func() uuid.UUID { return fixed }))

	u, err := repo.Create(context.Background(), UserAttrs{
		Name:  strPtr("Damar"),
		Email: strPtr("damar@mail.com"),
		Phone: strPtr("0812"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID != fixed || u.EntityID() != fixed.String() {
		t.Errorf("id = %s, want %s", u.ID, fixed)
	}

	if _, err := repo.FindByID(context.Background(), uuid.NewString()); !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got %v", err)
	}
}
