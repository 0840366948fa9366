// Package store persists users and jobs with bun.
package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Job statuses accepted by validation.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// JobStatuses lists every valid status.
var JobStatuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Phone     string    `bun:"phone,notnull" json:"phone"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// EntityID returns the id in its canonical string form.
func (u *User) EntityID() string { return u.ID.String() }

// LastModified returns the update timestamp.
func (u *User) LastModified() time.Time { return u.UpdatedAt }

type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description,notnull" json:"description"`
	Status      string    `bun:"status,notnull" json:"status"`
	UserID      uuid.UUID `bun:"user_id,type:uuid,notnull" json:"user_id"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

func (j *Job) EntityID() string { return j.ID.String() }

func (j *Job) LastModified() time.Time { return j.UpdatedAt }

// UserAttrs carries user input. Nil fields are left untouched on update.
type UserAttrs struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// JobAttrs carries job input. Nil fields are left untouched on update.
type JobAttrs struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	UserID      *string `json:"user_id"`
}
