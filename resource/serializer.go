package resource

import (
	"time"

	"github.com/goliatone/go-jobboard/store"
)

// timeLayout renders timestamps like "2024-06-01T12:00:00.000Z".
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Serializer turns entities into JSON-ready values. SerializePage keeps
// the order of records.
type Serializer[T any] interface {
	Serialize(record T) any
	SerializePage(records []T) any
}

type userJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserSerializer renders users.
type UserSerializer struct{}

func (UserSerializer) Serialize(u *store.User) any {
	return userJSON{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

func (s UserSerializer) SerializePage(users []*store.User) any {
	out := make([]any, len(users))
	for i, u := range users {
		out[i] = s.Serialize(u)
	}
	return out
}

type jobJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	UserID      string `json:"user_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// JobSerializer renders jobs.
type JobSerializer struct{}

func (JobSerializer) Serialize(j *store.Job) any {
	return jobJSON{
		ID:          j.ID.String(),
		Title:       j.Title,
		Description: j.Description,
		Status:      j.Status,
		UserID:      j.UserID.String(),
		CreatedAt:   formatTime(j.CreatedAt),
		UpdatedAt:   formatTime(j.UpdatedAt),
	}
}

func (s JobSerializer) SerializePage(jobs []*store.Job) any {
	out := make([]any, len(jobs))
	for i, j := range jobs {
		out[i] = s.Serialize(j)
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
