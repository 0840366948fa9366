package resource

import (
	"net/url"

	"github.com/goliatone/go-jobboard/cache"
	"github.com/goliatone/go-jobboard/store"
)

type (
	UserService = Service[*store.User, store.UserFilter, store.UserAttrs]
	JobService  = Service[*store.Job, store.JobFilter, store.JobAttrs]
)

// NewUserService serves the "users" namespace. Listings are unfiltered.
func NewUserService(repo Repository[*store.User, store.UserFilter, store.UserAttrs], reads *cache.ReadThrough, invalidator *cache.Invalidator, opts ...Option) (*UserService, error) {
	return NewService(repo, Serializer[*store.User](UserSerializer{}), parseUserFilter, reads, invalidator, opts...)
}

// NewJobService serves the "jobs" namespace. Listings accept a user_id
// filter; a malformed value lists all jobs.
func NewJobService(repo Repository[*store.Job, store.JobFilter, store.JobAttrs], reads *cache.ReadThrough, invalidator *cache.Invalidator, opts ...Option) (*JobService, error) {
	return NewService(repo, Serializer[*store.Job](JobSerializer{}), parseJobFilter, reads, invalidator, opts...)
}

func parseUserFilter(url.Values) store.UserFilter {
	return store.UserFilter{}
}

func parseJobFilter(params url.Values) store.JobFilter {
	return store.NewJobFilter(params.Get("user_id"))
}
