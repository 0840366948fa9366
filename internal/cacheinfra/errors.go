package cacheinfra

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable marks failures talking to the cache server. Callers
// treat it as a reason to bypass the cache, never as a request failure.
var ErrUnavailable = errors.New("cache backend unavailable")

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

// MatchPattern reports whether key matches pattern. A trailing '*' matches
// any suffix; any other pattern must equal the key.
func MatchPattern(pattern, key string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(key, prefix)
	}
	return pattern == key
}
