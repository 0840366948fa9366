package resource

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/goliatone/go-jobboard/cache"
	"github.com/jinzhu/inflection"
)

// namespaceFor derives the cache namespace of T from its Go type name:
// *store.Job becomes "jobs", *store.JobRun would become "job_runs".
// Namespaces never come from request input.
func namespaceFor[T any]() (cache.Namespace, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	for typ.Kind() == reflect.Pointer || typ.Kind() == reflect.Slice {
		typ = typ.Elem()
	}

	name := typ.Name()
	// Instantiated generic types carry their type arguments in brackets.
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", fmt.Errorf("cannot derive cache namespace for unnamed type %s", typ)
	}

	return cache.NewNamespace(inflection.Plural(toSnake(name)))
}

// toSnake converts an identifier to snake_case, dropping anything that
// is not an ASCII letter or digit.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	pendingSep := false
	for i, r := range runes {
		switch {
		case r > unicode.MaxASCII:
			pendingSep = b.Len() > 0
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					pendingSep = true
				}
			}
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLower(r), unicode.IsDigit(r):
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
		default:
			pendingSep = b.Len() > 0
		}
	}

	return b.String()
}
