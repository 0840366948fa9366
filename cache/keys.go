package cache

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	keySeparator = "/"
	allRecords   = "all"
)

var namespacePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Namespace identifies a resource family in the shared key space. It can
// only hold lowercase identifiers, so it never contains a separator or a
// wildcard.
type Namespace string

// NewNamespace validates name.
func NewNamespace(name string) (Namespace, error) {
	if !namespacePattern.MatchString(name) {
		return "", fmt.Errorf("invalid cache namespace %q: must match %s", name, namespacePattern)
	}
	return Namespace(name), nil
}

// MustNamespace is NewNamespace for package level declarations.
func MustNamespace(name string) Namespace {
	ns, err := NewNamespace(name)
	if err != nil {
		panic(err)
	}
	return ns
}

func (n Namespace) String() string {
	return string(n)
}

// Filter is the canonical description of the criteria applied to a list
// query. The zero value means "no filter".
type Filter struct {
	descriptor string
}

// String returns the descriptor embedded in index keys.
func (f Filter) String() string {
	if f.descriptor == "" {
		return allRecords
	}
	return f.descriptor
}

// DescribeFilter canonicalizes criteria. Empty values are dropped, pairs are
// sorted by name and every name and value is escaped, so equal criteria
// always yield the same Filter and distinct criteria never do.
func DescribeFilter(criteria map[string]string) Filter {
	names := make([]string, 0, len(criteria))
	for name, value := range criteria {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return Filter{}
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = EscapeSegment(name) + "=" + EscapeSegment(criteria[name])
	}
	return Filter{descriptor: strings.Join(parts, "&")}
}

// IndexKey builds the key of one page of a list query:
//
//	{ns}/index/filter-{filter}/updated-{fingerprint}/page-{page}/per_page-{pageSize}
func IndexKey(ns Namespace, filter Filter, fingerprint int64, page, pageSize int) string {
	return strings.Join([]string{
		string(ns),
		"index",
		"filter-" + filter.String(),
		"updated-" + strconv.FormatInt(fingerprint, 10),
		"page-" + strconv.Itoa(page),
		"per_page-" + strconv.Itoa(pageSize),
	}, keySeparator)
}

// ShowKey builds the key of a single entity:
//
//	{ns}/show/{id}/updated-{fingerprint}
func ShowKey(ns Namespace, id string, fingerprint int64) string {
	return strings.Join([]string{
		string(ns),
		"show",
		EscapeSegment(id),
		"updated-" + strconv.FormatInt(fingerprint, 10),
	}, keySeparator)
}

// IndexPattern matches every list key of ns.
func IndexPattern(ns Namespace) string {
	return string(ns) + keySeparator + "index" + keySeparator + "*"
}

// ShowPattern matches every key of one entity of ns.
func ShowPattern(ns Namespace, id string) string {
	return string(ns) + keySeparator + "show" + keySeparator + EscapeSegment(id) + keySeparator + "*"
}

// EscapeSegment percent-encodes every byte outside [A-Za-z0-9._~-]. The
// result never contains a key separator, a glob character, '=' or '&', and
// distinct inputs always produce distinct outputs. The empty string maps to
// a lone "%", which no other input can produce.
func EscapeSegment(s string) string {
	if s == "" {
		return "%"
	}

	safe := true
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}

	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
