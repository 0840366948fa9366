package pagination

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is used when the requested page size is missing or unusable.
	DefaultPageSize = 10
	// MaxPageSize caps every page size.
	MaxPageSize = 100
)

// PageRequest is a validated page/page size pair. Use Resolve to build one
// from untrusted input.
type PageRequest struct {
	Page     int
	PageSize int
}

// Resolve derives a PageRequest from raw query values. Blank, non numeric or
// non positive input falls back to the defaults; page sizes above MaxPageSize
// are clamped. No upper bound is applied to the page number.
func Resolve(rawPage, rawPageSize string) PageRequest {
	page := parsePositive(rawPage)
	if page == 0 {
		page = 1
	}

	size := parsePositive(rawPageSize)
	switch {
	case size == 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}

	return PageRequest{Page: page, PageSize: size}
}

// Offset is the number of rows to skip before the requested page.
func (r PageRequest) Offset() int {
	if r.Page <= 1 || r.PageSize <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.PageSize {
		return math.MaxInt
	}
	return (r.Page - 1) * r.PageSize
}

// Limit is the number of rows in one page.
func (r PageRequest) Limit() int {
	return r.PageSize
}

// parsePositive returns 0 for anything that is not a positive integer.
// Values too large for an int saturate so that they still clamp.
func parsePositive(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	if n <= 0 {
		return 0
	}
	return n
}
