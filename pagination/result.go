package pagination

// PageResult is one page of items plus the totals needed to navigate the
// rest of the set.
type PageResult[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	TotalCount  int
	PageSize    int
}

// Meta is the transport projection of a PageResult.
type Meta struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
}

// NewPageResult assembles a PageResult for req. totalCount is the size of
// the whole filtered set, not of items.
func NewPageResult[T any](items []T, req PageRequest, totalCount int) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Items:       items,
		CurrentPage: req.Page,
		TotalPages:  TotalPages(totalCount, req.PageSize),
		TotalCount:  totalCount,
		PageSize:    req.PageSize,
	}
}

// TotalPages returns ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Meta reads the pagination fields of r without recomputing anything.
func (r PageResult[T]) Meta() Meta {
	return Meta{
		CurrentPage: r.CurrentPage,
		TotalPages:  r.TotalPages,
		TotalCount:  r.TotalCount,
		PageSize:    r.PageSize,
	}
}

// MetaFor builds the metadata for a request without materialising items.
func MetaFor(req PageRequest, totalCount int) Meta {
	return NewPageResult[struct{}](nil, req, totalCount).Meta()
}
