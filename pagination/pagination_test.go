package pagination

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		pageSize string
		want     PageRequest
	}{
		{name: "blank input", want: PageRequest{Page: 1, PageSize: 10}},
		{name: "zero page negative size", page: "0", pageSize: "-5", want: PageRequest{Page: 1, PageSize: 10}},
		{name: "size above max", page: "2", pageSize: "500", want: PageRequest{Page: 2, PageSize: 100}},
		{name: "non numeric size", page: "3", pageSize: "abc", want: PageRequest{Page: 3, PageSize: 10}},
		{name: "non numeric page", page: "abc", pageSize: "25", want: PageRequest{Page: 1, PageSize: 25}},
		{name: "zero size", pageSize: "0", want: PageRequest{Page: 1, PageSize: 10}},
		{name: "exact max", pageSize: "100", want: PageRequest{Page: 1, PageSize: 100}},
		{name: "surrounding whitespace", page: " 4 ", pageSize: " 7", want: PageRequest{Page: 4, PageSize: 7}},
		{name: "huge page kept", page: "99999", pageSize: "1", want: PageRequest{Page: 99999, PageSize: 1}},
		{name: "overflowing size clamps", pageSize: "99999999999999999999999", want: PageRequest{Page: 1, PageSize: 100}},
		{name: "overflowing negative size", pageSize: "-99999999999999999999999", want: PageRequest{Page: 1, PageSize: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.page, tt.pageSize); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %+v, want %+v", tt.page, tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	req := PageRequest{Page: 3, PageSize: 20}
	if got := req.Offset(); got != 40 {
		t.Errorf("Offset() = %d, want 40", got)
	}
	if got := req.Limit(); got != 20 {
		t.Errorf("Limit() = %d, want 20", got)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{250, 100, 3},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestNewPageResultMeta(t *testing.T) {
	req := PageRequest{Page: 2, PageSize: 2}
	res := NewPageResult([]string{"c", "d"}, req, 5)

	want := Meta{CurrentPage: 2, TotalPages: 3, TotalCount: 5, PageSize: 2}
	if got := res.Meta(); got != want {
		t.Errorf("Meta() = %+v, want %+v", got, want)
	}
	if len(res.Items) > res.PageSize {
		t.Errorf("items %d exceed page size %d", len(res.Items), res.PageSize)
	}
	if got := MetaFor(req, 5); got != want {
		t.Errorf("MetaFor() = %+v, want %+v", got, want)
	}
}

func TestNewPageResultOutOfRange(t *testing.T) {
	res := NewPageResult[int](nil, PageRequest{Page: 9, PageSize: 10}, 3)
	if res.Items == nil || len(res.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", res.Items)
	}
	if res.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", res.TotalPages)
	}
}
