// internal/app/system/paging/paging.go
package paging

// DefaultPageSize is used when a request supplies no page size.
const DefaultPageSize = 20

// MaxPageSize caps the page size accepted from callers.
const MaxPageSize = 100

// Clamp normalizes a 1-based page number and page size. Page numbers below
// 1 become 1; page sizes outside [1, MaxPageSize] become the default or the
// cap respectively.
func Clamp(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Offset converts a clamped 1-based page to a skip count.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// Page is one page of results plus the totals callers need to paginate.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	HasMore    bool  `json:"hasMore"`
}

// NewPage assembles a Page, deriving HasMore from the totals.
func NewPage[T any](items []T, total int64, page, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		HasMore:    HasMore(page, pageSize, total),
	}
}

// HasMore reports whether pages beyond the given one exist.
func HasMore(page, pageSize int, total int64) bool {
	return int64(page)*int64(pageSize) < total
}
