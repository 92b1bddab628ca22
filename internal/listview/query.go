// Package listview owns the paginated-list contract: query state with its
// page-reset rules, and a stale-while-revalidate cache keyed by the full
// (resource, page, pageSize, search) tuple.
package listview

// PageSizes are the selectable rows-per-page values, in cycle order.
var PageSizes = []int{5, 10, 25, 50}

// Query is the parameter tuple of a list fetch. Page is 0-based.
type Query struct {
	Page     int
	PageSize int
	Search   string
}

func DefaultQuery() Query {
	return Query{Page: 0, PageSize: PageSizes[0]}
}

// SetPage clamps below at zero. Upper clamping is the caller's concern
// since it depends on the server-side count.
func (q *Query) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	q.Page = page
}

// SetPageSize changes the page size and resets Page to 0. Sizes outside
// PageSizes are ignored.
func (q *Query) SetPageSize(size int) {
	for _, allowed := range PageSizes {
		if size == allowed {
			q.PageSize = size
			q.Page = 0
			return
		}
	}
}

// NextPageSize returns the next size in the cycle, wrapping around.
func (q Query) NextPageSize() int {
	for i, size := range PageSizes {
		if size == q.PageSize {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return PageSizes[0]
}

// SetSearch changes the search text and resets Page to 0.
func (q *Query) SetSearch(text string) {
	q.Search = text
	q.Page = 0
}

// Key binds the query to a resource, forming the cache key.
func (q Query) Key(resource string) Key {
	return Key{Resource: resource, Page: q.Page, PageSize: q.PageSize, Search: q.Search}
}

// TotalPages is ceil(count / pageSize).
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// HasPrev reports whether first/previous navigation is enabled.
func (q Query) HasPrev() bool {
	return q.Page > 0
}

// HasNext reports whether next/last navigation is enabled given the
// server-side row count.
func (q Query) HasNext(count int) bool {
	total := TotalPages(count, q.PageSize)
	return total > 0 && q.Page+1 != total
}
