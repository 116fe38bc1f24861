package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params carries a forward cursor (the id of the last item of the previous
// page, 0 for the first page) and a page size.
type Params struct {
	Cursor uint
	Limit  int
}

// Clamp normalizes the limit into [1, MaxLimit], applying the default when
// unset.
func (p Params) Clamp() Params {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Page is a single page of results. NextCursor is the id of the last returned
// item and is only meaningful when HasMore is true.
type Page[T any] struct {
	Items      []T  `json:"items"`
	HasMore    bool `json:"hasMore"`
	NextCursor uint `json:"nextCursor,omitempty"`
}

// Slice turns a limit+1 fetch into a page: callers over-fetch one row, and
// the extra row (if present) signals another page.
func Slice[T any](rows []T, limit int, id func(T) uint) Page[T] {
	page := Page[T]{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		page.HasMore = true
	}
	if len(page.Items) > 0 {
		page.NextCursor = id(page.Items[len(page.Items)-1])
	}
	return page
}
