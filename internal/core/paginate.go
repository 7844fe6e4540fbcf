package core

// PageSize is the fixed page size every view uses.
const PageSize = 10

// Page is one visible slice of a filtered collection plus the metadata the
// pagination controls need.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Number     int  `json:"number"` // 1-indexed, clamped
	TotalPages int  `json:"totalPages"`
	TotalItems int  `json:"totalItems"`
	Start      int  `json:"start"` // 1-based index of the first item on the page, 0 when empty
	End        int  `json:"end"`   // 1-based index of the last item on the page, 0 when empty
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

// ControlsVisible reports whether pagination controls should be shown at all.
// A single page (or none) suppresses them entirely.
func (p Page[T]) ControlsVisible() bool {
	return p.TotalPages > 1
}

// Paginate slices items into the requested page. The requested page is
// clamped to [1, totalPages]; an empty collection yields page 1 of 0 with no
// items.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	if pageSize < 1 {
		pageSize = PageSize
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	lo := (page - 1) * pageSize
	hi := lo + pageSize
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	p := Page[T]{
		Items:      items[lo:hi],
		Number:     page,
		TotalPages: totalPages,
		TotalItems: total,
		HasPrev:    page > 1,
		HasNext:    totalPages > 0 && page < totalPages,
	}
	if total > 0 {
		p.Start = lo + 1
		p.End = hi
	}
	return p
}

// Navigate returns the new current page for a navigation request. Requests
// outside [1, totalPages] are silently ignored and leave the page unchanged.
func Navigate(current, totalPages, to int) int {
	if to < 1 || to > totalPages {
		return current
	}
	return to
}
