package catalog

// DefaultWindowWidth is the number of page buttons shown by the UI's
// pagination control.
const DefaultWindowWidth = 5

// Page is one visible slice of a filtered, ordered sequence. Indexes are
// 1-based display values; FirstVisible and LastVisible are both 0 when the
// sequence is empty.
type Page[T any] struct {
	Items        []T
	PageIndex    int
	PageSize     int
	TotalItems   int
	TotalPages   int
	FirstVisible int
	LastVisible  int
}

// Paginate slices items for a 1-based pageIndex. The caller is expected to
// clamp pageIndex to [1, TotalPages] beforehand; an out-of-range index
// yields an empty page rather than a panic.
func Paginate[T any](items []T, pageIndex, pageSize int) Page[T] {
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	lo := (pageIndex - 1) * pageSize
	hi := pageIndex * pageSize
	if lo < 0 {
		lo = 0
	}
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}
	if hi < lo {
		hi = lo
	}

	first, last := 0, 0
	if hi > lo {
		first, last = lo+1, hi
	}

	return Page[T]{
		Items:        items[lo:hi],
		PageIndex:    pageIndex,
		PageSize:     pageSize,
		TotalItems:   total,
		TotalPages:   totalPages,
		FirstVisible: first,
		LastVisible:  last,
	}
}

// PageWindow returns a contiguous run of page numbers of at most width,
// centered on current and clamped to [1, totalPages]. At the boundaries the
// window shifts instead of shrinking, so it only narrows when totalPages is
// smaller than width.
func PageWindow(current, totalPages, width int) []int {
	if totalPages < 1 || width < 1 {
		return nil
	}
	start := max(1, current-width/2)
	end := min(totalPages, start+width-1)
	if end-start < width-1 {
		start = max(1, end-width+1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
