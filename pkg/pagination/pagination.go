package pagination

// PageSizes are the selectable page sizes. The first one is the default.
var PageSizes = []int{20, 50, 100}

type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

type PageInfo struct {
	Page      int  `json:"page"`
	PageSize  int  `json:"page_size"`
	PageCount int  `json:"page_count"`
	Total     int  `json:"total"`
	HasPrev   bool `json:"has_prev"`
	HasNext   bool `json:"has_next"`
}

// NormalizePageSize returns size when it is selectable, the default otherwise.
func NormalizePageSize(size int) int {
	for _, s := range PageSizes {
		if s == size {
			return size
		}
	}
	return PageSizes[0]
}

// PageCount is ceil(total / size).
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Resolve clamps the requested page to [1, page count].
func Resolve(p Pagination, total int) PageInfo {
	size := NormalizePageSize(p.PageSize)
	count := PageCount(total, size)

	page := p.Page
	if page > count {
		page = count
	}
	if page < 1 {
		page = 1
	}

	return PageInfo{
		Page:      page,
		PageSize:  size,
		PageCount: count,
		Total:     total,
		HasPrev:   page > 1,
		HasNext:   page < count,
	}
}

// Bounds returns the half-open index range of the page.
func (p PageInfo) Bounds() (start, end int) {
	start = (p.Page - 1) * p.PageSize
	if start > p.Total {
		start = p.Total
	}
	end = start + p.PageSize
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

// Slice returns the items on the resolved page.
func Slice[T any](items []T, info PageInfo) []T {
	start, end := info.Bounds()
	if start >= len(items) {
		return []T{}
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
