// internal/pagination/pagination.go
//
// Page-window math for list views.
//
// Context
// -------
// Controllers build a Pagination from the ?page= query value and the
// configured per-page size, pass Offset/Limit to the model option, then
// feed the total row count back via SetTotalItems.  Templates consume
// PageNumbers, HasPrev, and HasNext to draw the pager.
//
// Notes
// -----
//   • Page numbers are 1-based.  Anything below 1 clamps to 1.
//   • Oxford commas, two spaces after periods.
package pagination

// Pagination computes offsets and the link window for one list view.
type Pagination struct {
	page       int
	perPage    int
	totalItems int
	window     int // links on each side of the current page
}

// New returns a Pagination for the given 1-based page and page size.
func New(page, perPage int) *Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return &Pagination{page: page, perPage: perPage, window: 2}
}

// SetTotalItems records the unpaged row count.  Call after a COUNT query.
func (p *Pagination) SetTotalItems(n int) {
	if n < 0 {
		n = 0
	}
	p.totalItems = n
	// Clamp the current page into range once the total is known.
	if last := p.TotalPages(); p.page > last {
		p.page = last
	}
	if p.page < 1 {
		p.page = 1
	}
}

// CurrentPage returns the clamped 1-based page number.
func (p *Pagination) CurrentPage() int { return p.page }

// PerPage returns the page size.
func (p *Pagination) PerPage() int { return p.perPage }

// TotalItems returns the recorded row count.
func (p *Pagination) TotalItems() int { return p.totalItems }

// TotalPages returns the number of pages, at least 1.
func (p *Pagination) TotalPages() int {
	n := (p.totalItems + p.perPage - 1) / p.perPage
	if n < 1 {
		n = 1
	}
	return n
}

// Offset returns the row offset for the current page.
func (p *Pagination) Offset() int { return (p.page - 1) * p.perPage }

// Limit returns the page size, aliased for query builders.
func (p *Pagination) Limit() int { return p.perPage }

// HasPrev reports whether a previous page exists.
func (p *Pagination) HasPrev() bool { return p.page > 1 }

// HasNext reports whether a next page exists.
func (p *Pagination) HasNext() bool { return p.page < p.TotalPages() }

// PageNumbers returns the link window around the current page, e.g.
// [3 4 5 6 7] for page 5 with the default window of 2.
func (p *Pagination) PageNumbers() []int {
	first := p.page - p.window
	if first < 1 {
		first = 1
	}
	last := p.page + p.window
	if max := p.TotalPages(); last > max {
		last = max
	}
	nums := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		nums = append(nums, i)
	}
	return nums
}
