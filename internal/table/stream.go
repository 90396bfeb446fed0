package table

// StreamPager fills a table from a row-by-row stream without a separate count query.
// Every row seen is counted; only rows inside the page window are kept.
type StreamPager[R any] struct {
	table      *PagedTable[R]
	pageSize   int
	offset     int
	skipped    int
	considered int
}

// NewStreamPager creates a pager for the given page. skipped is the number of rows the
// source already skipped before the first streamed row, e.g. an OFFSET pushed down into
// the query; pass 0 when the stream starts at the first row.
func NewStreamPager[R any](page, pageSize, skipped int) *StreamPager[R] {
	t := New[R](page)
	return &StreamPager[R]{
		table:    t,
		pageSize: pageSize,
		offset:   Offset(t.current, pageSize),
		skipped:  skipped,
	}
}

// Offset returns the number of rows preceding the page
func (p *StreamPager[R]) Offset() int {
	return p.offset
}

// Accept counts one streamed row and reports whether it falls inside the page window.
// Callers map the row only when it does.
func (p *StreamPager[R]) Accept() bool {
	position := p.skipped + p.considered
	p.considered++
	return position >= p.offset && position < p.offset+p.pageSize
}

// Add appends a row accepted by Accept
func (p *StreamPager[R]) Add(row R) {
	p.table.AddRow(row)
}

// Considered returns the number of rows seen regardless of page membership
func (p *StreamPager[R]) Considered() int {
	return p.considered
}

// Table finalizes the table with total = skipped + considered
func (p *StreamPager[R]) Table() *PagedTable[R] {
	p.table.SetTotal(p.skipped + p.considered)
	return p.table
}
