// Package table provides paged, counted result tables.
package table

// PagedTable holds the rows of the current page together with the total row count
type PagedTable[R any] struct {
	current  int
	rows     []R
	rowCount int
	total    int
	totalSet bool
}

// New creates an empty table for the given 1-based page
func New[R any](current int) *PagedTable[R] {
	if current < 1 {
		current = 1
	}
	return &PagedTable[R]{current: current, rows: make([]R, 0)}
}

// Current returns the 1-based page number
func (t *PagedTable[R]) Current() int {
	return t.current
}

// Rows returns the rows of the current page
func (t *PagedTable[R]) Rows() []R {
	return t.rows
}

// RowCount returns the number of rows added to the page
func (t *PagedTable[R]) RowCount() int {
	return t.rowCount
}

// AddRow appends a row to the page
func (t *PagedTable[R]) AddRow(row R) {
	t.rows = append(t.rows, row)
	t.rowCount++
}

// AddRows appends rows to the page
func (t *PagedTable[R]) AddRows(rows []R) {
	t.rows = append(t.rows, rows...)
	t.rowCount += len(rows)
}

// SetTotal overrides the reported total, e.g. with the result of a separate count
func (t *PagedTable[R]) SetTotal(total int) {
	t.total = total
	t.totalSet = true
}

// Total returns the overridden total if set, else the number of rows added
func (t *PagedTable[R]) Total() int {
	if t.totalSet {
		return t.total
	}
	return t.rowCount
}

// Offset returns the number of rows preceding the page
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// Slice pages an already sorted slice and sets the total to its length
func Slice[R any](rows []R, page, pageSize int) *PagedTable[R] {
	t := New[R](page)
	if pageSize < 1 {
		pageSize = len(rows)
	}
	offset := Offset(t.current, pageSize)
	if offset < len(rows) {
		end := min(offset+pageSize, len(rows))
		t.AddRows(rows[offset:end])
	}
	t.SetTotal(len(rows))
	return t
}
