package table

import (
	"fmt"
	"strings"
)

const (
	defaultPageSize          = 10
	defaultSearchPlaceholder = "Search..."
	defaultEmptyMessage      = "No data found"
)

// Config configures a View. Only Columns is required.
type Config[T any] struct {
	Columns []Column[T]
	// SearchKey extracts the text searched by the query box. nil disables search.
	SearchKey         func(T) string
	SearchPlaceholder string
	PageSize          int
	// RowKey overrides the Keyed / positional fallback.
	RowKey func(T) string
	// RowLink makes rows clickable, navigating to the returned URL.
	RowLink      func(T) string
	EmptyMessage string
}

// View is a table over a record collection plus its query and page cursor.
type View[T any] struct {
	cfg   Config[T]
	data  []T
	query string
	page  int
}

// New builds a View. It panics if two columns share a key.
func New[T any](cfg Config[T], data []T) *View[T] {
	seen := make(map[string]struct{}, len(cfg.Columns))
	for _, c := range cfg.Columns {
		if _, dup := seen[c.Key]; dup {
			panic(fmt.Sprintf("table: duplicate column key %q", c.Key))
		}
		if c.Render == nil {
			panic(fmt.Sprintf("table: column %q has no renderer", c.Key))
		}
		seen[c.Key] = struct{}{}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.SearchPlaceholder == "" {
		cfg.SearchPlaceholder = defaultSearchPlaceholder
	}
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = defaultEmptyMessage
	}
	return &View[T]{cfg: cfg, data: data, page: 1}
}

// SetQuery replaces the search query and returns the cursor to page 1.
func (v *View[T]) SetQuery(q string) {
	v.query = q
	v.page = 1
}

// Query returns the current search query.
func (v *View[T]) Query() string { return v.query }

// SetPage moves the cursor. Values below 1 become 1; values past the end are
// kept and clamped at render time.
func (v *View[T]) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	v.page = p
}

// CurrentPage returns the stored cursor, which may exceed TotalPages.
func (v *View[T]) CurrentPage() int { return v.page }

// SetData swaps the collection without touching the cursor.
func (v *View[T]) SetData(data []T) { v.data = data }

// Next advances one page, stopping at the last.
func (v *View[T]) Next() {
	v.page = clamp(v.page+1, 1, v.TotalPages())
}

// Prev retreats one page, stopping at the first.
func (v *View[T]) Prev() {
	v.page = clamp(v.page-1, 1, v.TotalPages())
}

// TotalPages is ceil(filtered/pageSize), never less than 1.
func (v *View[T]) TotalPages() int {
	return totalPages(len(v.filtered()), v.cfg.PageSize)
}

// Filtered returns the records matching the current query in original order.
func (v *View[T]) Filtered() []T { return v.filtered() }

func (v *View[T]) filtered() []T {
	if v.cfg.SearchKey == nil || v.query == "" {
		return v.data
	}
	needle := strings.ToLower(v.query)
	out := make([]T, 0, len(v.data))
	for _, rec := range v.data {
		if strings.Contains(strings.ToLower(v.cfg.SearchKey(rec)), needle) {
			out = append(out, rec)
		}
	}
	return out
}

func totalPages(n, size int) int {
	if n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Render computes the visible page. It does not modify the View.
func (v *View[T]) Render() Page {
	rows := v.filtered()
	size := v.cfg.PageSize
	total := totalPages(len(rows), size)
	current := clamp(v.page, 1, total)

	start := (current - 1) * size
	end := min(start+size, len(rows))
	slice := rows[start:end]

	page := Page{
		Headers:           make([]Header, 0, len(v.cfg.Columns)),
		Searchable:        v.cfg.SearchKey != nil,
		SearchPlaceholder: v.cfg.SearchPlaceholder,
		Query:             v.query,
		EmptyMessage:      v.cfg.EmptyMessage,
		Empty:             len(slice) == 0,
		Clickable:         v.cfg.RowLink != nil,
		Total:             len(rows),
		Current:           current,
		TotalPages:        total,
		Start:             start + 1,
		End:               end,
		ShowPagination:    total > 1,
		HasPrev:           current > 1,
		HasNext:           current < total,
		PrevPage:          max(current-1, 1),
		NextPage:          min(current+1, total),
	}
	if len(rows) == 0 {
		page.Start = 0
	}
	for _, c := range v.cfg.Columns {
		page.Headers = append(page.Headers, Header{Key: c.Key, Label: c.Header, Class: c.HeaderClass})
	}
	for i, rec := range slice {
		page.Rows = append(page.Rows, v.renderRow(rec, start+i))
	}
	return page
}

func (v *View[T]) renderRow(rec T, index int) Row {
	row := Row{Key: v.rowKey(rec, index), Cells: make([]Cell, 0, len(v.cfg.Columns))}
	if v.cfg.RowLink != nil {
		row.Link = v.cfg.RowLink(rec)
	}
	for _, c := range v.cfg.Columns {
		cell := Cell{Key: c.Key, Text: c.Render(rec), Class: c.HeaderClass}
		if c.Class != nil {
			cell.Class = strings.TrimSpace(cell.Class + " " + c.Class(rec))
		}
		if c.Image != nil {
			cell.Image = c.Image(rec)
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}

func (v *View[T]) rowKey(rec T, index int) string {
	if v.cfg.RowKey != nil {
		if k := v.cfg.RowKey(rec); k != "" {
			return k
		}
	}
	if keyed, ok := any(rec).(Keyed); ok {
		if k := keyed.RecordID(); k != "" {
			return k
		}
	}
	return fmt.Sprintf("row-%d", index+1)
}
