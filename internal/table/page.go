package table

import "fmt"

// Header is a rendered column heading.
type Header struct {
	Key   string
	Label string
	Class string
}

// Cell is one rendered table cell.
type Cell struct {
	Key   string
	Text  string
	Class string
	Image string
}

// Row is one rendered record.
type Row struct {
	Key   string
	Link  string
	Cells []Cell
}

// Page is the output of View.Render, ready for a template.
type Page struct {
	Headers []Header
	Rows    []Row

	Searchable        bool
	SearchPlaceholder string
	Query             string

	Empty        bool
	EmptyMessage string
	Clickable    bool

	Total      int
	Current    int
	TotalPages int
	// Start and End are 1-based inclusive positions within the filtered set.
	Start int
	End   int

	ShowPagination bool
	HasPrev        bool
	HasNext        bool
	PrevPage       int
	NextPage       int
}

// Summary is the footer text, e.g. "Showing 11 to 20 of 25 results".
func (p Page) Summary() string {
	return fmt.Sprintf("Showing %d to %d of %d results", p.Start, p.End, p.Total)
}

// Indicator is the compact page position, e.g. "2 / 3".
func (p Page) Indicator() string {
	return fmt.Sprintf("%d / %d", p.Current, p.TotalPages)
}

// ColumnCount is the colspan for the empty-state row.
func (p Page) ColumnCount() int { return len(p.Headers) }
