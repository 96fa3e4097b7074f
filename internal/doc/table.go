// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doc

// Table is a grid of cells. Row spans are expressed on the cell that starts
// them; covered positions are simply absent from later rows.
type Table struct {
	Caption []Inline
	// Cols holds relative column widths (fractions of the text width).
	// Zero entries, or a nil slice, mean "share the rest equally".
	Cols []float64
	Head []Row
	Body []Row
	Foot []Row
}

type Row struct {
	Cells []Cell
}

type Cell struct {
	Blocks     []Block
	ColSpan    int
	RowSpan    int
	Align      Align
	Background string
	Header     bool
}

// Rows returns head, body and foot rows in document order.
func (t Table) Rows() []Row {
	rows := make([]Row, 0, len(t.Head)+len(t.Body)+len(t.Foot))
	rows = append(rows, t.Head...)
	rows = append(rows, t.Body...)
	return append(rows, t.Foot...)
}

// Span returns the cell's effective spans (at least 1).
func (c Cell) Span() (cols, rows int) {
	cols, rows = c.ColSpan, c.RowSpan
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}
