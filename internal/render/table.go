// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"sort"

	"github.com/pdiddy/hwpx-convert/internal/doc"
	"github.com/pdiddy/hwpx-convert/internal/hwpx"
)

// placed is a cell positioned on the table grid.
type placed struct {
	cell       doc.Cell
	row, col   int
	rows, cols int
	filler     bool
}

// layout positions cells on a grid, skipping positions covered by earlier
// row spans. Spans are clipped to the table, and positions no cell covers
// are filled with empty cells so that every row is complete.
func layout(rows []doc.Row, minCols int) ([][]placed, int) {
	nrows := len(rows)
	taken := make([]map[int]bool, nrows)
	for i := range taken {
		taken[i] = map[int]bool{}
	}
	grid := make([][]placed, nrows)
	ncols := minCols
	for ri, row := range rows {
		col := 0
		for _, c := range row.Cells {
			for taken[ri][col] {
				col++
			}
			cs, rs := c.Span()
			rs = min(rs, nrows-ri)
			for dr := 0; dr < rs; dr++ {
				for dc := 0; dc < cs; dc++ {
					taken[ri+dr][col+dc] = true
				}
			}
			grid[ri] = append(grid[ri], placed{cell: c, row: ri, col: col, rows: rs, cols: cs})
			col += cs
			ncols = max(ncols, col)
		}
	}
	for ri := range grid {
		for col := 0; col < ncols; col++ {
			if !taken[ri][col] {
				grid[ri] = append(grid[ri], placed{row: ri, col: col, rows: 1, cols: 1, filler: true})
			}
		}
		sort.Slice(grid[ri], func(a, b int) bool { return grid[ri][a].col < grid[ri][b].col })
	}
	// A span reaching past the last column is clipped.
	for ri := range grid {
		for i := range grid[ri] {
			c := &grid[ri][i]
			c.cols = min(c.cols, ncols-c.col)
		}
	}
	return grid, ncols
}

// columnWidths splits total across n columns. Positive fractions are
// honoured, the rest share what is left equally, and the last column takes
// the rounding remainder.
func columnWidths(fractions []float64, n, total int) []int {
	if n == 0 {
		return nil
	}
	var fixed float64
	free := 0
	for i := 0; i < n; i++ {
		if i < len(fractions) && fractions[i] > 0 {
			fixed += fractions[i]
		} else {
			free++
		}
	}
	share := 0.0
	scale := 1.0
	switch {
	case free > 0 && fixed < 1:
		share = (1 - fixed) / float64(free)
	case free > 0:
		// Fractions already fill the row: give free columns an equal
		// share and scale everything down.
		share = fixed / float64(n-free)
		scale = 1 / (fixed + share*float64(free))
	case fixed > 0:
		scale = 1 / fixed
	}

	widths := make([]int, n)
	used := 0
	for i := 0; i < n; i++ {
		f := share
		if i < len(fractions) && fractions[i] > 0 {
			f = fractions[i]
		}
		widths[i] = int(f * scale * float64(total))
		used += widths[i]
	}
	widths[n-1] += total - used
	return widths
}

func (r *renderer) table(sc scope, t doc.Table) []*hwpx.Paragraph {
	rows := t.Rows()
	if len(rows) == 0 {
		return nil
	}
	grid, ncols := layout(rows, len(t.Cols))
	if ncols == 0 {
		return nil
	}
	width := sc.width - sc.indent
	widths := columnWidths(t.Cols, ncols, width)

	tbl := hwpx.NewTable(hwpx.TableSpec{
		ID:           r.sec.NextID(),
		Rows:         len(rows),
		Cols:         ncols,
		Width:        width,
		BorderFill:   r.h.BorderFill(true, ""),
		RepeatHeader: len(t.Head) > 0,
	})
	normal := r.h.Normal()
	for ri, row := range grid {
		tr := tbl.Row()
		for _, c := range row {
			w := 0
			for i := c.col; i < c.col+c.cols; i++ {
				w += widths[i]
			}
			header := ri < len(t.Head) || c.cell.Header
			cs := scope{
				paraPr: normal.ParaPr,
				style:  normal.ID,
				charPr: normal.CharPr,
				width:  max(w-2*hwpx.CellMarginH, 1),
				align:  c.cell.Align,
			}
			if header {
				cs.format = hwpx.Bold
			}
			var paras []*hwpx.Paragraph
			if !c.filler {
				paras = r.blocks(cs, c.cell.Blocks)
			}
			tbl.Cell(tr, hwpx.CellSpec{
				Row:        c.row,
				Col:        c.col,
				RowSpan:    c.rows,
				ColSpan:    c.cols,
				Width:      w,
				BorderFill: r.h.BorderFill(true, c.cell.Background),
				Header:     header,
			}, paras, normal.CharPr)
		}
	}
	r.stats.Tables++

	var out []*hwpx.Paragraph
	if !doc.IsBlank(t.Caption) {
		cp := r.para(sc, hwpx.ParaStyle{Align: string(doc.AlignCenter)})
		r.inlines(cp, sc, r.chars(sc), t.Caption)
		out = append(out, cp)
	}
	p := r.para(sc, hwpx.ParaStyle{})
	p.Object(r.charPr(r.chars(sc)), tbl.Element())
	return append(out, p)
}
