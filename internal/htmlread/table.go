// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package htmlread

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/hwpx-convert/internal/css"
	"github.com/pdiddy/hwpx-convert/internal/doc"
)

func table(n *html.Node, ctx context) doc.Table {
	var (
		t      doc.Table
		widths []string
	)
	fill := cellFill(n, "")
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Caption:
			t.Caption = doc.Trim(childInlines(c))
		case atom.Colgroup:
			widths = append(widths, colWidths(c)...)
		case atom.Col:
			widths = append(widths, width(c))
		case atom.Thead:
			t.Head = append(t.Head, rows(c, ctx.with(c), true, fill)...)
		case atom.Tbody:
			t.Body = append(t.Body, rows(c, ctx.with(c), false, fill)...)
		case atom.Tfoot:
			t.Foot = append(t.Foot, rows(c, ctx.with(c), false, fill)...)
		case atom.Tr:
			t.Body = append(t.Body, row(c, ctx, false, fill))
		}
	}

	// Pages exported without <thead> mark header rows with <th> only.
	if len(t.Head) == 0 && len(t.Body) > 1 && allHeader(t.Body[0]) {
		t.Head, t.Body = t.Body[:1], t.Body[1:]
	}

	if len(widths) == 0 {
		widths = firstRowWidths(n)
	}
	t.Cols = relativeWidths(widths)
	return t
}

func rows(group *html.Node, ctx context, header bool, fill string) []doc.Row {
	fill = cellFill(group, fill)
	var out []doc.Row
	for c := group.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Tr {
			out = append(out, row(c, ctx, header, fill))
		}
	}
	return out
}

func row(tr *html.Node, parent context, header bool, fill string) doc.Row {
	ctx := parent.with(tr)
	fill = cellFill(tr, fill)
	var r doc.Row
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		cctx := ctx.with(c)
		cell := doc.Cell{
			ColSpan:    span(attr(c, "colspan")),
			RowSpan:    span(attr(c, "rowspan")),
			Align:      cctx.align,
			Background: cellFill(c, fill),
			Header:     header || c.DataAtom == atom.Th,
		}
		cctx.align = doc.AlignDefault
		cell.Blocks = blocks(c, cctx)
		r.Cells = append(r.Cells, cell)
	}
	return r
}

func allHeader(r doc.Row) bool {
	if len(r.Cells) == 0 {
		return false
	}
	for _, c := range r.Cells {
		if !c.Header {
			return false
		}
	}
	return true
}

// cellFill returns the background of n, or inherited when n has none.
func cellFill(n *html.Node, inherited string) string {
	s := css.Parse(attr(n, "style"))
	if s.Background != "" {
		return s.Background
	}
	if c, ok := css.Color(attr(n, "bgcolor")); ok {
		return c
	}
	return inherited
}

func span(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	// Browsers cap spans at these values; anything larger is malformed input.
	if n > 1000 {
		return 1000
	}
	return n
}

func width(n *html.Node) string {
	if w := inlineDimensions(attr(n, "style"))["width"]; w != "" {
		return w
	}
	return attr(n, "width")
}

func colWidths(group *html.Node) []string {
	var out []string
	for c := group.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Col {
			w := width(c)
			for i := span(attr(c, "span")); i > 0; i-- {
				out = append(out, w)
			}
		}
	}
	if len(out) == 0 {
		for i := span(attr(group, "span")); i > 0; i-- {
			out = append(out, width(group))
		}
	}
	return out
}

func firstRowWidths(tbl *html.Node) []string {
	tr := find(tbl, atom.Tr)
	if tr == nil {
		return nil
	}
	var out []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		// A spanning cell's width says nothing about individual columns.
		if span(attr(c, "colspan")) > 1 {
			return nil
		}
		out = append(out, width(c))
	}
	return out
}

// relativeWidths turns width attributes into fractions. Percentages are used
// as-is; absolute lengths are normalised against their sum. Mixed or missing
// values give nil, leaving the renderer to share the width equally.
func relativeWidths(ws []string) []float64 {
	if len(ws) == 0 {
		return nil
	}
	out := make([]float64, len(ws))
	allPct, allAbs := true, true
	var sum float64
	for i, w := range ws {
		if p, ok := css.Percent(w); ok {
			out[i] = p
			allAbs = false
			continue
		}
		allPct = false
		if l, ok := css.Length(w); ok && l > 0 {
			out[i] = float64(l)
			sum += float64(l)
			continue
		}
		allAbs = false
	}
	switch {
	case allPct:
		return out
	case allAbs && sum > 0:
		for i := range out {
			out[i] /= sum
		}
		return out
	}
	return nil
}
