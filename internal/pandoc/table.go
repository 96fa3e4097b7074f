// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import (
	"encoding/json"

	"github.com/pdiddy/hwpx-convert/internal/doc"
)

// decodeTable reads the pandoc ≥ 2.10 table encoding:
// [attr, caption, colspecs, head, bodies, foot].
func decodeTable(raw json.RawMessage) (doc.Table, error) {
	var (
		t        doc.Table
		a        attr
		caption  []json.RawMessage
		colspecs [][2]node
		head     []json.RawMessage
		bodies   [][]json.RawMessage
		foot     []json.RawMessage
	)
	if err := args(raw, &a, &caption, &colspecs, &head, &bodies, &foot); err != nil {
		return t, err
	}

	if len(caption) > 1 {
		cbs, err := decodeBlocksRaw(caption[1])
		if err != nil {
			return t, err
		}
		for _, b := range cbs {
			if p, ok := b.(doc.Paragraph); ok {
				t.Caption = append(t.Caption, p.Inlines...)
			}
		}
	}

	aligns := make([]doc.Align, len(colspecs))
	widths := make([]float64, len(colspecs))
	anyWidth := false
	for i, cs := range colspecs {
		aligns[i] = alignment(cs[0].T)
		if cs[1].T == "ColWidth" {
			if err := json.Unmarshal(cs[1].C, &widths[i]); err != nil {
				return t, err
			}
			anyWidth = true
		}
	}
	if anyWidth {
		t.Cols = widths
	}

	var err error
	if t.Head, err = decodeSection(head, aligns, true); err != nil {
		return t, err
	}
	for _, b := range bodies {
		// [attr, rowHeadColumns, intermediateHead, rows]
		if len(b) < 4 {
			continue
		}
		inter, err := decodeRows(b[2], aligns, true)
		if err != nil {
			return t, err
		}
		rows, err := decodeRows(b[3], aligns, false)
		if err != nil {
			return t, err
		}
		t.Body = append(t.Body, inter...)
		t.Body = append(t.Body, rows...)
	}
	if t.Foot, err = decodeSection(foot, aligns, false); err != nil {
		return t, err
	}
	return t, nil
}

// decodeSection reads a [attr, rows] table head or foot.
func decodeSection(raw []json.RawMessage, aligns []doc.Align, header bool) ([]doc.Row, error) {
	if len(raw) < 2 {
		return nil, nil
	}
	return decodeRows(raw[1], aligns, header)
}

func decodeRows(raw json.RawMessage, aligns []doc.Align, header bool) ([]doc.Row, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	out := make([]doc.Row, 0, len(rows))
	for _, r := range rows {
		if len(r) < 2 {
			continue
		}
		var cells [][]json.RawMessage
		if err := json.Unmarshal(r[1], &cells); err != nil {
			return nil, err
		}
		var row doc.Row
		col := 0
		for _, c := range cells {
			cell, err := decodeCell(c, header)
			if err != nil {
				return nil, err
			}
			if cell.Align == doc.AlignDefault && col < len(aligns) {
				cell.Align = aligns[col]
			}
			col += cell.ColSpan
			row.Cells = append(row.Cells, cell)
		}
		out = append(out, row)
	}
	return out, nil
}

// decodeCell reads [attr, alignment, rowspan, colspan, blocks].
func decodeCell(parts []json.RawMessage, header bool) (doc.Cell, error) {
	cell := doc.Cell{ColSpan: 1, RowSpan: 1, Header: header}
	if len(parts) < 5 {
		return cell, nil
	}
	var (
		a     attr
		align node
	)
	if err := json.Unmarshal(parts[0], &a); err != nil {
		return cell, err
	}
	if err := json.Unmarshal(parts[1], &align); err != nil {
		return cell, err
	}
	if err := json.Unmarshal(parts[2], &cell.RowSpan); err != nil {
		return cell, err
	}
	if err := json.Unmarshal(parts[3], &cell.ColSpan); err != nil {
		return cell, err
	}
	bs, err := decodeBlocksRaw(parts[4])
	if err != nil {
		return cell, err
	}
	cell.Blocks = bs
	cell.Align = alignment(align.T)
	cell.Background = a.style().Background
	if cell.ColSpan < 1 {
		cell.ColSpan = 1
	}
	if cell.RowSpan < 1 {
		cell.RowSpan = 1
	}
	return cell, nil
}

func alignment(t string) doc.Align {
	switch t {
	case "AlignLeft":
		return doc.AlignLeft
	case "AlignRight":
		return doc.AlignRight
	case "AlignCenter":
		return doc.AlignCenter
	}
	return doc.AlignDefault
}
