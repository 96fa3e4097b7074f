// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hwpx

import (
	"strconv"

	"github.com/beevik/etree"
)

// Cell and table geometry defaults in HWPUNIT.
const (
	CellMarginH   = 510
	CellMarginV   = 141
	TableMargin   = 283
	MinCellHeight = 1000
)

// Table builds an hp:tbl. Cells are added row by row.
type Table struct {
	el   *etree.Element
	rows int
}

// TableSpec describes a table's frame.
type TableSpec struct {
	ID           string
	Rows, Cols   int
	Width        int
	BorderFill   string
	RepeatHeader bool
}

// CellSpec places one cell.
type CellSpec struct {
	Row, Col         int
	RowSpan, ColSpan int
	Width            int
	BorderFill       string
	Header           bool
	VertAlign        string
}

// NewTable starts a table treated as a character of its paragraph.
func NewTable(s TableSpec) *Table {
	t := etree.NewElement("hp:tbl")
	setAttrs(t,
		"id", s.ID,
		"zOrder", "0",
		"numberingType", "TABLE",
		"textWrap", "TOP_AND_BOTTOM",
		"textFlow", "BOTH_SIDES",
		"lock", "0",
		"dropcapstyle", "None",
		"pageBreak", "CELL",
		"repeatHeader", boolAttr(s.RepeatHeader),
		"rowCnt", strconv.Itoa(s.Rows),
		"colCnt", strconv.Itoa(s.Cols),
		"cellSpacing", "0",
		"borderFillIDRef", s.BorderFill,
		"noAdjust", "0",
	)
	setAttrs(t.CreateElement("hp:sz"),
		"width", strconv.Itoa(s.Width),
		"widthRelTo", "ABSOLUTE",
		"height", strconv.Itoa(s.Rows*MinCellHeight),
		"heightRelTo", "ABSOLUTE",
		"protect", "0",
	)
	inlinePos(t.CreateElement("hp:pos"))
	margins(t.CreateElement("hp:outMargin"), TableMargin, TableMargin)
	margins(t.CreateElement("hp:inMargin"), CellMarginH, CellMarginV)
	return &Table{el: t, rows: s.Rows}
}

// Element exposes the hp:tbl.
func (t *Table) Element() *etree.Element { return t.el }

// Row appends an hp:tr.
func (t *Table) Row() *etree.Element {
	return t.el.CreateElement("hp:tr")
}

// Cell appends an hp:tc to row holding paras. An empty paras slice is given
// a single empty paragraph since every cell needs one.
func (t *Table) Cell(row *etree.Element, s CellSpec, paras []*Paragraph, charPr string) {
	tc := row.CreateElement("hp:tc")
	setAttrs(tc,
		"name", "",
		"header", boolAttr(s.Header),
		"hasMargin", "0",
		"protect", "0",
		"editable", "0",
		"dirty", "0",
		"borderFillIDRef", s.BorderFill,
	)
	valign := s.VertAlign
	if valign == "" {
		valign = "CENTER"
	}
	sub := tc.CreateElement("hp:subList")
	setAttrs(sub,
		"id", "",
		"textDirection", "HORIZONTAL",
		"lineWrap", "BREAK",
		"vertAlign", valign,
		"linkListIDRef", "0",
		"linkListNextIDRef", "0",
		"textWidth", "0",
		"textHeight", "0",
		"hasTextRef", "0",
		"hasNumRef", "0",
	)
	if len(paras) == 0 {
		paras = []*Paragraph{NewParagraph("0", "0", charPr)}
	}
	for _, p := range paras {
		p.finish()
		sub.AddChild(p.el)
	}
	setAttrs(tc.CreateElement("hp:cellAddr"),
		"colAddr", strconv.Itoa(s.Col),
		"rowAddr", strconv.Itoa(s.Row),
	)
	setAttrs(tc.CreateElement("hp:cellSpan"),
		"colSpan", strconv.Itoa(max(s.ColSpan, 1)),
		"rowSpan", strconv.Itoa(max(s.RowSpan, 1)),
	)
	setAttrs(tc.CreateElement("hp:cellSz"),
		"width", strconv.Itoa(s.Width),
		"height", strconv.Itoa(MinCellHeight*max(s.RowSpan, 1)),
	)
	margins(tc.CreateElement("hp:cellMargin"), CellMarginH, CellMarginV)
}

// PictureSpec describes an embedded image.
type PictureSpec struct {
	ID         string
	BinaryRef  string // manifest item id
	Width      int    // displayed size, HWPUNIT
	Height     int
	OrigWidth  int // natural size, HWPUNIT
	OrigHeight int
}

// NewPicture builds an hp:pic treated as a character.
func NewPicture(s PictureSpec) *etree.Element {
	if s.OrigWidth <= 0 || s.OrigHeight <= 0 {
		s.OrigWidth, s.OrigHeight = s.Width, s.Height
	}
	w, h := strconv.Itoa(s.Width), strconv.Itoa(s.Height)
	ow, oh := strconv.Itoa(s.OrigWidth), strconv.Itoa(s.OrigHeight)

	pic := etree.NewElement("hp:pic")
	setAttrs(pic,
		"id", s.ID,
		"zOrder", "0",
		"numberingType", "PICTURE",
		"textWrap", "TOP_AND_BOTTOM",
		"textFlow", "BOTH_SIDES",
		"lock", "0",
		"dropcapstyle", "None",
		"href", "",
		"groupLevel", "0",
		"instid", s.ID,
		"reverse", "0",
	)
	setAttrs(pic.CreateElement("hp:offset"), "x", "0", "y", "0")
	setAttrs(pic.CreateElement("hp:orgSz"), "width", ow, "height", oh)
	setAttrs(pic.CreateElement("hp:curSz"), "width", w, "height", h)
	setAttrs(pic.CreateElement("hp:flip"), "horizontal", "0", "vertical", "0")
	setAttrs(pic.CreateElement("hp:rotationInfo"),
		"angle", "0",
		"centerX", strconv.Itoa(s.Width/2),
		"centerY", strconv.Itoa(s.Height/2),
		"rotateimage", "1",
	)
	ri := pic.CreateElement("hp:renderingInfo")
	scaleX := ratio(s.Width, s.OrigWidth)
	scaleY := ratio(s.Height, s.OrigHeight)
	matrix(ri.CreateElement("hc:transMatrix"), "1", "1")
	matrix(ri.CreateElement("hc:scaMatrix"), scaleX, scaleY)
	matrix(ri.CreateElement("hc:rotMatrix"), "1", "1")
	setAttrs(pic.CreateElement("hc:img"),
		"binaryItemIDRef", s.BinaryRef,
		"bright", "0",
		"contrast", "0",
		"effect", "REAL_PIC",
		"alpha", "0",
	)
	rect := pic.CreateElement("hp:imgRect")
	setAttrs(rect.CreateElement("hc:pt0"), "x", "0", "y", "0")
	setAttrs(rect.CreateElement("hc:pt1"), "x", ow, "y", "0")
	setAttrs(rect.CreateElement("hc:pt2"), "x", ow, "y", oh)
	setAttrs(rect.CreateElement("hc:pt3"), "x", "0", "y", oh)
	setAttrs(pic.CreateElement("hp:imgClip"), "left", "0", "right", ow, "top", "0", "bottom", oh)
	margins(pic.CreateElement("hp:inMargin"), 0, 0)
	setAttrs(pic.CreateElement("hp:imgDim"), "dimwidth", ow, "dimheight", oh)
	pic.CreateElement("hp:effects")
	setAttrs(pic.CreateElement("hp:sz"),
		"width", w,
		"widthRelTo", "ABSOLUTE",
		"height", h,
		"heightRelTo", "ABSOLUTE",
		"protect", "0",
	)
	inlinePos(pic.CreateElement("hp:pos"))
	margins(pic.CreateElement("hp:outMargin"), 0, 0)
	return pic
}

func inlinePos(e *etree.Element) {
	setAttrs(e,
		"treatAsChar", "1",
		"affectLSpacing", "0",
		"flowWithText", "1",
		"allowOverlap", "0",
		"holdAnchorAndSO", "0",
		"vertRelTo", "PARA",
		"horzRelTo", "COLUMN",
		"vertAlign", "TOP",
		"horzAlign", "LEFT",
		"vertOffset", "0",
		"horzOffset", "0",
	)
}

func margins(e *etree.Element, h, v int) {
	hs, vs := strconv.Itoa(h), strconv.Itoa(v)
	setAttrs(e, "left", hs, "right", hs, "top", vs, "bottom", vs)
}

func matrix(e *etree.Element, sx, sy string) {
	setAttrs(e, "e1", sx, "e2", "0", "e3", "0", "e4", "0", "e5", sy, "e6", "0")
}

func ratio(a, b int) string {
	if b <= 0 || a == b {
		return "1"
	}
	return strconv.FormatFloat(float64(a)/float64(b), 'f', 6, 64)
}

func setAttrs(e *etree.Element, kv ...string) {
	for i := 0; i+1 < len(kv); i += 2 {
		e.CreateAttr(kv[i], kv[i+1])
	}
}

func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
