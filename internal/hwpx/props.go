// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hwpx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// CharStyle describes how a derived hh:charPr differs from its base.
type CharStyle struct {
	Color  string // text colour, #RRGGBB
	Shade  string // background colour, #RRGGBB
	Height int    // HWPUNIT, 0 keeps the base size
	Face   string // font face, "" keeps the base font
	Set    Format
	Clear  Format
}

// IsZero reports whether s leaves its base unchanged.
func (s CharStyle) IsZero() bool { return s == CharStyle{} }

// charChildOrder is the schema order of hh:charPr children.
var charChildOrder = []string{
	"fontRef", "ratio", "spacing", "relSz", "offset", "italic", "bold",
	"underline", "strikeout", "outline", "shadow", "emboss", "engrave",
	"supscript", "subscript",
}

var fontLangs = []struct{ lang, attr string }{
	{"HANGUL", "hangul"},
	{"LATIN", "latin"},
	{"HANJA", "hanja"},
	{"JAPANESE", "japanese"},
	{"OTHER", "other"},
	{"SYMBOL", "symbol"},
	{"USER", "user"},
}

// CharPr returns the id of a character property derived from base. When
// base does not exist the base id is returned unchanged.
func (h *Header) CharPr(base string, s CharStyle) string {
	if s.IsZero() {
		return base
	}
	key := charKey{base, s}
	if id, ok := h.chars[key]; ok {
		return id
	}
	src := h.item("charProperties", "charPr", base)
	if src == nil {
		return base
	}
	c := h.container("charProperties")
	e := src.Copy()
	id := nextID(c, 0)
	e.CreateAttr("id", id)

	if s.Color != "" {
		e.CreateAttr("textColor", s.Color)
	}
	if s.Shade != "" {
		e.CreateAttr("shadeColor", s.Shade)
	}
	if s.Height > 0 {
		e.CreateAttr("height", strconv.Itoa(s.Height))
	}
	if s.Face != "" {
		if ids := h.Font(s.Face); ids != nil {
			ref := orderedChild(e, "fontRef")
			for _, l := range fontLangs {
				if v, ok := ids[l.attr]; ok {
					ref.CreateAttr(l.attr, v)
				}
			}
		}
	}
	applyFormats(e, s.Set, s.Clear)

	c.AddChild(e)
	h.chars[key] = id
	return id
}

func applyFormats(e *etree.Element, set, clear Format) {
	toggle := func(f Format, tag string) {
		switch {
		case set.Has(f):
			orderedChild(e, tag)
		case clear.Has(f):
			removeChild(e, "hh:"+tag)
		}
	}
	toggle(Bold, "bold")
	toggle(Italic, "italic")

	switch {
	case set.Has(Underline):
		u := orderedChild(e, "underline")
		u.CreateAttr("type", "BOTTOM")
		if u.SelectAttrValue("shape", "NONE") == "NONE" {
			u.CreateAttr("shape", "SOLID")
		}
		if u.SelectAttr("color") == nil {
			u.CreateAttr("color", "#000000")
		}
	case clear.Has(Underline):
		if u := e.SelectElement("hh:underline"); u != nil {
			u.CreateAttr("type", "NONE")
		}
	}

	switch {
	case set.Has(Strikeout):
		s := orderedChild(e, "strikeout")
		s.CreateAttr("shape", "SOLID")
		if s.SelectAttr("color") == nil {
			s.CreateAttr("color", "#000000")
		}
	case clear.Has(Strikeout):
		if s := e.SelectElement("hh:strikeout"); s != nil {
			s.CreateAttr("shape", "NONE")
		}
	}

	switch {
	case set.Has(Superscript):
		removeChild(e, "hh:subscript")
		orderedChild(e, "supscript")
	case set.Has(Subscript):
		removeChild(e, "hh:supscript")
		orderedChild(e, "subscript")
	}
	if clear.Has(Superscript) && !set.Has(Superscript) {
		removeChild(e, "hh:supscript")
	}
	if clear.Has(Subscript) && !set.Has(Subscript) {
		removeChild(e, "hh:subscript")
	}
}

// orderedChild returns the hh:<tag> child of a charPr, inserting it at its
// schema position when absent.
func orderedChild(e *etree.Element, tag string) *etree.Element {
	if c := e.SelectElement("hh:" + tag); c != nil {
		return c
	}
	rank := func(t string) int {
		for i, name := range charChildOrder {
			if name == t {
				return i
			}
		}
		return len(charChildOrder)
	}
	want := rank(tag)
	c := etree.NewElement("hh:" + tag)
	for _, sib := range e.ChildElements() {
		if rank(sib.Tag) > want {
			e.InsertChildAt(sib.Index(), c)
			return c
		}
	}
	e.AddChild(c)
	return c
}

func removeChild(e *etree.Element, tag string) {
	for _, c := range e.SelectElements(tag) {
		e.RemoveChild(c)
	}
}

// Font returns the per-language font ids for face, registering the face in
// every hh:fontface that lacks it. The map is keyed by hh:fontRef attribute
// name. It is nil when the template has no font tables.
func (h *Header) Font(face string) map[string]string {
	if ids, ok := h.fonts[face]; ok {
		return ids
	}
	faces := h.root.FindElements(".//hh:fontfaces/hh:fontface")
	if len(faces) == 0 {
		return nil
	}
	ids := map[string]string{}
	for _, ff := range faces {
		attr := ""
		lang := ff.SelectAttrValue("lang", "")
		for _, l := range fontLangs {
			if l.lang == lang {
				attr = l.attr
			}
		}
		if attr == "" {
			continue
		}
		var found *etree.Element
		for _, f := range ff.SelectElements("hh:font") {
			if f.SelectAttrValue("face", "") == face {
				found = f
				break
			}
		}
		if found == nil {
			found = ff.CreateElement("hh:font")
			found.CreateAttr("id", nextID(ff, 0))
			found.CreateAttr("face", face)
			found.CreateAttr("type", "TTF")
			found.CreateAttr("isEmbedded", "0")
			ff.CreateAttr("fontCnt", strconv.Itoa(len(ff.SelectElements("hh:font"))))
		}
		ids[attr] = found.SelectAttrValue("id", "0")
	}
	h.fonts[face] = ids
	return ids
}

// CharHeight returns the height of charPr id in HWPUNIT, 10pt when the
// template does not say.
func (h *Header) CharHeight(id string) int {
	if e := h.item("charProperties", "charPr", id); e != nil {
		return atoi(e.SelectAttrValue("height", ""), 10*UnitsPerPoint)
	}
	return 10 * UnitsPerPoint
}

// ParaStyle describes how a derived hh:paraPr differs from its base.
type ParaStyle struct {
	Align string // LEFT, RIGHT, CENTER, JUSTIFY; "" keeps the base

	// Heading attaches list numbering: NUMBER or BULLET with the id of an
	// hh:numbering or hh:bullet and a zero-based level.
	Heading    string
	HeadingRef string
	Level      int

	// Margin replaces the left margin and first-line indent.
	Margin bool
	Left   int
	Indent int
}

// IsZero reports whether s leaves its base unchanged.
func (s ParaStyle) IsZero() bool { return s == ParaStyle{} }

// ListParaStyle returns the paragraph look of a list item at level.
func ListParaStyle(kind, ref string, level int) ParaStyle {
	level = min(max(level, 0), MaxListLevel)
	return ParaStyle{
		Heading:    kind,
		HeadingRef: ref,
		Level:      level,
		Margin:     true,
		Left:       (level + 1) * ListIndentPerLevel,
		Indent:     -ListIndentPerLevel,
	}
}

// ParaPr returns the id of a paragraph property derived from base.
func (h *Header) ParaPr(base string, s ParaStyle) string {
	if s.IsZero() {
		return base
	}
	key := paraKey{base, s}
	if id, ok := h.paras[key]; ok {
		return id
	}
	src := h.item("paraProperties", "paraPr", base)
	if src == nil {
		return base
	}
	c := h.container("paraProperties")
	e := src.Copy()
	id := nextID(c, 0)
	e.CreateAttr("id", id)

	if s.Align != "" {
		a := e.SelectElement("hh:align")
		if a == nil {
			a = etree.NewElement("hh:align")
			a.CreateAttr("vertical", "BASELINE")
			e.InsertChildAt(0, a)
		}
		a.CreateAttr("horizontal", s.Align)
	}
	if s.Heading != "" {
		hd := e.SelectElement("hh:heading")
		if hd == nil {
			hd = etree.NewElement("hh:heading")
			if a := e.SelectElement("hh:align"); a != nil {
				e.InsertChildAt(a.Index()+1, hd)
			} else {
				e.InsertChildAt(0, hd)
			}
		}
		hd.CreateAttr("type", s.Heading)
		hd.CreateAttr("idRef", s.HeadingRef)
		hd.CreateAttr("level", strconv.Itoa(s.Level))
	}
	if s.Margin {
		lefts := e.FindElements(".//hc:left")
		intents := e.FindElements(".//hc:intent")
		if len(lefts) == 0 && len(intents) == 0 {
			h.declare("hc", NSCore)
			m := e.CreateElement("hh:margin")
			intents = append(intents, m.CreateElement("hc:intent"))
			lefts = append(lefts, m.CreateElement("hc:left"))
		}
		for _, l := range lefts {
			l.CreateAttr("value", strconv.Itoa(s.Left))
			if l.SelectAttr("unit") == nil {
				l.CreateAttr("unit", "HWPUNIT")
			}
		}
		for _, in := range intents {
			in.CreateAttr("value", strconv.Itoa(s.Indent))
			if in.SelectAttr("unit") == nil {
				in.CreateAttr("unit", "HWPUNIT")
			}
		}
	}

	c.AddChild(e)
	h.paras[key] = id
	return id
}

// Numbering registers a fresh hh:numbering whose every level uses format
// (DIGIT, LATIN_SMALL, ROMAN_CAPITAL, ...) and starts at start. Each list
// gets its own numbering so that counting restarts per list.
func (h *Header) Numbering(format string, start int) string {
	if format == "" {
		format = "DIGIT"
	}
	start = max(start, 0)
	c := h.container("numberings")
	id := nextID(c, 1)
	n := c.CreateElement("hh:numbering")
	n.CreateAttr("id", id)
	n.CreateAttr("start", strconv.Itoa(start))
	for level := 1; level <= MaxListLevel+1; level++ {
		ph := n.CreateElement("hh:paraHead")
		ph.CreateAttr("start", strconv.Itoa(start))
		ph.CreateAttr("level", strconv.Itoa(level))
		setParaHead(ph, format)
		ph.SetText(fmt.Sprintf("^%d.", level))
	}
	return id
}

// Bullet returns the id of an hh:bullet drawing char.
func (h *Header) Bullet(char string) string {
	if id, ok := h.bullets[char]; ok {
		return id
	}
	c := h.container("bullets")
	for _, b := range c.SelectElements("hh:bullet") {
		if b.SelectAttrValue("char", "") == char && b.SelectAttrValue("useImage", "0") == "0" {
			id := b.SelectAttrValue("id", "")
			h.bullets[char] = id
			return id
		}
	}
	id := nextID(c, 1)
	b := c.CreateElement("hh:bullet")
	b.CreateAttr("id", id)
	b.CreateAttr("char", char)
	b.CreateAttr("useImage", "0")
	ph := b.CreateElement("hh:paraHead")
	ph.CreateAttr("level", "0")
	setParaHead(ph, "DIGIT")
	h.bullets[char] = id
	return id
}

func setParaHead(ph *etree.Element, format string) {
	ph.CreateAttr("align", "LEFT")
	ph.CreateAttr("useInstWidth", "1")
	ph.CreateAttr("autoIndent", "0")
	ph.CreateAttr("widthAdjust", "0")
	ph.CreateAttr("textOffsetType", "PERCENT")
	ph.CreateAttr("textOffset", "50")
	ph.CreateAttr("numFormat", format)
	ph.CreateAttr("charPrIDRef", "4294967295")
	ph.CreateAttr("checkable", "0")
}

// BorderFill returns the id of an hh:borderFill with solid (or no) borders
// and an optional background colour.
func (h *Header) BorderFill(solid bool, fill string) string {
	key := fillKey{solid, fill}
	if id, ok := h.fills[key]; ok {
		return id
	}
	h.declare("hc", NSCore)
	c := h.container("borderFills")
	id := nextID(c, 1)
	b := c.CreateElement("hh:borderFill")
	b.CreateAttr("id", id)
	b.CreateAttr("threeD", "0")
	b.CreateAttr("shadow", "0")
	b.CreateAttr("centerLine", "NONE")
	b.CreateAttr("breakCellSeparateLine", "0")
	for _, tag := range []string{"hh:slash", "hh:backSlash"} {
		s := b.CreateElement(tag)
		s.CreateAttr("type", "NONE")
		s.CreateAttr("Crooked", "0")
		s.CreateAttr("isCounter", "0")
	}
	line := "NONE"
	if solid {
		line = "SOLID"
	}
	for _, tag := range []string{"hh:leftBorder", "hh:rightBorder", "hh:topBorder", "hh:bottomBorder"} {
		s := b.CreateElement(tag)
		s.CreateAttr("type", line)
		s.CreateAttr("width", "0.12 mm")
		s.CreateAttr("color", "#000000")
	}
	d := b.CreateElement("hh:diagonal")
	d.CreateAttr("type", "SOLID")
	d.CreateAttr("width", "0.1 mm")
	d.CreateAttr("color", "#000000")
	if fill != "" {
		w := b.CreateElement("hc:fillBrush").CreateElement("hc:winBrush")
		w.CreateAttr("faceColor", fill)
		w.CreateAttr("hatchColor", "#999999")
		w.CreateAttr("alpha", "0")
	}
	h.fills[key] = id
	return id
}
