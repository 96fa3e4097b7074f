// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hwpx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// refListOrder is the schema order of the containers under hh:refList.
var refListOrder = []string{
	"fontfaces", "borderFills", "charProperties", "tabProperties",
	"numberings", "bullets", "paraProperties", "styles", "memoProperties",
	"trackChanges", "trackChangeAuthors",
}

// Style is one entry of hh:styles.
type Style struct {
	ID      string
	Name    string
	EngName string
	ParaPr  string
	CharPr  string
}

// Header is an editable Contents/header.xml. Derived properties are appended
// to the template's tables and cached, so asking twice for the same look
// returns the same id.
type Header struct {
	doc     *etree.Document
	root    *etree.Element
	styles  []Style
	normal  Style
	chars   map[charKey]string
	paras   map[paraKey]string
	fonts   map[string]map[string]string
	bullets map[string]string
	fills   map[fillKey]string
}

type charKey struct {
	base  string
	style CharStyle
}

type paraKey struct {
	base  string
	style ParaStyle
}

type fillKey struct {
	solid bool
	fill  string
}

// ParseHeader parses header.xml.
func ParseHeader(data []byte) (*Header, error) {
	d := etree.NewDocument()
	if err := d.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing header.xml: %w", err)
	}
	root := d.Root()
	if root == nil || root.Tag != "head" {
		return nil, fmt.Errorf("parsing header.xml: root element is not hh:head")
	}
	h := &Header{
		doc:     d,
		root:    root,
		chars:   map[charKey]string{},
		paras:   map[paraKey]string{},
		fonts:   map[string]map[string]string{},
		bullets: map[string]string{},
		fills:   map[fillKey]string{},
	}
	h.loadStyles()
	return h, nil
}

func (h *Header) loadStyles() {
	for _, e := range h.root.FindElements(".//hh:styles/hh:style") {
		h.styles = append(h.styles, Style{
			ID:      e.SelectAttrValue("id", ""),
			Name:    e.SelectAttrValue("name", ""),
			EngName: e.SelectAttrValue("engName", ""),
			ParaPr:  e.SelectAttrValue("paraPrIDRef", "0"),
			CharPr:  e.SelectAttrValue("charPrIDRef", "0"),
		})
	}
	h.normal = Style{ID: "0", Name: "바탕글", EngName: "Normal", ParaPr: "0", CharPr: "0"}
	if s, ok := h.Style("Normal"); ok {
		h.normal = s
	} else if s, ok := h.Style("바탕글"); ok {
		h.normal = s
	} else if len(h.styles) > 0 {
		h.normal = h.styles[0]
	}
}

// Styles returns the template's styles in document order.
func (h *Header) Styles() []Style { return h.styles }

// Normal returns the body text style.
func (h *Header) Normal() Style { return h.normal }

// Style finds a style by name or English name.
func (h *Header) Style(name string) (Style, bool) {
	for _, s := range h.styles {
		if s.Name == name || strings.EqualFold(s.EngName, name) {
			return s, true
		}
	}
	return Style{}, false
}

// HeadingStyle returns the style used for a heading of the given level.
// Templates name these "Outline N" (개요 N); a style whose id equals the
// level is the last resort before body text.
func (h *Header) HeadingStyle(level int) Style {
	level = min(max(level, 1), 7)
	for _, name := range []string{
		fmt.Sprintf("Outline %d", level),
		fmt.Sprintf("개요 %d", level),
		fmt.Sprintf("Heading %d", level),
	} {
		if s, ok := h.Style(name); ok {
			return s
		}
	}
	id := strconv.Itoa(level)
	for _, s := range h.styles {
		if s.ID == id {
			return s
		}
	}
	return h.normal
}

// Fonts lists the faces registered for Hangul text.
func (h *Header) Fonts() []string {
	var faces []string
	for _, f := range h.root.FindElements(".//hh:fontface[@lang='HANGUL']/hh:font") {
		faces = append(faces, f.SelectAttrValue("face", ""))
	}
	return faces
}

// Counts returns the number of items in each hh:refList table.
func (h *Header) Counts() map[string]int {
	counts := map[string]int{}
	ref := h.refList()
	for _, c := range ref.ChildElements() {
		counts[c.Tag] = len(c.ChildElements())
	}
	return counts
}

// Bytes refreshes item counts and serialises the header.
func (h *Header) Bytes() ([]byte, error) {
	ref := h.refList()
	for _, c := range ref.ChildElements() {
		if c.SelectAttr("itemCnt") != nil || c.Tag == "fontfaces" {
			c.CreateAttr("itemCnt", strconv.Itoa(len(c.ChildElements())))
		}
		if c.Tag == "fontfaces" {
			for _, ff := range c.SelectElements("hh:fontface") {
				ff.CreateAttr("fontCnt", strconv.Itoa(len(ff.SelectElements("hh:font"))))
			}
		}
	}
	b, err := h.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialising header.xml: %w", err)
	}
	return b, nil
}

func (h *Header) refList() *etree.Element {
	ref := h.root.SelectElement("hh:refList")
	if ref == nil {
		ref = h.root.CreateElement("hh:refList")
	}
	return ref
}

// container returns the refList table named tag, creating it in schema
// order when the template does not carry one.
func (h *Header) container(tag string) *etree.Element {
	ref := h.refList()
	if c := ref.SelectElement("hh:" + tag); c != nil {
		return c
	}
	c := etree.NewElement("hh:" + tag)
	c.CreateAttr("itemCnt", "0")
	pos := -1
	for i, name := range refListOrder {
		if name == tag {
			pos = i
			break
		}
	}
	if pos >= 0 {
		for _, next := range refListOrder[pos+1:] {
			if after := ref.SelectElement("hh:" + next); after != nil {
				ref.InsertChildAt(after.Index(), c)
				return c
			}
		}
	}
	ref.AddChild(c)
	return c
}

// item finds a child of a refList table by id.
func (h *Header) item(table, tag, id string) *etree.Element {
	c := h.refList().SelectElement("hh:" + table)
	if c == nil {
		return nil
	}
	for _, e := range c.SelectElements("hh:" + tag) {
		if e.SelectAttrValue("id", "") == id {
			return e
		}
	}
	return nil
}

// nextID returns one past the largest numeric id in c, never below floor.
func nextID(c *etree.Element, floor int) string {
	next := floor
	for _, e := range c.ChildElements() {
		if n, err := strconv.Atoi(e.SelectAttrValue("id", "")); err == nil && n >= next {
			next = n + 1
		}
	}
	return strconv.Itoa(next)
}

func (h *Header) declare(prefix, uri string) {
	if h.root.SelectAttr("xmlns:"+prefix) == nil {
		h.root.CreateAttr("xmlns:"+prefix, uri)
	}
}
