// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hwpx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// defaultSecPr is an A4 portrait section used when the template's first
// section carries no hp:secPr.
const defaultSecPr = `<hs:sec xmlns:hp="` + NSParagraph + `" xmlns:hs="` + NSSection + `">
<hp:p paraPrIDRef="0" styleIDRef="0" pageBreak="0" columnBreak="0" merged="0"><hp:run charPrIDRef="0"><hp:secPr id="" textDirection="HORIZONTAL" spaceColumns="1134" tabStop="8000" tabStopVal="4000" tabStopUnit="HWPUNIT" outlineShapeIDRef="1" memoShapeIDRef="1" textVerticalWidthHead="0" masterPageCnt="0"><hp:grid lineGrid="0" charGrid="0" wonggojiFormat="0"/><hp:startNum pageStartsOn="BOTH" page="0" pic="0" tbl="0" equation="0"/><hp:visibility hideFirstHeader="0" hideFirstFooter="0" hideFirstMasterPage="0" border="SHOW_ALL" fill="SHOW_ALL" hideFirstPageNum="0" hideFirstEmptyLine="0" showLineNumber="0"/><hp:lineNumberShape restartType="0" countBy="0" distance="0" startNumber="0"/><hp:pagePr landscape="WIDELY" width="59530" height="84190" gutterType="LEFT_ONLY"><hp:margin header="4250" footer="2240" gutter="0" left="7200" right="7200" top="4255" bottom="4960"/></hp:pagePr><hp:footNotePr><hp:autoNumFormat type="DIGIT" userChar="" prefixChar="" suffixChar="" supscript="1"/><hp:noteLine length="-1" type="SOLID" width="0.25 mm" color="#000000"/><hp:noteSpacing betweenNotes="283" belowLine="0" aboveLine="1000"/><hp:numbering type="CONTINUOUS" newNum="1"/><hp:placement place="EACH_COLUMN" beneathText="0"/></hp:footNotePr><hp:endNotePr><hp:autoNumFormat type="ROMAN_SMALL" userChar="" prefixChar="" suffixChar="" supscript="1"/><hp:noteLine length="-1" type="SOLID" width="0.25 mm" color="#000000"/><hp:noteSpacing betweenNotes="0" belowLine="0" aboveLine="1000"/><hp:numbering type="CONTINUOUS" newNum="1"/><hp:placement place="END_OF_DOCUMENT" beneathText="0"/></hp:endNotePr><hp:pageBorderFill type="BOTH" borderFillIDRef="1" textBorder="PAPER" headerInside="0" footerInside="0" fillArea="PAPER"><hp:offset left="1417" right="1417" top="1417" bottom="1417"/></hp:pageBorderFill></hp:secPr><hp:ctrl><hp:colPr id="" type="NEWSPAPER" layout="LEFT" colCount="1" sameSz="1" sameGap="0"/></hp:ctrl></hp:run></hp:p>
</hs:sec>`

// Section is an editable Contents/section0.xml. The template body is
// dropped; only the paragraph holding the section definition survives, and
// the first appended paragraph is merged into it so the document does not
// open with an empty line.
type Section struct {
	doc    *etree.Document
	root   *etree.Element
	first  *etree.Element
	merged bool
	ids    int
}

// ParseSection parses section0.xml and clears its body.
func ParseSection(data []byte) (*Section, error) {
	d := etree.NewDocument()
	if err := d.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing section0.xml: %w", err)
	}
	root := d.Root()
	if root == nil || root.Tag != "sec" {
		return nil, fmt.Errorf("parsing section0.xml: root element is not hs:sec")
	}
	s := &Section{doc: d, root: root}
	for _, p := range root.SelectElements("hp:p") {
		if p.FindElement(".//hp:secPr") != nil {
			s.first = p
			break
		}
	}
	if s.first == nil {
		def := etree.NewDocument()
		if err := def.ReadFromString(defaultSecPr); err != nil {
			return nil, fmt.Errorf("parsing default section: %w", err)
		}
		s.first = def.Root().SelectElement("hp:p")
	}
	for _, c := range append([]etree.Token(nil), root.Child...) {
		if c != etree.Token(s.first) {
			root.RemoveChild(c)
		}
	}
	if s.first.Parent() != root {
		root.AddChild(s.first)
	}
	removeChild(s.first, "hp:linesegarray")
	for _, r := range s.first.SelectElements("hp:run") {
		if r.SelectElement("hp:secPr") == nil && r.SelectElement("hp:ctrl") == nil {
			s.first.RemoveChild(r)
			continue
		}
		removeChild(r, "hp:t")
	}
	for prefix, uri := range map[string]string{"hp": NSParagraph, "hs": NSSection, "hc": NSCore} {
		if root.SelectAttr("xmlns:"+prefix) == nil {
			root.CreateAttr("xmlns:"+prefix, uri)
		}
	}
	return s, nil
}

// NextID returns a fresh object id for tables, pictures and fields.
func (s *Section) NextID() string {
	s.ids++
	return strconv.Itoa(s.ids)
}

// Append adds a paragraph to the end of the body.
func (s *Section) Append(p *Paragraph) {
	p.finish()
	if !s.merged {
		s.merged = true
		for _, a := range []string{"paraPrIDRef", "styleIDRef"} {
			s.first.CreateAttr(a, p.el.SelectAttrValue(a, "0"))
		}
		for _, c := range p.el.ChildElements() {
			s.first.AddChild(c)
		}
		return
	}
	s.root.AddChild(p.el)
}

// Paragraphs returns the number of top-level paragraphs.
func (s *Section) Paragraphs() int {
	return len(s.root.SelectElements("hp:p"))
}

// TextWidth returns the usable line width in HWPUNIT.
func (s *Section) TextWidth() int {
	width := DefaultPageWidth - 2*DefaultMarginSide
	page := s.first.FindElement(".//hp:pagePr")
	if page == nil {
		return width
	}
	w := atoi(page.SelectAttrValue("width", ""), DefaultPageWidth)
	if page.SelectAttrValue("landscape", "WIDELY") == "NARROWLY" {
		w = atoi(page.SelectAttrValue("height", ""), DefaultPageHeight)
	}
	if m := page.SelectElement("hp:margin"); m != nil {
		w -= atoi(m.SelectAttrValue("left", ""), DefaultMarginSide)
		w -= atoi(m.SelectAttrValue("right", ""), DefaultMarginSide)
		w -= atoi(m.SelectAttrValue("gutter", ""), 0)
	}
	if w <= 0 {
		return width
	}
	return w
}

// Bytes serialises the section.
func (s *Section) Bytes() ([]byte, error) {
	b, err := s.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialising section0.xml: %w", err)
	}
	return b, nil
}

func atoi(s string, dflt int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return dflt
	}
	return n
}
