// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hwpx

import (
	"strings"

	"github.com/beevik/etree"
)

// Paragraph builds one hp:p.
type Paragraph struct {
	el     *etree.Element
	charPr string
	last   *Run
}

// Run is a text run inside a paragraph.
type Run struct {
	el     *etree.Element
	t      *etree.Element
	charPr string
}

// NewParagraph starts a paragraph. charPr is used for the placeholder run of
// a paragraph that ends up without content.
func NewParagraph(paraPr, style, charPr string) *Paragraph {
	el := etree.NewElement("hp:p")
	el.CreateAttr("paraPrIDRef", paraPr)
	el.CreateAttr("styleIDRef", style)
	el.CreateAttr("pageBreak", "0")
	el.CreateAttr("columnBreak", "0")
	el.CreateAttr("merged", "0")
	return &Paragraph{el: el, charPr: charPr}
}

// Element exposes the underlying hp:p.
func (p *Paragraph) Element() *etree.Element { return p.el }

// PageBreak makes the paragraph start on a new page.
func (p *Paragraph) PageBreak() { p.el.CreateAttr("pageBreak", "1") }

// Text appends text in charPr, extending the previous run when it has the
// same look.
func (p *Paragraph) Text(charPr, s string) {
	if s == "" {
		return
	}
	p.run(charPr).Text(s)
}

// LineBreak appends a forced line break.
func (p *Paragraph) LineBreak(charPr string) {
	p.run(charPr).LineBreak()
}

// IsEmpty reports whether nothing has been added.
func (p *Paragraph) IsEmpty() bool { return len(p.el.ChildElements()) == 0 }

// PlainText returns the text of the paragraph's runs.
func (p *Paragraph) PlainText() string {
	var b strings.Builder
	for _, t := range p.el.FindElements("./hp:run/hp:t") {
		for _, c := range t.Child {
			switch c := c.(type) {
			case *etree.CharData:
				b.WriteString(c.Data)
			case *etree.Element:
				if c.Tag == "lineBreak" {
					b.WriteByte('\n')
				}
			}
		}
	}
	return b.String()
}

func (p *Paragraph) run(charPr string) *Run {
	if p.last != nil && p.last.charPr == charPr {
		return p.last
	}
	el := p.el.CreateElement("hp:run")
	el.CreateAttr("charPrIDRef", charPr)
	p.last = &Run{el: el, t: el.CreateElement("hp:t"), charPr: charPr}
	return p.last
}

// Object appends a run holding an inline object such as a table or picture.
func (p *Paragraph) Object(charPr string, obj *etree.Element) {
	el := p.el.CreateElement("hp:run")
	el.CreateAttr("charPrIDRef", charPr)
	el.AddChild(obj)
	el.CreateElement("hp:t")
	p.last = nil
}

// FieldBegin opens a hyperlink field. Text added until FieldEnd with the
// same id becomes the link label.
func (p *Paragraph) FieldBegin(charPr, id, url string) {
	el := p.el.CreateElement("hp:run")
	el.CreateAttr("charPrIDRef", charPr)
	f := el.CreateElement("hp:ctrl").CreateElement("hp:fieldBegin")
	f.CreateAttr("id", id)
	f.CreateAttr("type", "HYPERLINK")
	f.CreateAttr("name", "")
	f.CreateAttr("editable", "0")
	f.CreateAttr("dirty", "0")
	f.CreateAttr("zorder", "-1")
	f.CreateAttr("fieldid", id)
	params := f.CreateElement("hp:parameters")
	params.CreateAttr("cnt", "6")
	params.CreateAttr("name", "")
	param := func(kind, name, value string) {
		e := params.CreateElement("hp:" + kind)
		e.CreateAttr("name", name)
		e.SetText(value)
	}
	param("integerParam", "Prop", "0")
	param("stringParam", "Command", HyperlinkCommand(url))
	param("stringParam", "Path", url)
	param("stringParam", "Category", "HWPHYPERLINK_TYPE_URL")
	param("stringParam", "TargetType", "HWPHYPERLINK_TARGET_BOOKMARK_NONE")
	param("stringParam", "DocOpenType", "HWPHYPERLINK_JUMP_CURRENTTAB")
	p.last = nil
}

// FieldEnd closes the field opened with id.
func (p *Paragraph) FieldEnd(charPr, id string) {
	el := p.el.CreateElement("hp:run")
	el.CreateAttr("charPrIDRef", charPr)
	f := el.CreateElement("hp:ctrl").CreateElement("hp:fieldEnd")
	f.CreateAttr("beginIDRef", id)
	f.CreateAttr("fieldid", id)
	p.last = nil
}

// HyperlinkCommand encodes a URL as the Command parameter of a hyperlink
// field. Colons are escaped with a backslash.
func HyperlinkCommand(url string) string {
	return strings.ReplaceAll(url, ":", `\:`) + ";1;0;0;"
}

// finish gives an empty paragraph its placeholder run.
func (p *Paragraph) finish() {
	if p.IsEmpty() {
		p.run(p.charPr)
	}
}

// Text appends s to the run.
func (r *Run) Text(s string) {
	r.t.CreateText(s)
}

// LineBreak appends hp:lineBreak inside the run's text.
func (r *Run) LineBreak() {
	r.t.CreateElement("hp:lineBreak")
}
