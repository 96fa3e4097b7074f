// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doc defines the format-neutral document tree that readers produce
// and the HWPX renderer consumes.
package doc

import "github.com/pdiddy/hwpx-convert/internal/css"

// Document is a parsed input file.
type Document struct {
	Title  string
	Blocks []Block
}

// Block is a paragraph-level element.
type Block interface{ block() }

// Inline is a run-level element.
type Inline interface{ inline() }

// Align is a paragraph alignment. The zero value keeps the style default.
type Align string

const (
	AlignDefault Align = ""
	AlignLeft    Align = "LEFT"
	AlignRight   Align = "RIGHT"
	AlignCenter  Align = "CENTER"
	AlignJustify Align = "JUSTIFY"
)

// AlignFromCSS maps a css text-align value.
func AlignFromCSS(v string) Align {
	switch v {
	case "left":
		return AlignLeft
	case "right":
		return AlignRight
	case "center":
		return AlignCenter
	case "justify":
		return AlignJustify
	}
	return AlignDefault
}

type (
	Paragraph struct {
		Inlines []Inline
		Align   Align
	}

	Heading struct {
		Level   int
		Inlines []Inline
		Align   Align
	}

	List struct {
		Ordered   bool
		// Start is the first number of an ordered list. Zero is a valid
		// start; readers default it to 1.
		Start     int
		Numbering Numbering
		Items     [][]Block
	}

	CodeBlock struct {
		Lang string
		Text string
	}

	Quote struct {
		Blocks []Block
	}

	Rule struct{}
)

// Numbering selects the counter format of an ordered list.
type Numbering string

const (
	NumberDecimal    Numbering = "DIGIT"
	NumberLowerAlpha Numbering = "LATIN_SMALL"
	NumberUpperAlpha Numbering = "LATIN_CAPITAL"
	NumberLowerRoman Numbering = "ROMAN_SMALL"
	NumberUpperRoman Numbering = "ROMAN_CAPITAL"
)

// NumberingFromHTML maps an <ol type> attribute.
func NumberingFromHTML(t string) Numbering {
	switch t {
	case "a":
		return NumberLowerAlpha
	case "A":
		return NumberUpperAlpha
	case "i":
		return NumberLowerRoman
	case "I":
		return NumberUpperRoman
	}
	return NumberDecimal
}

func (Paragraph) block() {}
func (Heading) block()   {}
func (List) block()      {}
func (Table) block()     {}
func (CodeBlock) block() {}
func (Quote) block()     {}
func (Rule) block()      {}

// Format is a set of character decorations.
type Format uint8

const (
	Bold Format = 1 << iota
	Italic
	Underline
	Strikeout
	Superscript
	Subscript
)

type (
	Text struct{ Value string }

	Space struct{}

	LineBreak struct{}

	// Styled applies fixed decorations (strong, em, ...) to its children.
	Styled struct {
		Format   Format
		Children []Inline
	}

	// Span applies an inline CSS style to its children.
	Span struct {
		Style    css.Style
		Children []Inline
	}

	Code struct{ Value string }

	Link struct {
		URL      string
		Title    string
		Children []Inline
	}

	// Image references picture data. Width and Height are HWPUNIT and zero
	// when the source did not state them.
	Image struct {
		Src    string
		Alt    string
		Width  int
		Height int
	}

	Note struct{ Blocks []Block }
)

func (Text) inline()      {}
func (Space) inline()     {}
func (LineBreak) inline() {}
func (Styled) inline()    {}
func (Span) inline()      {}
func (Code) inline()      {}
func (Link) inline()      {}
func (Image) inline()     {}
func (Note) inline()      {}
