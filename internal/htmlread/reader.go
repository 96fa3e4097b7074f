// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package htmlread turns an HTML document into a doc.Document. It honours
// inline style attributes and the presentational attributes that document
// exporters still emit (font, bgcolor, align), which is the information the
// HWPX renderer needs for colours, fonts and tables.
package htmlread

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/pdiddy/hwpx-convert/internal/css"
	"github.com/pdiddy/hwpx-convert/internal/doc"
)

// Options controls decoding.
type Options struct {
	// Encoding forces a character set label (e.g. "euc-kr"). When empty the
	// encoding is sniffed from the BOM, Content-Type or <meta charset>.
	Encoding string
}

// ReadFile parses the HTML file at path.
func ReadFile(path string, opts Options) (*doc.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return d, nil
}

// Read parses HTML from r.
func Read(r io.Reader, opts Options) (*doc.Document, error) {
	var (
		decoded io.Reader
		err     error
	)
	if opts.Encoding != "" {
		decoded, err = charset.NewReaderLabel(opts.Encoding, r)
	} else {
		decoded, err = charset.NewReader(r, "")
	}
	if err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}

	root, err := html.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return Convert(root), nil
}

// Convert walks a parsed HTML tree.
func Convert(root *html.Node) *doc.Document {
	d := &doc.Document{}
	if t := find(root, atom.Title); t != nil {
		d.Title = strings.Join(strings.Fields(textContent(t)), " ")
	}
	body := find(root, atom.Body)
	if body == nil {
		body = root
	}
	d.Blocks = blocks(body, context{}.with(body))
	return d
}

// context carries inherited state down the tree.
type context struct {
	// spans holds the character style of each styled block ancestor,
	// outermost first. They are applied as nested spans so that relative
	// font sizes compound.
	spans []css.Style
	align doc.Align
}

func (c context) with(n *html.Node) context {
	own := elementStyle(n)
	if a := elementAlign(n, own); a != doc.AlignDefault {
		c.align = a
	}
	own.TextAlign = ""
	if own.HasCharacter() {
		c.spans = append(c.spans[:len(c.spans):len(c.spans)], own)
	}
	return c
}

func elementStyle(n *html.Node) css.Style {
	s := css.Parse(attr(n, "style"))
	if n.DataAtom == atom.Font {
		if c, ok := css.Color(attr(n, "color")); ok && s.Color == "" {
			s.Color = c
		}
		if face := attr(n, "face"); face != "" && len(s.FontFamily) == 0 {
			s.FontFamily = css.Families(face)
		}
		if size, ok := css.HTMLFontSize(attr(n, "size")); ok && s.FontSize == "" {
			s.FontSize = fmt.Sprintf("%dpt", size/css.UnitsPerPoint)
		}
	}
	switch n.DataAtom {
	case atom.Table, atom.Thead, atom.Tbody, atom.Tfoot, atom.Tr, atom.Td, atom.Th:
		// Backgrounds on table parts become cell fills, not run shading.
		s.Background = ""
	default:
		if bg, ok := css.Color(attr(n, "bgcolor")); ok && s.Background == "" {
			s.Background = bg
		}
	}
	return s
}

func elementAlign(n *html.Node, own css.Style) doc.Align {
	if a := doc.AlignFromCSS(own.TextAlign); a != doc.AlignDefault {
		return a
	}
	if n.DataAtom == atom.Center {
		return doc.AlignCenter
	}
	return doc.AlignFromCSS(strings.ToLower(attr(n, "align")))
}

// wrap applies the inherited character styles to a paragraph's inlines.
func wrap(inlines []doc.Inline, ctx context) []doc.Inline {
	if len(inlines) == 0 {
		return inlines
	}
	for i := len(ctx.spans) - 1; i >= 0; i-- {
		inlines = []doc.Inline{doc.Span{Style: ctx.spans[i], Children: inlines}}
	}
	return inlines
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, a); f != nil {
			return f
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.DataAtom == atom.Br {
				b.WriteByte('\n')
				return
			}
			if dropped(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// dropped reports elements whose content never reaches the document.
func dropped(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Noscript, atom.Head,
		atom.Meta, atom.Link, atom.Iframe, atom.Object, atom.Embed, atom.Svg,
		atom.Canvas, atom.Input, atom.Select, atom.Textarea, atom.Button:
		return true
	}
	if hasAttr(n, "hidden") {
		return true
	}
	style := strings.ReplaceAll(strings.ToLower(attr(n, "style")), " ", "")
	return strings.Contains(style, "display:none")
}
