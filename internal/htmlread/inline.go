// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package htmlread

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/hwpx-convert/internal/css"
	"github.com/pdiddy/hwpx-convert/internal/doc"
)

func childInlines(n *html.Node) []doc.Inline {
	var out []doc.Inline
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, inlines(c)...)
	}
	return out
}

// inlines converts a node in inline context. Block elements met here (a
// <div> inside a <span>) are flattened into their inline content.
func inlines(n *html.Node) []doc.Inline {
	switch n.Type {
	case html.TextNode:
		return doc.Words(n.Data)
	case html.ElementNode:
	default:
		return nil
	}
	if dropped(n) {
		return nil
	}

	var out []doc.Inline
	switch n.DataAtom {
	case atom.Br:
		return []doc.Inline{doc.LineBreak{}}
	case atom.Wbr:
		return nil
	case atom.Img:
		return []doc.Inline{image(n)}
	case atom.Code, atom.Kbd, atom.Samp, atom.Tt:
		text := strings.Join(strings.Fields(textContent(n)), " ")
		if text == "" {
			return nil
		}
		out = []doc.Inline{doc.Code{Value: text}}
	case atom.A:
		children := childInlines(n)
		href := strings.TrimSpace(attr(n, "href"))
		if href == "" || strings.HasPrefix(href, "javascript:") {
			out = children
			break
		}
		out = []doc.Inline{doc.Link{URL: href, Title: attr(n, "title"), Children: children}}
	case atom.Q:
		out = append([]doc.Inline{doc.Text{Value: "“"}}, childInlines(n)...)
		out = append(out, doc.Text{Value: "”"})
	default:
		out = childInlines(n)
		if f := tagFormat(n.DataAtom); f != 0 {
			out = []doc.Inline{doc.Styled{Format: f, Children: out}}
		}
		if s := tagStyle(n.DataAtom); s.HasCharacter() {
			out = []doc.Inline{doc.Span{Style: s, Children: out}}
		}
	}

	if len(out) == 0 {
		return nil
	}
	if s := elementStyle(n); s.HasCharacter() {
		s.TextAlign = ""
		out = []doc.Inline{doc.Span{Style: s, Children: out}}
	}
	return out
}

func tagFormat(a atom.Atom) doc.Format {
	switch a {
	case atom.B, atom.Strong:
		return doc.Bold
	case atom.I, atom.Em, atom.Cite, atom.Var, atom.Dfn:
		return doc.Italic
	case atom.U, atom.Ins:
		return doc.Underline
	case atom.S, atom.Strike, atom.Del:
		return doc.Strikeout
	case atom.Sup:
		return doc.Superscript
	case atom.Sub:
		return doc.Subscript
	}
	return 0
}

func tagStyle(a atom.Atom) css.Style {
	switch a {
	case atom.Mark:
		return css.Style{Background: "#FFFF00"}
	case atom.Small:
		return css.Style{FontSize: "smaller"}
	case atom.Big:
		return css.Style{FontSize: "larger"}
	}
	return css.Style{}
}

func image(n *html.Node) doc.Image {
	img := doc.Image{Src: strings.TrimSpace(attr(n, "src")), Alt: attr(n, "alt")}
	own := inlineDimensions(attr(n, "style"))
	for key, dst := range map[string]*int{"width": &img.Width, "height": &img.Height} {
		v := own[key]
		if v == "" {
			v = attr(n, key)
		}
		if l, ok := css.Length(v); ok {
			*dst = l
		}
	}
	return img
}

// inlineDimensions pulls width/height out of a style attribute; css.Style
// does not carry box properties.
func inlineDimensions(style string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "width" || k == "height" {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out
}
