// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package htmlread

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/hwpx-convert/internal/doc"
)

func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main, atom.Header,
		atom.Footer, atom.Nav, atom.Aside, atom.Address, atom.Center, atom.Form,
		atom.Fieldset, atom.Legend, atom.Details, atom.Summary, atom.Figure,
		atom.Figcaption, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Menu, atom.Li, atom.Dl, atom.Dt, atom.Dd,
		atom.Table, atom.Pre, atom.Blockquote, atom.Hr, atom.Body, atom.Html:
		return true
	}
	return false
}

// blocks converts the children of n. Runs of inline content between block
// children become paragraphs.
func blocks(n *html.Node, ctx context) []doc.Block {
	var (
		out     []doc.Block
		pending []doc.Inline
	)
	flush := func() {
		ins := doc.Trim(pending)
		pending = nil
		if doc.IsBlank(ins) {
			return
		}
		out = append(out, doc.Paragraph{Inlines: wrap(ins, ctx), Align: ctx.align})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && dropped(c) {
			continue
		}
		if isBlock(c) {
			flush()
			out = append(out, block(c, ctx)...)
			continue
		}
		pending = append(pending, inlines(c)...)
	}
	flush()
	return out
}

func block(n *html.Node, parent context) []doc.Block {
	ctx := parent.with(n)
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		ins := doc.Trim(childInlines(n))
		if doc.IsBlank(ins) {
			return nil
		}
		return []doc.Block{doc.Heading{Level: level, Inlines: wrap(ins, ctx), Align: ctx.align}}

	case atom.Ul, atom.Menu:
		return []doc.Block{list(n, ctx, false)}

	case atom.Ol:
		return []doc.Block{list(n, ctx, true)}

	case atom.Li:
		// A stray <li> outside a list still reads as a bullet item.
		return []doc.Block{doc.List{Items: [][]doc.Block{itemBlocks(n, ctx)}}}

	case atom.Dl:
		return definitions(n, ctx)

	case atom.Dt:
		ins := doc.Trim(childInlines(n))
		if doc.IsBlank(ins) {
			return nil
		}
		bold := []doc.Inline{doc.Styled{Format: doc.Bold, Children: ins}}
		return []doc.Block{doc.Paragraph{Inlines: wrap(bold, ctx), Align: ctx.align}}

	case atom.Dd, atom.Blockquote:
		inner := blocks(n, ctx)
		if len(inner) == 0 {
			return nil
		}
		return []doc.Block{doc.Quote{Blocks: inner}}

	case atom.Table:
		return []doc.Block{table(n, ctx)}

	case atom.Pre:
		return []doc.Block{doc.CodeBlock{Lang: codeLang(n), Text: preText(n)}}

	case atom.Hr:
		return []doc.Block{doc.Rule{}}

	case atom.Figcaption:
		if ctx.align == doc.AlignDefault {
			ctx.align = doc.AlignCenter
		}
		return blocks(n, ctx)
	}
	return blocks(n, ctx)
}

func list(n *html.Node, ctx context, ordered bool) doc.List {
	l := doc.List{Ordered: ordered, Start: 1}
	if ordered {
		if s, err := strconv.Atoi(strings.TrimSpace(attr(n, "start"))); err == nil {
			l.Start = s
		}
		l.Numbering = doc.NumberingFromHTML(attr(n, "type"))
	}
	var loose []doc.Inline
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && dropped(c) {
			continue
		}
		switch {
		case c.Type == html.ElementNode && c.DataAtom == atom.Li:
			if ins := doc.Trim(loose); !doc.IsBlank(ins) {
				l.Items = append(l.Items, []doc.Block{doc.Paragraph{Inlines: wrap(ins, ctx)}})
			}
			loose = nil
			l.Items = append(l.Items, itemBlocks(c, ctx))
		case c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol):
			// <ul><li>a</li><ul>...</ul></ul>: attach to the previous item.
			nested := block(c, ctx)
			if len(l.Items) == 0 {
				l.Items = append(l.Items, nested)
			} else {
				last := len(l.Items) - 1
				l.Items[last] = append(l.Items[last], nested...)
			}
		default:
			loose = append(loose, inlines(c)...)
		}
	}
	if ins := doc.Trim(loose); !doc.IsBlank(ins) {
		l.Items = append(l.Items, []doc.Block{doc.Paragraph{Inlines: wrap(ins, ctx)}})
	}
	return l
}

func itemBlocks(li *html.Node, ctx context) []doc.Block {
	ctx = ctx.with(li)
	bs := blocks(li, ctx)
	if len(bs) == 0 {
		return []doc.Block{doc.Paragraph{}}
	}
	return bs
}

func definitions(n *html.Node, ctx context) []doc.Block {
	var out []doc.Block
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Dt, atom.Dd:
			out = append(out, block(c, ctx)...)
		case atom.Div:
			out = append(out, definitions(c, ctx.with(c))...)
		}
	}
	return out
}

func codeLang(pre *html.Node) string {
	nodes := []*html.Node{pre}
	if c := find(pre, atom.Code); c != nil {
		nodes = append(nodes, c)
	}
	for _, n := range nodes {
		for _, class := range strings.Fields(attr(n, "class")) {
			for _, prefix := range []string{"language-", "lang-"} {
				if strings.HasPrefix(class, prefix) {
					return strings.TrimPrefix(class, prefix)
				}
			}
		}
	}
	return ""
}

func preText(pre *html.Node) string {
	s := strings.ReplaceAll(textContent(pre), "\r\n", "\n")
	s = strings.TrimPrefix(s, "\n")
	return strings.TrimRight(s, "\n")
}
