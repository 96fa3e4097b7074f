// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes a doc.Document into an HWPX package. Styles come
// from the template header: body text uses the Normal style, headings the
// template's outline styles, and every inline look is a charPr derived from
// the paragraph style's own charPr.
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/hwpx-convert/internal/doc"
	"github.com/pdiddy/hwpx-convert/internal/fontmap"
	"github.com/pdiddy/hwpx-convert/internal/hwpx"
	"github.com/pdiddy/hwpx-convert/internal/images"
	"github.com/pdiddy/hwpx-convert/internal/logx"
)

// QuoteIndent is the extra left margin of block quotes in HWPUNIT.
const QuoteIndent = 2000

// ruleChar draws horizontal rules.
const ruleChar = "─"

// bulletChars cycle by nesting level.
var bulletChars = []string{"●", "○", "■"}

// numberCycle is used for ordered lists that do not name a format.
var numberCycle = []doc.Numbering{doc.NumberDecimal, doc.NumberLowerAlpha, doc.NumberLowerRoman}

// ImageLoader fetches picture data for image sources.
type ImageLoader interface {
	Load(ctx context.Context, src string) (*images.Image, error)
}

// Options controls rendering.
type Options struct {
	// Fonts maps CSS font families to installed faces. Nil uses the
	// built-in map.
	Fonts *fontmap.Map

	// Links emits hyperlink fields; otherwise link text is plain.
	Links bool

	// Images loads picture data. Nil renders images as their alt text.
	Images ImageLoader
}

// Stats summarises what was written.
type Stats struct {
	Paragraphs int
	Tables     int
	Images     int
	Links      int
	Notes      int
}

type renderer struct {
	ctx   context.Context
	opts  Options
	fonts *fontmap.Map
	h     *hwpx.Header
	sec   *hwpx.Section
	pkg   *hwpx.Package

	mono     string
	pictures map[string]picture
	notes    [][]doc.Block
	stats    Stats
}

// scope carries the paragraph look of the blocks being rendered.
type scope struct {
	paraPr string
	style  string
	charPr string

	// indent is extra left margin from enclosing quotes and list items.
	indent int
	// level is the list nesting depth.
	level int
	// width is the usable line width.
	width int
	// align applies to blocks without their own alignment.
	align doc.Align
	// format is applied to every run (bold table headers).
	format hwpx.Format
}

// Render appends d to pkg's section and sets the package title and preview.
func Render(ctx context.Context, d *doc.Document, pkg *hwpx.Package, opts Options) (Stats, error) {
	fonts := opts.Fonts
	if fonts == nil {
		fonts = fontmap.Default()
	}
	r := &renderer{
		ctx:      ctx,
		opts:     opts,
		fonts:    fonts,
		h:        pkg.Header,
		sec:      pkg.Section,
		pkg:      pkg,
		pictures: map[string]picture{},
	}
	r.mono, _ = fonts.Resolve([]string{"monospace"})

	normal := r.h.Normal()
	root := scope{
		paraPr: normal.ParaPr,
		style:  normal.ID,
		charPr: normal.CharPr,
		width:  r.sec.TextWidth(),
	}

	var preview []string
	emit := func(paras []*hwpx.Paragraph) {
		for _, p := range paras {
			if t := strings.TrimSpace(p.PlainText()); t != "" {
				preview = append(preview, t)
			}
			r.sec.Append(p)
			r.stats.Paragraphs++
		}
	}

	for _, b := range d.Blocks {
		if err := ctx.Err(); err != nil {
			return r.stats, err
		}
		emit(r.block(root, b))
	}
	if len(r.notes) > 0 {
		emit(r.noteList(root))
	}
	if err := ctx.Err(); err != nil {
		return r.stats, err
	}

	pkg.Title = d.Title
	if pkg.Title == "" {
		pkg.Title = firstHeading(d.Blocks)
	}
	pkg.Preview = strings.Join(preview, "\r\n")
	return r.stats, nil
}

func firstHeading(blocks []doc.Block) string {
	for _, b := range blocks {
		if h, ok := b.(doc.Heading); ok {
			return strings.TrimSpace(doc.PlainText(h.Inlines))
		}
	}
	return ""
}

// para starts a paragraph in sc, layering ps over the scope's alignment
// and indentation.
func (r *renderer) para(sc scope, ps hwpx.ParaStyle) *hwpx.Paragraph {
	if ps.Align == "" {
		ps.Align = string(sc.align)
	}
	if sc.indent > 0 {
		if !ps.Margin {
			ps.Margin = true
			ps.Indent = 0
		}
		ps.Left += sc.indent
	}
	return hwpx.NewParagraph(r.h.ParaPr(sc.paraPr, ps), sc.style, sc.charPr)
}

func (r *renderer) blocks(sc scope, blocks []doc.Block) []*hwpx.Paragraph {
	var out []*hwpx.Paragraph
	for _, b := range blocks {
		out = append(out, r.block(sc, b)...)
	}
	return out
}

func (r *renderer) block(sc scope, b doc.Block) []*hwpx.Paragraph {
	switch v := b.(type) {
	case doc.Paragraph:
		p := r.para(sc, hwpx.ParaStyle{Align: string(v.Align)})
		r.inlines(p, sc, r.chars(sc), v.Inlines)
		return []*hwpx.Paragraph{p}

	case doc.Heading:
		st := r.h.HeadingStyle(v.Level)
		hs := sc
		hs.paraPr, hs.style, hs.charPr = st.ParaPr, st.ID, st.CharPr
		p := r.para(hs, hwpx.ParaStyle{Align: string(v.Align)})
		r.inlines(p, hs, r.chars(hs), v.Inlines)
		return []*hwpx.Paragraph{p}

	case doc.List:
		return r.list(sc, v)

	case doc.Table:
		return r.table(sc, v)

	case doc.CodeBlock:
		return []*hwpx.Paragraph{r.code(sc, v)}

	case doc.Quote:
		qs := sc
		qs.indent += QuoteIndent
		return r.blocks(qs, v.Blocks)

	case doc.Rule:
		p := r.para(sc, hwpx.ParaStyle{Align: string(doc.AlignCenter)})
		cs := r.chars(sc)
		n := max(sc.width/max(cs.size, 1), 1)
		p.Text(r.charPr(cs), strings.Repeat(ruleChar, n))
		return []*hwpx.Paragraph{p}
	}
	logx.Log.Debug().Str("block", fmt.Sprintf("%T", b)).Msg("skipping unknown block")
	return nil
}

func (r *renderer) code(sc scope, c doc.CodeBlock) *hwpx.Paragraph {
	p := r.para(sc, hwpx.ParaStyle{Align: string(doc.AlignLeft)})
	cs := r.chars(sc)
	cs.style.Face = r.mono
	cp := r.charPr(cs)
	lines := strings.Split(strings.TrimRight(c.Text, "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			p.LineBreak(cp)
		}
		p.Text(cp, strings.ReplaceAll(line, "\t", "    "))
	}
	return p
}

func (r *renderer) list(sc scope, l doc.List) []*hwpx.Paragraph {
	level := min(sc.level, hwpx.MaxListLevel)
	var kind, ref string
	if l.Ordered {
		format := l.Numbering
		if format == "" {
			format = numberCycle[level%len(numberCycle)]
		}
		kind, ref = "NUMBER", r.h.Numbering(string(format), max(l.Start, 0))
	} else {
		kind, ref = "BULLET", r.h.Bullet(bulletChars[level%len(bulletChars)])
	}

	nested := sc
	nested.level = sc.level + 1
	cont := sc
	cont.indent += (level + 1) * hwpx.ListIndentPerLevel

	var out []*hwpx.Paragraph
	for _, item := range l.Items {
		rest := item
		if !startsWithList(item) {
			ps := hwpx.ListParaStyle(kind, ref, level)
			var inlines []doc.Inline
			if p, ok := firstParagraph(item); ok {
				ps.Align = string(p.Align)
				inlines = p.Inlines
				rest = item[1:]
			}
			marker := r.para(sc, ps)
			r.inlines(marker, sc, r.chars(sc), inlines)
			out = append(out, marker)
		}
		for _, b := range rest {
			if sub, ok := b.(doc.List); ok {
				out = append(out, r.list(nested, sub)...)
				continue
			}
			out = append(out, r.block(cont, b)...)
		}
	}
	return out
}

// startsWithList reports whether an item opens with a nested list, in which
// case it gets no marker of its own.
func startsWithList(item []doc.Block) bool {
	if len(item) == 0 {
		return false
	}
	_, ok := item[0].(doc.List)
	return ok
}

func firstParagraph(item []doc.Block) (doc.Paragraph, bool) {
	if len(item) == 0 {
		return doc.Paragraph{}, false
	}
	p, ok := item[0].(doc.Paragraph)
	return p, ok
}

// noteList renders collected footnotes. Notes may reference further notes,
// which are appended while the list is being rendered.
func (r *renderer) noteList(sc scope) []*hwpx.Paragraph {
	out := r.block(sc, doc.Rule{})
	for i := 0; i < len(r.notes); i++ {
		marker := doc.Text{Value: fmt.Sprintf("%d) ", i+1)}
		blocks := r.notes[i]
		if p, ok := firstParagraph(blocks); ok {
			p.Inlines = append([]doc.Inline{marker}, p.Inlines...)
			blocks = append([]doc.Block{p}, blocks[1:]...)
		} else {
			blocks = append([]doc.Block{doc.Paragraph{Inlines: []doc.Inline{marker}}}, blocks...)
		}
		out = append(out, r.blocks(sc, blocks)...)
	}
	return out
}
