// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strconv"
	"strings"

	"github.com/pdiddy/hwpx-convert/internal/css"
	"github.com/pdiddy/hwpx-convert/internal/doc"
	"github.com/pdiddy/hwpx-convert/internal/hwpx"
	"github.com/pdiddy/hwpx-convert/internal/logx"
)

// linkColor is applied to link text that has no colour of its own.
const linkColor = "#0000FF"

// charState is the run look while walking inlines.
type charState struct {
	base  string
	style hwpx.CharStyle
	// size is the effective height, used to resolve relative font sizes.
	size int
}

func (r *renderer) chars(sc scope) charState {
	cs := charState{base: sc.charPr, size: r.h.CharHeight(sc.charPr)}
	cs.style.Set = sc.format
	return cs
}

func (r *renderer) charPr(cs charState) string {
	return r.h.CharPr(cs.base, cs.style)
}

// with turns formats on, cancelling an opposite vertical offset.
func (cs charState) with(f hwpx.Format) charState {
	if f.Has(hwpx.Superscript) {
		cs = cs.without(hwpx.Subscript)
	}
	if f.Has(hwpx.Subscript) {
		cs = cs.without(hwpx.Superscript)
	}
	cs.style.Set |= f
	cs.style.Clear &^= f
	return cs
}

// without turns formats off, including ones the base charPr carries.
func (cs charState) without(f hwpx.Format) charState {
	cs.style.Set &^= f
	cs.style.Clear |= f
	return cs
}

func toggle(cs charState, t css.Toggle, f hwpx.Format) charState {
	switch t {
	case css.On:
		return cs.with(f)
	case css.Off:
		return cs.without(f)
	}
	return cs
}

// styled layers an inline CSS style over cs.
func (r *renderer) styled(cs charState, s css.Style) charState {
	if s.Color != "" {
		cs.style.Color = s.Color
	}
	if s.Background != "" {
		cs.style.Shade = s.Background
	}
	cs = toggle(cs, s.Bold, hwpx.Bold)
	cs = toggle(cs, s.Italic, hwpx.Italic)
	cs = toggle(cs, s.Underline, hwpx.Underline)
	cs = toggle(cs, s.Strikeout, hwpx.Strikeout)
	switch s.VerticalAlign {
	case "super":
		cs = cs.with(hwpx.Superscript)
	case "sub":
		cs = cs.with(hwpx.Subscript)
	case "baseline":
		cs = cs.without(hwpx.Superscript | hwpx.Subscript)
	}
	if s.FontSize != "" {
		if n, ok := css.FontSize(s.FontSize, cs.size); ok {
			cs.style.Height = n
			cs.size = n
		}
	}
	if len(s.FontFamily) > 0 {
		if face, ok := r.fonts.Resolve(s.FontFamily); ok {
			cs.style.Face = face
		}
	}
	return cs
}

func (r *renderer) inlines(p *hwpx.Paragraph, sc scope, cs charState, ins []doc.Inline) {
	for _, in := range ins {
		switch v := in.(type) {
		case doc.Text:
			p.Text(r.charPr(cs), v.Value)
		case doc.Space:
			p.Text(r.charPr(cs), " ")
		case doc.LineBreak:
			p.LineBreak(r.charPr(cs))
		case doc.Styled:
			r.inlines(p, sc, cs.with(hwpx.Format(v.Format)), v.Children)
		case doc.Span:
			r.inlines(p, sc, r.styled(cs, v.Style), v.Children)
		case doc.Code:
			mono := cs
			mono.style.Face = r.mono
			p.Text(r.charPr(mono), v.Value)
		case doc.Link:
			r.link(p, sc, cs, v)
		case doc.Image:
			r.image(p, sc, cs, v)
		case doc.Note:
			r.notes = append(r.notes, v.Blocks)
			r.stats.Notes++
			p.Text(r.charPr(cs.with(hwpx.Superscript)), strconv.Itoa(len(r.notes)))
		}
	}
}

func (r *renderer) link(p *hwpx.Paragraph, sc scope, cs charState, l doc.Link) {
	if !r.opts.Links || !linkable(l.URL) {
		r.inlines(p, sc, cs, l.Children)
		return
	}
	label := cs.with(hwpx.Underline)
	if label.style.Color == "" {
		label.style.Color = linkColor
	}
	children := l.Children
	if doc.IsBlank(children) {
		children = []doc.Inline{doc.Text{Value: l.URL}}
	}
	id := r.sec.NextID()
	p.FieldBegin(r.charPr(cs), id, l.URL)
	r.inlines(p, sc, label, children)
	p.FieldEnd(r.charPr(cs), id)
	r.stats.Links++
}

// linkable reports whether a URL can become a hyperlink field. In-page
// anchors and script URLs stay plain text.
func linkable(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" || strings.HasPrefix(url, "#") {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(url), "javascript:")
}

func (r *renderer) warn(err error, src string) {
	logx.Log.Warn().Err(err).Str("src", shorten(src)).Msg("image not embedded, using alt text")
}

func shorten(s string) string {
	const n = 80
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
