// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandoc reads pandoc's JSON AST into a doc.Document, and runs pandoc
// (locally or in a container) to obtain that AST from Markdown, DOCX, ODT
// and the other formats pandoc understands.
package pandoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/hwpx-convert/internal/css"
	"github.com/pdiddy/hwpx-convert/internal/doc"
	"github.com/pdiddy/hwpx-convert/internal/htmlread"
)

// ErrUnsupportedAPI is returned for ASTs older than pandoc-types 1.22
// (pandoc 2.11), whose block encodings differ.
var ErrUnsupportedAPI = errors.New("unsupported pandoc API version")

// minAPIMinor is the oldest supported 1.x pandoc-types minor version.
const minAPIMinor = 22

type node struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c"`
}

type document struct {
	APIVersion []int           `json:"pandoc-api-version"`
	Meta       map[string]node `json:"meta"`
	Blocks     []node          `json:"blocks"`
}

type attr struct {
	ID      string
	Classes []string
	KV      map[string]string
}

func (a *attr) UnmarshalJSON(b []byte) error {
	var raw struct {
		id      string
		classes []string
		kv      [][2]string
	}
	parts := []any{&raw.id, &raw.classes, &raw.kv}
	if err := json.Unmarshal(b, &parts); err != nil {
		return fmt.Errorf("decoding attr: %w", err)
	}
	a.ID, a.Classes = raw.id, raw.classes
	a.KV = make(map[string]string, len(raw.kv))
	for _, kv := range raw.kv {
		a.KV[kv[0]] = kv[1]
	}
	return nil
}

func (a attr) style() css.Style {
	return css.Parse(a.KV["style"])
}

// Decode reads a pandoc JSON AST.
func Decode(r io.Reader) (*doc.Document, error) {
	var d document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding pandoc json: %w", err)
	}
	if len(d.APIVersion) < 2 || d.APIVersion[0] != 1 || d.APIVersion[1] < minAPIMinor {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAPI, d.APIVersion)
	}

	out := &doc.Document{}
	if t, ok := d.Meta["title"]; ok {
		title, err := metaText(t)
		if err != nil {
			return nil, err
		}
		out.Title = title
	}
	bs, err := decodeBlocks(d.Blocks)
	if err != nil {
		return nil, err
	}
	out.Blocks = bs
	return out, nil
}

func metaText(n node) (string, error) {
	switch n.T {
	case "MetaString":
		var s string
		err := json.Unmarshal(n.C, &s)
		return s, err
	case "MetaInlines":
		ins, err := decodeInlinesRaw(n.C)
		return doc.PlainText(ins), err
	case "MetaBlocks":
		var bs []node
		if err := json.Unmarshal(n.C, &bs); err != nil {
			return "", err
		}
		blocks, err := decodeBlocks(bs)
		if err != nil {
			return "", err
		}
		for _, b := range blocks {
			if p, ok := b.(doc.Paragraph); ok {
				return doc.PlainText(p.Inlines), nil
			}
		}
	}
	return "", nil
}

// args unmarshals a JSON array into the given targets, in order.
func args(raw json.RawMessage, targets ...any) error {
	return json.Unmarshal(raw, &targets)
}

func decodeBlocksRaw(raw json.RawMessage) ([]doc.Block, error) {
	var ns []node
	if err := json.Unmarshal(raw, &ns); err != nil {
		return nil, err
	}
	return decodeBlocks(ns)
}

func decodeBlocks(ns []node) ([]doc.Block, error) {
	var out []doc.Block
	for _, n := range ns {
		bs, err := decodeBlock(n)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", n.T, err)
		}
		out = append(out, bs...)
	}
	return out, nil
}

func decodeBlock(n node) ([]doc.Block, error) {
	switch n.T {
	case "Plain", "Para":
		ins, err := decodeInlinesRaw(n.C)
		if err != nil || len(ins) == 0 {
			return nil, err
		}
		return []doc.Block{doc.Paragraph{Inlines: ins}}, nil

	case "LineBlock":
		var lines []json.RawMessage
		if err := json.Unmarshal(n.C, &lines); err != nil {
			return nil, err
		}
		var ins []doc.Inline
		for i, l := range lines {
			li, err := decodeInlinesRaw(l)
			if err != nil {
				return nil, err
			}
			if i > 0 {
				ins = append(ins, doc.LineBreak{})
			}
			ins = append(ins, li...)
		}
		return []doc.Block{doc.Paragraph{Inlines: ins}}, nil

	case "CodeBlock":
		var (
			a    attr
			text string
		)
		if err := args(n.C, &a, &text); err != nil {
			return nil, err
		}
		cb := doc.CodeBlock{Text: text}
		if len(a.Classes) > 0 {
			cb.Lang = a.Classes[0]
		}
		return []doc.Block{cb}, nil

	case "RawBlock":
		var format, text string
		if err := args(n.C, &format, &text); err != nil {
			return nil, err
		}
		if format != "html" && format != "html5" {
			return nil, nil
		}
		d, err := htmlread.Read(strings.NewReader(text), htmlread.Options{})
		if err != nil {
			return nil, err
		}
		return d.Blocks, nil

	case "BlockQuote":
		bs, err := decodeBlocksRaw(n.C)
		if err != nil {
			return nil, err
		}
		return []doc.Block{doc.Quote{Blocks: bs}}, nil

	case "OrderedList":
		var (
			listAttrs []json.RawMessage
			items     []json.RawMessage
		)
		if err := args(n.C, &listAttrs, &items); err != nil {
			return nil, err
		}
		l := doc.List{Ordered: true, Start: 1, Numbering: doc.NumberDecimal}
		if len(listAttrs) > 0 {
			if err := json.Unmarshal(listAttrs[0], &l.Start); err != nil {
				return nil, err
			}
		}
		if len(listAttrs) > 1 {
			var style node
			if err := json.Unmarshal(listAttrs[1], &style); err != nil {
				return nil, err
			}
			l.Numbering = numbering(style.T)
		}
		var err error
		if l.Items, err = decodeItems(items); err != nil {
			return nil, err
		}
		return []doc.Block{l}, nil

	case "BulletList":
		var items []json.RawMessage
		if err := json.Unmarshal(n.C, &items); err != nil {
			return nil, err
		}
		l := doc.List{Start: 1}
		var err error
		if l.Items, err = decodeItems(items); err != nil {
			return nil, err
		}
		return []doc.Block{l}, nil

	case "DefinitionList":
		var entries []json.RawMessage
		if err := json.Unmarshal(n.C, &entries); err != nil {
			return nil, err
		}
		var out []doc.Block
		for _, e := range entries {
			var (
				term json.RawMessage
				defs []json.RawMessage
			)
			if err := args(e, &term, &defs); err != nil {
				return nil, err
			}
			ins, err := decodeInlinesRaw(term)
			if err != nil {
				return nil, err
			}
			out = append(out, doc.Paragraph{Inlines: []doc.Inline{doc.Styled{Format: doc.Bold, Children: ins}}})
			for _, d := range defs {
				bs, err := decodeBlocksRaw(d)
				if err != nil {
					return nil, err
				}
				out = append(out, doc.Quote{Blocks: bs})
			}
		}
		return out, nil

	case "Header":
		var (
			level int
			a     attr
			raw   json.RawMessage
		)
		if err := args(n.C, &level, &a, &raw); err != nil {
			return nil, err
		}
		ins, err := decodeInlinesRaw(raw)
		if err != nil {
			return nil, err
		}
		s := a.style()
		h := doc.Heading{Level: level, Inlines: styled(ins, s), Align: doc.AlignFromCSS(s.TextAlign)}
		return []doc.Block{h}, nil

	case "HorizontalRule":
		return []doc.Block{doc.Rule{}}, nil

	case "Table":
		t, err := decodeTable(n.C)
		if err != nil {
			return nil, err
		}
		return []doc.Block{t}, nil

	case "Figure":
		var (
			a       attr
			caption []json.RawMessage
			body    json.RawMessage
		)
		if err := args(n.C, &a, &caption, &body); err != nil {
			return nil, err
		}
		bs, err := decodeBlocksRaw(body)
		if err != nil {
			return nil, err
		}
		if len(caption) > 1 {
			cbs, err := decodeBlocksRaw(caption[1])
			if err != nil {
				return nil, err
			}
			for _, b := range cbs {
				if p, ok := b.(doc.Paragraph); ok {
					p.Align = doc.AlignCenter
					b = p
				}
				bs = append(bs, b)
			}
		}
		return bs, nil

	case "Div":
		var (
			a   attr
			raw json.RawMessage
		)
		if err := args(n.C, &a, &raw); err != nil {
			return nil, err
		}
		bs, err := decodeBlocksRaw(raw)
		if err != nil {
			return nil, err
		}
		return styleBlocks(bs, a.style()), nil
	}
	// Null and unknown future blocks carry nothing we can render.
	return nil, nil
}

func decodeItems(items []json.RawMessage) ([][]doc.Block, error) {
	out := make([][]doc.Block, 0, len(items))
	for _, it := range items {
		bs, err := decodeBlocksRaw(it)
		if err != nil {
			return nil, err
		}
		if len(bs) == 0 {
			bs = []doc.Block{doc.Paragraph{}}
		}
		out = append(out, bs)
	}
	return out, nil
}

func numbering(style string) doc.Numbering {
	switch style {
	case "LowerAlpha":
		return doc.NumberLowerAlpha
	case "UpperAlpha":
		return doc.NumberUpperAlpha
	case "LowerRoman":
		return doc.NumberLowerRoman
	case "UpperRoman":
		return doc.NumberUpperRoman
	}
	return doc.NumberDecimal
}

// styled wraps inlines in a span when s carries character properties.
func styled(ins []doc.Inline, s css.Style) []doc.Inline {
	s.TextAlign = ""
	if len(ins) == 0 || !s.HasCharacter() {
		return ins
	}
	return []doc.Inline{doc.Span{Style: s, Children: ins}}
}

// styleBlocks pushes a Div's style down onto the paragraphs it contains.
func styleBlocks(bs []doc.Block, s css.Style) []doc.Block {
	if s.IsZero() {
		return bs
	}
	align := doc.AlignFromCSS(s.TextAlign)
	out := make([]doc.Block, len(bs))
	for i, b := range bs {
		switch v := b.(type) {
		case doc.Paragraph:
			v.Inlines = styled(v.Inlines, s)
			if v.Align == doc.AlignDefault {
				v.Align = align
			}
			b = v
		case doc.Heading:
			v.Inlines = styled(v.Inlines, s)
			if v.Align == doc.AlignDefault {
				v.Align = align
			}
			b = v
		case doc.Quote:
			v.Blocks = styleBlocks(v.Blocks, s)
			b = v
		case doc.List:
			items := make([][]doc.Block, len(v.Items))
			for j, it := range v.Items {
				items[j] = styleBlocks(it, s)
			}
			v.Items = items
			b = v
		}
		out[i] = b
	}
	return out
}
