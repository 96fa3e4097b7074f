// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/pdiddy/hwpx-convert/internal/css"
	"github.com/pdiddy/hwpx-convert/internal/doc"
)

var formats = map[string]doc.Format{
	"Strong":      doc.Bold,
	"Emph":        doc.Italic,
	"Underline":   doc.Underline,
	"Strikeout":   doc.Strikeout,
	"Superscript": doc.Superscript,
	"Subscript":   doc.Subscript,
}

var rawBreak = regexp.MustCompile(`(?i)^<br\s*/?>$`)

func decodeInlinesRaw(raw json.RawMessage) ([]doc.Inline, error) {
	var ns []node
	if err := json.Unmarshal(raw, &ns); err != nil {
		return nil, err
	}
	return decodeInlines(ns)
}

func decodeInlines(ns []node) ([]doc.Inline, error) {
	var out []doc.Inline
	for _, n := range ns {
		in, err := decodeInline(n)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", n.T, err)
		}
		out = append(out, in...)
	}
	return out, nil
}

func decodeInline(n node) ([]doc.Inline, error) {
	if f, ok := formats[n.T]; ok {
		children, err := decodeInlinesRaw(n.C)
		if err != nil {
			return nil, err
		}
		return []doc.Inline{doc.Styled{Format: f, Children: children}}, nil
	}

	switch n.T {
	case "Str":
		var s string
		if err := json.Unmarshal(n.C, &s); err != nil {
			return nil, err
		}
		return []doc.Inline{doc.Text{Value: s}}, nil

	case "Space", "SoftBreak":
		return []doc.Inline{doc.Space{}}, nil

	case "LineBreak":
		return []doc.Inline{doc.LineBreak{}}, nil

	case "SmallCaps":
		return decodeInlinesRaw(n.C)

	case "Quoted":
		var (
			kind node
			raw  json.RawMessage
		)
		if err := args(n.C, &kind, &raw); err != nil {
			return nil, err
		}
		children, err := decodeInlinesRaw(raw)
		if err != nil {
			return nil, err
		}
		lq, rq := "“", "”"
		if kind.T == "SingleQuote" {
			lq, rq = "‘", "’"
		}
		out := append([]doc.Inline{doc.Text{Value: lq}}, children...)
		return append(out, doc.Text{Value: rq}), nil

	case "Cite":
		var (
			citations json.RawMessage
			raw       json.RawMessage
		)
		if err := args(n.C, &citations, &raw); err != nil {
			return nil, err
		}
		return decodeInlinesRaw(raw)

	case "Code":
		var (
			a    attr
			text string
		)
		if err := args(n.C, &a, &text); err != nil {
			return nil, err
		}
		return []doc.Inline{doc.Code{Value: text}}, nil

	case "Math":
		var (
			kind node
			text string
		)
		if err := args(n.C, &kind, &text); err != nil {
			return nil, err
		}
		return []doc.Inline{doc.Text{Value: text}}, nil

	case "RawInline":
		var format, text string
		if err := args(n.C, &format, &text); err != nil {
			return nil, err
		}
		if (format == "html" || format == "html5") && rawBreak.MatchString(text) {
			return []doc.Inline{doc.LineBreak{}}, nil
		}
		return nil, nil

	case "Link":
		var (
			a      attr
			raw    json.RawMessage
			target [2]string
		)
		if err := args(n.C, &a, &raw, &target); err != nil {
			return nil, err
		}
		children, err := decodeInlinesRaw(raw)
		if err != nil {
			return nil, err
		}
		return styled([]doc.Inline{doc.Link{URL: target[0], Title: target[1], Children: children}}, a.style()), nil

	case "Image":
		var (
			a      attr
			raw    json.RawMessage
			target [2]string
		)
		if err := args(n.C, &a, &raw, &target); err != nil {
			return nil, err
		}
		alt, err := decodeInlinesRaw(raw)
		if err != nil {
			return nil, err
		}
		img := doc.Image{Src: target[0], Alt: doc.PlainText(alt)}
		if l, ok := css.Length(a.KV["width"]); ok {
			img.Width = l
		}
		if l, ok := css.Length(a.KV["height"]); ok {
			img.Height = l
		}
		return []doc.Inline{img}, nil

	case "Note":
		bs, err := decodeBlocksRaw(n.C)
		if err != nil {
			return nil, err
		}
		return []doc.Inline{doc.Note{Blocks: bs}}, nil

	case "Span":
		var (
			a   attr
			raw json.RawMessage
		)
		if err := args(n.C, &a, &raw); err != nil {
			return nil, err
		}
		children, err := decodeInlinesRaw(raw)
		if err != nil {
			return nil, err
		}
		return styled(children, a.style()), nil
	}
	return nil, nil
}
