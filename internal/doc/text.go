// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doc

import "strings"

// PlainText flattens inlines to their visible text.
func PlainText(inlines []Inline) string {
	var b strings.Builder
	writePlain(&b, inlines)
	return b.String()
}

func writePlain(b *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch v := in.(type) {
		case Text:
			b.WriteString(v.Value)
		case Space:
			b.WriteByte(' ')
		case LineBreak:
			b.WriteByte('\n')
		case Code:
			b.WriteString(v.Value)
		case Styled:
			writePlain(b, v.Children)
		case Span:
			writePlain(b, v.Children)
		case Link:
			writePlain(b, v.Children)
		case Image:
			b.WriteString(v.Alt)
		}
	}
}

// Words splits text into Text and Space inlines, collapsing whitespace runs.
func Words(s string) []Inline {
	var out []Inline
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return []Inline{Space{}}
		}
		return nil
	}
	if startsSpace(s) {
		out = append(out, Space{})
	}
	for i, f := range fields {
		if i > 0 {
			out = append(out, Space{})
		}
		out = append(out, Text{Value: f})
	}
	if endsSpace(s) {
		out = append(out, Space{})
	}
	return out
}

func startsSpace(s string) bool {
	return strings.TrimLeft(s, " \t\r\n\f") != s
}

func endsSpace(s string) bool {
	return strings.TrimRight(s, " \t\r\n\f") != s
}

// Trim collapses whitespace across element boundaries and removes leading
// and trailing Space/LineBreak inlines, descending into containers.
func Trim(inlines []Inline) []Inline {
	prev := true
	return trimTrailing(collapse(inlines, &prev))
}

func collapse(in []Inline, prevSpace *bool) []Inline {
	out := make([]Inline, 0, len(in))
	for _, x := range in {
		switch v := x.(type) {
		case Space:
			if *prevSpace {
				continue
			}
			*prevSpace = true
			out = append(out, v)
		case LineBreak:
			if n := len(out); n > 0 {
				if _, ok := out[n-1].(Space); ok {
					out = out[:n-1]
				}
			}
			*prevSpace = true
			out = append(out, v)
		case Styled:
			v.Children = collapse(v.Children, prevSpace)
			out = append(out, v)
		case Span:
			v.Children = collapse(v.Children, prevSpace)
			out = append(out, v)
		case Link:
			v.Children = collapse(v.Children, prevSpace)
			out = append(out, v)
		default:
			*prevSpace = false
			out = append(out, x)
		}
	}
	return out
}

func trimTrailing(in []Inline) []Inline {
	for len(in) > 0 {
		last := len(in) - 1
		switch v := in[last].(type) {
		case Space, LineBreak:
			in = in[:last]
			continue
		case Styled:
			v.Children = trimTrailing(v.Children)
			if len(v.Children) == 0 {
				in = in[:last]
				continue
			}
			in[last] = v
		case Span:
			v.Children = trimTrailing(v.Children)
			if len(v.Children) == 0 {
				in = in[:last]
				continue
			}
			in[last] = v
		case Link:
			v.Children = trimTrailing(v.Children)
			in[last] = v
		}
		break
	}
	return in
}

// IsBlank reports whether inlines carry no visible content.
func IsBlank(inlines []Inline) bool {
	for _, in := range inlines {
		switch v := in.(type) {
		case Space, LineBreak:
		case Text:
			if strings.TrimSpace(v.Value) != "" {
				return false
			}
		case Styled:
			if !IsBlank(v.Children) {
				return false
			}
		case Span:
			if !IsBlank(v.Children) {
				return false
			}
		case Link:
			if !IsBlank(v.Children) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
