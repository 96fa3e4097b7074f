// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package css parses the inline CSS subset that survives into HWPX:
// character colours, weights, decorations, sizes, font families and
// paragraph alignment. Values are normalised to HWP conventions
// (#RRGGBB colours, HWPUNIT lengths).
package css

import (
	"strings"
)

// Toggle is a tri-state flag. Off is distinct from Unset so that a nested
// `font-weight: normal` can cancel an inherited bold.
type Toggle int8

const (
	Unset Toggle = iota
	On
	Off
)

// Set reports whether the toggle carries a value.
func (t Toggle) Set() bool { return t != Unset }

// Style is the parsed form of an inline style attribute.
type Style struct {
	Color      string
	Background string

	Bold      Toggle
	Italic    Toggle
	Underline Toggle
	Strikeout Toggle

	// VerticalAlign is "super", "sub", "baseline" or empty.
	VerticalAlign string

	// FontSize is the raw CSS value; relative units are resolved against the
	// surrounding size by FontSize().
	FontSize   string
	FontFamily []string

	// TextAlign is "left", "right", "center", "justify" or empty.
	TextAlign string
}

// Parse reads a `key: value; key: value` declaration list.
// Unknown properties and values that do not parse are dropped.
func Parse(decl string) Style {
	var s Style
	for _, part := range strings.Split(decl, ";") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if value == "" {
			continue
		}
		s.apply(key, value)
	}
	return s
}

func (s *Style) apply(key, value string) {
	lower := strings.ToLower(value)
	switch key {
	case "color":
		if c, ok := Color(value); ok {
			s.Color = c
		}
	case "background-color":
		if c, ok := Color(value); ok {
			s.Background = c
		}
	case "background":
		// Shorthand: first token that reads as a colour wins.
		for _, tok := range splitFunctional(value) {
			if c, ok := Color(tok); ok {
				s.Background = c
				break
			}
		}
	case "font-weight":
		s.Bold = weight(lower)
	case "font-style":
		switch lower {
		case "italic", "oblique":
			s.Italic = On
		case "normal":
			s.Italic = Off
		}
	case "text-decoration", "text-decoration-line":
		if lower == "none" {
			s.Underline, s.Strikeout = Off, Off
			return
		}
		if strings.Contains(lower, "underline") {
			s.Underline = On
		}
		if strings.Contains(lower, "line-through") {
			s.Strikeout = On
		}
	case "font-size":
		s.FontSize = lower
	case "font-family":
		s.FontFamily = Families(value)
	case "text-align":
		switch lower {
		case "left", "start":
			s.TextAlign = "left"
		case "right", "end":
			s.TextAlign = "right"
		case "center":
			s.TextAlign = "center"
		case "justify":
			s.TextAlign = "justify"
		}
	case "vertical-align":
		switch lower {
		case "super", "sub", "baseline":
			s.VerticalAlign = lower
		}
	}
}

func weight(v string) Toggle {
	switch v {
	case "bold", "bolder", "600", "700", "800", "900":
		return On
	case "normal", "lighter", "100", "200", "300", "400", "500":
		return Off
	}
	return Unset
}

// Families splits a font-family list, stripping quotes and blanks.
func Families(v string) []string {
	var out []string
	for _, f := range strings.Split(v, ",") {
		f = strings.Trim(strings.TrimSpace(f), `"'`)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Inherit returns s layered over parent: set values in s win.
func (s Style) Inherit(parent Style) Style {
	out := parent
	if s.Color != "" {
		out.Color = s.Color
	}
	if s.Background != "" {
		out.Background = s.Background
	}
	if s.Bold.Set() {
		out.Bold = s.Bold
	}
	if s.Italic.Set() {
		out.Italic = s.Italic
	}
	if s.Underline.Set() {
		out.Underline = s.Underline
	}
	if s.Strikeout.Set() {
		out.Strikeout = s.Strikeout
	}
	if s.VerticalAlign != "" {
		out.VerticalAlign = s.VerticalAlign
	}
	if s.FontSize != "" {
		out.FontSize = s.FontSize
	}
	if len(s.FontFamily) > 0 {
		out.FontFamily = s.FontFamily
	}
	if s.TextAlign != "" {
		out.TextAlign = s.TextAlign
	}
	return out
}

// HasCharacter reports whether s changes anything at run level.
func (s Style) HasCharacter() bool {
	return s.Color != "" || s.Background != "" ||
		s.Bold.Set() || s.Italic.Set() || s.Underline.Set() || s.Strikeout.Set() ||
		s.VerticalAlign != "" || s.FontSize != "" || len(s.FontFamily) > 0
}

// IsZero reports whether no property is set.
func (s Style) IsZero() bool {
	return !s.HasCharacter() && s.TextAlign == ""
}

// splitFunctional splits on whitespace but keeps rgb(...)-style groups whole.
func splitFunctional(v string) []string {
	var (
		out   []string
		cur   strings.Builder
		depth int
	)
	for _, r := range v {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case (r == ' ' || r == '\t') && depth == 0:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
