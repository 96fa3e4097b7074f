// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package css

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color converts a CSS colour to the HWP form "#RRGGBB". It returns false for
// keywords that carry no concrete colour (transparent, inherit, currentcolor)
// and for anything it cannot read.
func Color(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "", "none", "transparent", "inherit", "initial", "unset", "currentcolor":
		return "", false
	}

	if c, ok := colornames.Map[v]; ok {
		return hexRGB(c.R, c.G, c.B), true
	}

	switch {
	case strings.HasPrefix(v, "#"):
		return hexColor(v[1:])
	case strings.HasPrefix(v, "rgb"):
		return rgbColor(v)
	case strings.HasPrefix(v, "hsl"):
		return hslColor(v)
	case len(v) == 6 && isHex(v):
		// Legacy presentational attributes (bgcolor="ff0000").
		return hexColor(v)
	}
	return "", false
}

func hexRGB(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return s != ""
}

func hexColor(h string) (string, bool) {
	if !isHex(h) {
		return "", false
	}
	switch len(h) {
	case 4: // #rgba
		h = h[:3]
	case 8: // #rrggbbaa
		h = h[:6]
	}
	if len(h) != 3 && len(h) != 6 {
		return "", false
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return "", false
	}
	r, g, b := c.RGB255()
	return hexRGB(r, g, b), true
}

// functionArgs returns the comma/space/slash separated arguments of f(...).
func functionArgs(v string) []string {
	open := strings.IndexByte(v, '(')
	end := strings.LastIndexByte(v, ')')
	if open < 0 || end < open {
		return nil
	}
	inner := v[open+1 : end]
	return strings.FieldsFunc(inner, func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == '\t'
	})
}

func rgbColor(v string) (string, bool) {
	args := functionArgs(v)
	if len(args) < 3 {
		return "", false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, ok := channel(args[i])
		if !ok {
			return "", false
		}
		ch[i] = n
	}
	return hexRGB(ch[0], ch[1], ch[2]), true
}

func channel(s string) (uint8, bool) {
	pct := strings.HasSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	if pct {
		f = f * 255 / 100
	}
	if f < 0 {
		f = 0
	}
	if f > 255 {
		f = 255
	}
	return uint8(f + 0.5), true
}

func hslColor(v string) (string, bool) {
	args := functionArgs(v)
	if len(args) < 3 {
		return "", false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return "", false
	}
	s, ok1 := percent(args[1])
	l, ok2 := percent(args[2])
	if !ok1 || !ok2 {
		return "", false
	}
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return hexRGB(r, g, b), true
}

func percent(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	f /= 100
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return f, true
}
