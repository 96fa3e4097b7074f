// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package css

import (
	"math"
	"strconv"
	"strings"
)

// HWPUNIT conversion factors.
const (
	UnitsPerPoint = 100
	UnitsPerInch  = 7200
	UnitsPerPixel = 75 // 96 dpi

	// DefaultFontSize is 10pt, the size Hangul's Normal style ships with.
	DefaultFontSize = 1000

	minFontSize = 100    // 1pt
	maxFontSize = 409600 // 4096pt
)

var sizeKeywords = map[string]float64{
	"xx-small":  7,
	"x-small":   7.5,
	"small":     10,
	"medium":    12,
	"large":     13.5,
	"x-large":   18,
	"xx-large":  24,
	"xxx-large": 36,
}

// FontSize resolves a CSS font-size against the parent size (HWPUNIT).
// Bare numbers are taken as points.
func FontSize(v string, parent int) (int, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if parent <= 0 {
		parent = DefaultFontSize
	}
	if pt, ok := sizeKeywords[v]; ok {
		return clampSize(pt * UnitsPerPoint), true
	}
	switch v {
	case "smaller":
		return clampSize(float64(parent) * 5 / 6), true
	case "larger":
		return clampSize(float64(parent) * 6 / 5), true
	}

	num, unit := splitUnit(v)
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	switch unit {
	case "", "pt":
		return clampSize(f * UnitsPerPoint), true
	case "px":
		return clampSize(f * UnitsPerPixel), true
	case "em":
		return clampSize(f * float64(parent)), true
	case "rem":
		return clampSize(f * DefaultFontSize), true
	case "%":
		return clampSize(f * float64(parent) / 100), true
	}
	if u, ok := absoluteUnit(unit); ok {
		return clampSize(f * u), true
	}
	return 0, false
}

var htmlFontSizes = [...]float64{8, 10, 12, 14, 18, 24, 36}

// HTMLFontSize maps the legacy <font size> attribute (1-7, +n, -n; base 3).
func HTMLFontSize(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(v, "+"))
	if err != nil {
		return 0, false
	}
	if v[0] == '+' || v[0] == '-' {
		n += 3
	}
	if n < 1 {
		n = 1
	}
	if n > 7 {
		n = 7
	}
	return int(htmlFontSizes[n-1] * UnitsPerPoint), true
}

// Length converts an absolute CSS length to HWPUNIT. Bare numbers are
// pixels, as in HTML width/height attributes.
func Length(v string) (int, bool) {
	num, unit := splitUnit(strings.ToLower(strings.TrimSpace(v)))
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	if unit == "" {
		unit = "px"
	}
	u, ok := absoluteUnit(unit)
	if !ok {
		return 0, false
	}
	return int(math.Round(f * u)), true
}

// Percent reads "25%" as 0.25.
func Percent(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasSuffix(v, "%") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f / 100, true
}

func absoluteUnit(unit string) (float64, bool) {
	switch unit {
	case "px":
		return UnitsPerPixel, true
	case "pt":
		return UnitsPerPoint, true
	case "pc":
		return 12 * UnitsPerPoint, true
	case "in":
		return UnitsPerInch, true
	case "cm":
		return UnitsPerInch / 2.54, true
	case "mm":
		return UnitsPerInch / 25.4, true
	}
	return 0, false
}

func splitUnit(v string) (num, unit string) {
	i := len(v)
	for i > 0 {
		c := v[i-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		i--
	}
	return strings.TrimSpace(v[:i]), v[i:]
}

func clampSize(f float64) int {
	n := int(math.Round(f))
	if n < minFontSize {
		return minFontSize
	}
	if n > maxFontSize {
		return maxFontSize
	}
	return n
}
