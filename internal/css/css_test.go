// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"red", "#FF0000", true},
		{"  Navy ", "#000080", true},
		{"cornflowerblue", "#6495ED", true},
		{"#abc", "#AABBCC", true},
		{"#A1B2C3", "#A1B2C3", true},
		{"#11223344", "#112233", true},
		{"rgb(255, 0, 128)", "#FF0080", true},
		{"rgba(0,0,0,0.5)", "#000000", true},
		{"rgb(100% 0% 50%)", "#FF0080", true},
		{"rgb(300, -4, 10)", "#FF000A", true},
		{"hsl(120, 100%, 25%)", "#008000", true},
		{"hsla(0deg 100% 50% / 0.3)", "#FF0000", true},
		{"ff8800", "#FF8800", true},
		{"transparent", "", false},
		{"currentColor", "", false},
		{"#12", "", false},
		{"#xyzxyz", "", false},
		{"rgb(1,2)", "", false},
		{"not-a-colour", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Color(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	s := Parse(`color: #f00; background: url(x.png) rgb(0, 0, 255) no-repeat; font-weight: 700;
		font-style: oblique; text-decoration: underline line-through; font-size: 14px;
		font-family: "Malgun Gothic", 'Noto Sans', sans-serif; text-align: CENTER; bogus; : x`)

	assert.Equal(t, "#FF0000", s.Color)
	assert.Equal(t, "#0000FF", s.Background)
	assert.Equal(t, On, s.Bold)
	assert.Equal(t, On, s.Italic)
	assert.Equal(t, On, s.Underline)
	assert.Equal(t, On, s.Strikeout)
	assert.Equal(t, "14px", s.FontSize)
	assert.Equal(t, []string{"Malgun Gothic", "Noto Sans", "sans-serif"}, s.FontFamily)
	assert.Equal(t, "center", s.TextAlign)
}

func TestParse_IgnoresBadValues(t *testing.T) {
	s := Parse("color: nonsense; font-weight: heavy; background-color: transparent")
	assert.True(t, s.IsZero())
}

func TestParse_Important(t *testing.T) {
	s := Parse("color: blue !important")
	assert.Equal(t, "#0000FF", s.Color)
}

func TestInherit(t *testing.T) {
	parent := Parse("color: red; font-weight: bold; font-size: 12pt")
	child := Parse("font-weight: normal; text-decoration: underline")

	got := child.Inherit(parent)
	assert.Equal(t, "#FF0000", got.Color)
	assert.Equal(t, Off, got.Bold)
	assert.Equal(t, On, got.Underline)
	assert.Equal(t, "12pt", got.FontSize)

	none := Parse("text-decoration: none").Inherit(got)
	assert.Equal(t, Off, none.Underline)
	assert.Equal(t, Off, none.Strikeout)
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		in     string
		parent int
		want   int
		wantOK bool
	}{
		{"11pt", 0, 1100, true},
		{"11", 0, 1100, true},
		{"16px", 0, 1200, true},
		{"1.5em", 1000, 1500, true},
		{"2rem", 1400, 2000, true},
		{"150%", 1200, 1800, true},
		{"large", 0, 1350, true},
		{"smaller", 1200, 1000, true},
		{"0.5mm", 0, 142, true},
		{"0.001pt", 0, 100, true},
		{"big", 0, 0, false},
		{"-3pt", 0, 0, false},
		{"12vw", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := FontSize(tt.in, tt.parent)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTMLFontSize(t *testing.T) {
	for in, want := range map[string]int{"1": 800, "3": 1200, "7": 3600, "+2": 1800, "-1": 1000, "9": 3600} {
		got, ok := HTMLFontSize(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := HTMLFontSize("x")
	assert.False(t, ok)
}

func TestLength(t *testing.T) {
	for in, want := range map[string]int{"100": 7500, "100px": 7500, "1in": 7200, "2.54cm": 7200, "10pt": 1000} {
		got, ok := Length(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := Length("50%")
	assert.False(t, ok)

	p, ok := Percent("25%")
	require.True(t, ok)
	assert.InDelta(t, 0.25, p, 1e-9)
}
