// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/hwpx-convert/internal/css"
	"github.com/pdiddy/hwpx-convert/internal/doc"
	"github.com/pdiddy/hwpx-convert/internal/hwpx"
	"github.com/pdiddy/hwpx-convert/internal/images"
)

func newPackage(t *testing.T) *hwpx.Package {
	t.Helper()
	pkg, err := hwpx.NewPackage(hwpx.Blank())
	require.NoError(t, err)
	return pkg
}

func render(t *testing.T, d *doc.Document, opts Options) (*hwpx.Package, Stats) {
	t.Helper()
	pkg := newPackage(t)
	stats, err := Render(context.Background(), d, pkg, opts)
	require.NoError(t, err)
	return pkg, stats
}

func sectionRoot(t *testing.T, pkg *hwpx.Package) *etree.Element {
	t.Helper()
	data, err := pkg.Section.Bytes()
	require.NoError(t, err)
	d := etree.NewDocument()
	require.NoError(t, d.ReadFromBytes(data))
	return d.Root()
}

func headerRoot(t *testing.T, pkg *hwpx.Package) *etree.Element {
	t.Helper()
	data, err := pkg.Header.Bytes()
	require.NoError(t, err)
	d := etree.NewDocument()
	require.NoError(t, d.ReadFromBytes(data))
	return d.Root()
}

// text joins the character data of every hp:t below e.
func text(e *etree.Element) string {
	var b strings.Builder
	for _, t := range e.FindElements(".//hp:t") {
		for _, c := range t.Child {
			switch c := c.(type) {
			case *etree.CharData:
				b.WriteString(c.Data)
			case *etree.Element:
				if c.Tag == "lineBreak" {
					b.WriteByte('\n')
				}
			}
		}
	}
	return b.String()
}

func paragraphs(t *testing.T, pkg *hwpx.Package) []*etree.Element {
	return sectionRoot(t, pkg).SelectElements("hp:p")
}

func words(s string) []doc.Inline { return doc.Words(s) }

func TestRenderParagraphsAndHeadings(t *testing.T) {
	d := &doc.Document{Blocks: []doc.Block{
		doc.Heading{Level: 1, Inlines: words("Annual report")},
		doc.Paragraph{Inlines: append(words("Hello "), doc.Styled{Format: doc.Bold, Children: words("bold")})},
		doc.Paragraph{Inlines: words("centred"), Align: doc.AlignCenter},
	}}
	pkg, stats := render(t, d, Options{})
	assert.Equal(t, 3, stats.Paragraphs)

	ps := paragraphs(t, pkg)
	require.Len(t, ps, 3)
	// The heading is merged into the template's first paragraph, which
	// keeps the section properties.
	assert.NotNil(t, ps[0].FindElement(".//hp:secPr"))
	assert.Equal(t, "2", ps[0].SelectAttrValue("styleIDRef", ""), "Outline 1 style")
	assert.Equal(t, "Annual report", text(ps[0]))

	runs := ps[1].SelectElements("hp:run")
	require.Len(t, runs, 2)
	assert.Equal(t, "0", runs[0].SelectAttrValue("charPrIDRef", ""))
	assert.Equal(t, "Hello ", text(runs[0]))
	bold := runs[1].SelectAttrValue("charPrIDRef", "")
	assert.NotEqual(t, "0", bold)

	h := headerRoot(t, pkg)
	cp := h.FindElement(fmt.Sprintf(".//hh:charPr[@id='%s']", bold))
	require.NotNil(t, cp)
	assert.NotNil(t, cp.SelectElement("hh:bold"))

	pp := h.FindElement(fmt.Sprintf(".//hh:paraPr[@id='%s']", ps[2].SelectAttrValue("paraPrIDRef", "")))
	require.NotNil(t, pp)
	assert.Equal(t, "CENTER", pp.SelectElement("hh:align").SelectAttrValue("horizontal", ""))

	assert.Equal(t, "Annual report", pkg.Title)
	assert.Equal(t, "Annual report\r\nHello bold\r\ncentred", pkg.Preview)
}

func TestRenderTitleFromDocument(t *testing.T) {
	d := &doc.Document{Title: "Given", Blocks: []doc.Block{doc.Heading{Level: 2, Inlines: words("Other")}}}
	pkg, _ := render(t, d, Options{})
	assert.Equal(t, "Given", pkg.Title)
}

func TestRenderCharacterStyles(t *testing.T) {
	style := css.Style{
		Color:      "#FF0000",
		Background: "#FFFF00",
		FontSize:   "14pt",
		FontFamily: []string{"Nonexistent", "monospace"},
		Italic:     css.On,
	}
	d := &doc.Document{Blocks: []doc.Block{
		doc.Paragraph{Inlines: []doc.Inline{doc.Span{Style: style, Children: words("red")}}},
	}}
	pkg, _ := render(t, d, Options{})

	run := paragraphs(t, pkg)[0].FindElement(".//hp:run[hp:t]")
	require.NotNil(t, run)
	id := run.SelectAttrValue("charPrIDRef", "")

	h := headerRoot(t, pkg)
	cp := h.FindElement(fmt.Sprintf(".//hh:charPr[@id='%s']", id))
	require.NotNil(t, cp)
	assert.Equal(t, "#FF0000", cp.SelectAttrValue("textColor", ""))
	assert.Equal(t, "#FFFF00", cp.SelectAttrValue("shadeColor", ""))
	assert.Equal(t, "1400", cp.SelectAttrValue("height", ""))
	assert.NotNil(t, cp.SelectElement("hh:italic"))

	// monospace maps to a face the blank template lacks, so it is added.
	assert.NotNil(t, h.FindElement(".//hh:fontface[@lang='HANGUL']/hh:font[@face='굴림체']"))
}

func TestRenderRelativeSizeAndCancel(t *testing.T) {
	inner := doc.Span{Style: css.Style{FontSize: "50%"}, Children: words("small")}
	d := &doc.Document{Blocks: []doc.Block{
		doc.Paragraph{Inlines: []doc.Inline{doc.Span{Style: css.Style{FontSize: "20pt"}, Children: []doc.Inline{inner}}}},
	}}
	pkg, _ := render(t, d, Options{})
	run := paragraphs(t, pkg)[0].FindElement(".//hp:run[hp:t]")
	require.NotNil(t, run)
	h := headerRoot(t, pkg)
	cp := h.FindElement(fmt.Sprintf(".//hh:charPr[@id='%s']", run.SelectAttrValue("charPrIDRef", "")))
	require.NotNil(t, cp)
	assert.Equal(t, "1000", cp.SelectAttrValue("height", ""))
}

func TestRenderNestedRelativeSizes(t *testing.T) {
	tests := []struct {
		outer, inner string
		want         string
	}{
		{"200%", "50%", "1000"},
		{"2em", "150%", "3000"},
		{"20pt", "smaller", "1667"},
	}
	for _, tt := range tests {
		t.Run(tt.outer+"/"+tt.inner, func(t *testing.T) {
			inner := doc.Span{Style: css.Style{FontSize: tt.inner}, Children: words("x")}
			d := &doc.Document{Blocks: []doc.Block{
				doc.Paragraph{Inlines: []doc.Inline{doc.Span{Style: css.Style{FontSize: tt.outer}, Children: []doc.Inline{inner}}}},
			}}
			pkg, _ := render(t, d, Options{})
			run := paragraphs(t, pkg)[0].FindElement(".//hp:run[hp:t]")
			require.NotNil(t, run)
			cp := headerRoot(t, pkg).FindElement(fmt.Sprintf(".//hh:charPr[@id='%s']", run.SelectAttrValue("charPrIDRef", "")))
			require.NotNil(t, cp)
			assert.Equal(t, tt.want, cp.SelectAttrValue("height", ""))
		})
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Render(ctx, &doc.Document{Blocks: []doc.Block{doc.Paragraph{Inlines: words("x")}}}, newPackage(t), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderLists(t *testing.T) {
	d := &doc.Document{Blocks: []doc.Block{
		doc.List{Items: [][]doc.Block{
			{doc.Paragraph{Inlines: words("apple")}},
			{
				doc.Paragraph{Inlines: words("banana")},
				doc.List{Ordered: true, Start: 3, Items: [][]doc.Block{{doc.Paragraph{Inlines: words("cherry")}}}},
				doc.Paragraph{Inlines: words("more banana")},
			},
		}},
	}}
	pkg, _ := render(t, d, Options{})
	ps := paragraphs(t, pkg)
	require.Len(t, ps, 4)
	assert.Equal(t, "apple", text(ps[0]))
	assert.Equal(t, "cherry", text(ps[2]))

	h := headerRoot(t, pkg)
	paraPr := func(p *etree.Element) *etree.Element {
		e := h.FindElement(fmt.Sprintf(".//hh:paraPr[@id='%s']", p.SelectAttrValue("paraPrIDRef", "")))
		require.NotNil(t, e)
		return e
	}

	bullet := h.FindElement(".//hh:bullets/hh:bullet[@char='●']")
	require.NotNil(t, bullet)
	hd := paraPr(ps[0]).SelectElement("hh:heading")
	require.NotNil(t, hd)
	assert.Equal(t, "BULLET", hd.SelectAttrValue("type", ""))
	assert.Equal(t, bullet.SelectAttrValue("id", ""), hd.SelectAttrValue("idRef", ""))
	assert.Equal(t, "0", hd.SelectAttrValue("level", ""))
	assert.Equal(t, ps[0].SelectAttrValue("paraPrIDRef", ""), ps[1].SelectAttrValue("paraPrIDRef", ""))

	num := paraPr(ps[2])
	hd = num.SelectElement("hh:heading")
	assert.Equal(t, "NUMBER", hd.SelectAttrValue("type", ""))
	assert.Equal(t, "1", hd.SelectAttrValue("level", ""))
	numbering := h.FindElement(fmt.Sprintf(".//hh:numbering[@id='%s']", hd.SelectAttrValue("idRef", "")))
	require.NotNil(t, numbering)
	assert.Equal(t, "3", numbering.SelectAttrValue("start", ""))
	assert.Equal(t, "LATIN_SMALL", numbering.SelectElement("hh:paraHead").SelectAttrValue("numFormat", ""))
	for _, l := range num.FindElements(".//hc:left") {
		assert.Equal(t, "4000", l.SelectAttrValue("value", ""))
	}

	// A continuation paragraph lines up with its item's text.
	cont := paraPr(ps[3])
	if hd := cont.SelectElement("hh:heading"); hd != nil {
		assert.Equal(t, "NONE", hd.SelectAttrValue("type", ""))
	}
	for _, l := range cont.FindElements(".//hc:left") {
		assert.Equal(t, "2000", l.SelectAttrValue("value", ""))
	}
}

func TestRenderListStart(t *testing.T) {
	tests := []struct {
		start int
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{7, "7"},
		{-2, "0"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.start), func(t *testing.T) {
			d := &doc.Document{Blocks: []doc.Block{
				doc.List{Ordered: true, Start: tt.start, Items: [][]doc.Block{{doc.Paragraph{Inlines: words("item")}}}},
			}}
			pkg, _ := render(t, d, Options{})
			h := headerRoot(t, pkg)
			pp := h.FindElement(fmt.Sprintf(".//hh:paraPr[@id='%s']", paragraphs(t, pkg)[0].SelectAttrValue("paraPrIDRef", "")))
			require.NotNil(t, pp)
			hd := pp.SelectElement("hh:heading")
			require.NotNil(t, hd)
			numbering := h.FindElement(fmt.Sprintf(".//hh:numbering[@id='%s']", hd.SelectAttrValue("idRef", "")))
			require.NotNil(t, numbering)
			assert.Equal(t, tt.want, numbering.SelectAttrValue("start", ""))
		})
	}
}

func TestRenderQuoteAndCode(t *testing.T) {
	d := &doc.Document{Blocks: []doc.Block{
		doc.Quote{Blocks: []doc.Block{doc.Paragraph{Inlines: words("quoted")}}},
		doc.CodeBlock{Text: "a := 1\n\tb()\n"},
		doc.Rule{},
	}}
	pkg, _ := render(t, d, Options{})
	ps := paragraphs(t, pkg)
	require.Len(t, ps, 3)

	h := headerRoot(t, pkg)
	quote := h.FindElement(fmt.Sprintf(".//hh:paraPr[@id='%s']", ps[0].SelectAttrValue("paraPrIDRef", "")))
	require.NotNil(t, quote)
	for _, l := range quote.FindElements(".//hc:left") {
		assert.Equal(t, "2000", l.SelectAttrValue("value", ""))
	}

	assert.Equal(t, "a := 1\n    b()", text(ps[1]))
	assert.Len(t, ps[1].FindElements(".//hp:lineBreak"), 1)

	rule := text(ps[2])
	assert.Equal(t, 45, len([]rune(rule)), "text width / 10pt")
	assert.Equal(t, strings.Repeat("─", 45), rule)
}

func TestRenderLinks(t *testing.T) {
	d := &doc.Document{Blocks: []doc.Block{
		doc.Paragraph{Inlines: []doc.Inline{
			doc.Link{URL: "https://example.com/a", Children: words("site")},
			doc.Space{},
			doc.Link{URL: "#top", Children: words("top")},
		}},
	}}

	pkg, stats := render(t, d, Options{Links: true})
	assert.Equal(t, 1, stats.Links)
	p := paragraphs(t, pkg)[0]
	begin := p.FindElement(".//hp:fieldBegin")
	require.NotNil(t, begin)
	assert.Equal(t, "HYPERLINK", begin.SelectAttrValue("type", ""))
	cmd := begin.FindElement(".//hp:stringParam[@name='Command']")
	require.NotNil(t, cmd)
	assert.Equal(t, `https\://example.com/a;1;0;0;`, cmd.Text())
	end := p.FindElement(".//hp:fieldEnd")
	require.NotNil(t, end)
	assert.Equal(t, begin.SelectAttrValue("id", ""), end.SelectAttrValue("beginIDRef", ""))
	assert.Equal(t, "site top", text(p))

	pkg, stats = render(t, d, Options{Links: false})
	assert.Zero(t, stats.Links)
	p = paragraphs(t, pkg)[0]
	assert.Nil(t, p.FindElement(".//hp:fieldBegin"))
	assert.Equal(t, "site top", text(p))
}

type fakeImages struct {
	calls int
	imgs  map[string]*images.Image
}

func (f *fakeImages) Load(_ context.Context, src string) (*images.Image, error) {
	f.calls++
	if img, ok := f.imgs[src]; ok {
		return img, nil
	}
	return nil, errors.New("not found")
}

func TestRenderImages(t *testing.T) {
	loader := &fakeImages{imgs: map[string]*images.Image{
		"logo.png": {Data: []byte("png"), Format: "png", MediaType: "image/png", Width: 100, Height: 50},
		"wide.jpg": {Data: []byte("jpg"), Format: "jpeg", MediaType: "image/jpeg", Width: 1200, Height: 600},
	}}
	d := &doc.Document{Blocks: []doc.Block{
		doc.Paragraph{Inlines: []doc.Inline{
			doc.Image{Src: "logo.png", Alt: "logo"},
			doc.Image{Src: "logo.png", Alt: "logo again"},
			doc.Image{Src: "wide.jpg"},
			doc.Image{Src: "missing.gif", Alt: "missing"},
		}},
	}}
	pkg, stats := render(t, d, Options{Images: loader})
	assert.Equal(t, 3, stats.Images)
	assert.Equal(t, 3, loader.calls, "repeated sources load once")

	bins := pkg.Binaries()
	require.Len(t, bins, 2)
	assert.Equal(t, "BinData/image1.png", bins[0].Name)
	assert.Equal(t, "BinData/image2.jpg", bins[1].Name)

	p := paragraphs(t, pkg)[0]
	pics := p.FindElements(".//hp:pic")
	require.Len(t, pics, 3)
	assert.Equal(t, "image1", pics[0].SelectElement("hc:img").SelectAttrValue("binaryItemIDRef", ""))
	sz := pics[0].SelectElement("hp:sz")
	assert.Equal(t, "7500", sz.SelectAttrValue("width", ""))
	assert.Equal(t, "3750", sz.SelectAttrValue("height", ""))

	// 1200px is wider than the page and is scaled to the text width.
	sz = pics[2].SelectElement("hp:sz")
	assert.Equal(t, "45130", sz.SelectAttrValue("width", ""))
	assert.Equal(t, "22565", sz.SelectAttrValue("height", ""))

	assert.Equal(t, "missing", text(p))
}

func TestRenderImagesWithoutLoader(t *testing.T) {
	d := &doc.Document{Blocks: []doc.Block{doc.Paragraph{Inlines: []doc.Inline{doc.Image{Src: "x.png", Alt: "alt"}}}}}
	pkg, stats := render(t, d, Options{})
	assert.Zero(t, stats.Images)
	assert.Equal(t, "alt", text(paragraphs(t, pkg)[0]))
}

func TestDisplaySize(t *testing.T) {
	cases := []struct {
		name             string
		natW, natH       int
		wantW, wantH     int
		maxW             int
		expectW, expectH int
	}{
		{"natural", 7500, 3750, 0, 0, 45000, 7500, 3750},
		{"both stated", 7500, 3750, 1000, 1000, 45000, 1000, 1000},
		{"width keeps ratio", 7500, 3750, 15000, 0, 45000, 15000, 7500},
		{"height keeps ratio", 7500, 3750, 0, 7500, 45000, 15000, 7500},
		{"clamped", 90000, 45000, 0, 0, 45000, 45000, 22500},
		{"no max", 90000, 45000, 0, 0, 0, 90000, 45000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := displaySize(tc.natW, tc.natH, tc.wantW, tc.wantH, tc.maxW)
			assert.Equal(t, tc.expectW, w)
			assert.Equal(t, tc.expectH, h)
		})
	}
}

func TestRenderNotes(t *testing.T) {
	d := &doc.Document{Blocks: []doc.Block{
		doc.Paragraph{Inlines: []doc.Inline{
			doc.Text{Value: "claim"},
			doc.Note{Blocks: []doc.Block{doc.Paragraph{Inlines: words("source one")}}},
		}},
	}}
	pkg, stats := render(t, d, Options{})
	assert.Equal(t, 1, stats.Notes)
	ps := paragraphs(t, pkg)
	require.Len(t, ps, 3, "body, rule, note")
	assert.Equal(t, "claim1", text(ps[0]))
	assert.Equal(t, "1) source one", text(ps[2]))

	runs := ps[0].FindElements("./hp:run[hp:t]")
	mark := runs[len(runs)-1]
	h := headerRoot(t, pkg)
	cp := h.FindElement(fmt.Sprintf(".//hh:charPr[@id='%s']", mark.SelectAttrValue("charPrIDRef", "")))
	require.NotNil(t, cp)
	assert.NotNil(t, cp.SelectElement("hh:supscript"))
}
