// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hwpx reads blank HWPX templates and writes filled HWPX documents.
//
// An HWPX file is a ZIP container holding OWPML XML parts. The package keeps
// every template entry it does not understand and rewrites three of them:
// Contents/header.xml (style tables), Contents/section0.xml (body) and
// Contents/content.hpf (manifest). Header and section are edited as DOMs so
// that template attributes survive untouched.
package hwpx

// OWPML namespaces.
const (
	NSHead      = "http://www.hancom.co.kr/hwpml/2011/head"
	NSParagraph = "http://www.hancom.co.kr/hwpml/2011/paragraph"
	NSCore      = "http://www.hancom.co.kr/hwpml/2011/core"
	NSSection   = "http://www.hancom.co.kr/hwpml/2011/section"
	NSOPF       = "http://www.idpf.org/2007/opf/"
)

// Well-known entry names.
const (
	EntryMimetype = "mimetype"
	EntryHeader   = "Contents/header.xml"
	EntrySection  = "Contents/section0.xml"
	EntryManifest = "Contents/content.hpf"
	EntryPreview  = "Preview/PrvText.txt"

	// MimeType is the content of the mimetype entry.
	MimeType = "application/hwp+zip"
)

// Units. HWPUNIT is 1/7200 inch.
const (
	UnitsPerPoint = 100
	UnitsPerInch  = 7200
	UnitsPerPixel = 75
)

// Layout defaults used when a template does not say otherwise.
const (
	DefaultPageWidth   = 59530
	DefaultPageHeight  = 84190
	DefaultMarginSide  = 7200
	ListIndentPerLevel = 2000
	MaxListLevel       = 6
)

// Format is a set of character decorations.
type Format uint8

const (
	Bold Format = 1 << iota
	Italic
	Underline
	Strikeout
	Superscript
	Subscript
)

// Has reports whether every bit of g is set in f.
func (f Format) Has(g Format) bool { return f&g == g }
