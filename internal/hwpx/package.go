// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hwpx

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/beevik/etree"
)

// maxPreviewRunes bounds Preview/PrvText.txt.
const maxPreviewRunes = 1024

// Binary is an embedded file under BinData/.
type Binary struct {
	ID        string
	Name      string
	MediaType string
	Data      []byte
}

// Package is a document under construction: a template plus the edited
// header, section and embedded binaries.
type Package struct {
	Header  *Header
	Section *Section

	// Title is written to the manifest metadata.
	Title string
	// Preview replaces Preview/PrvText.txt when the template has one.
	Preview string

	template *Template
	manifest *etree.Document
	used     map[string]bool
	bins     []Binary
}

// NewPackage parses the editable parts of t.
func NewPackage(t *Template) (*Package, error) {
	hdata, _ := t.Entry(EntryHeader)
	h, err := ParseHeader(hdata)
	if err != nil {
		return nil, err
	}
	sdata, _ := t.Entry(EntrySection)
	s, err := ParseSection(sdata)
	if err != nil {
		return nil, err
	}
	p := &Package{Header: h, Section: s, template: t, used: map[string]bool{}}
	for _, e := range t.Entries {
		p.used[e.Name] = true
	}
	if data, ok := t.Entry(EntryManifest); ok {
		d := etree.NewDocument()
		if err := d.ReadFromBytes(data); err != nil {
			return nil, fmt.Errorf("parsing content.hpf: %w", err)
		}
		p.manifest = d
		for _, item := range d.FindElements(".//opf:item") {
			p.used[item.SelectAttrValue("id", "")] = true
		}
	}
	return p, nil
}

// AddBinary embeds data and returns its manifest id for hc:img.
func (p *Package) AddBinary(data []byte, ext, mediaType string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	var id, name string
	for n := len(p.bins) + 1; ; n++ {
		id = fmt.Sprintf("image%d", n)
		name = path.Join("BinData", id+"."+ext)
		if !p.used[id] && !p.used[name] {
			break
		}
	}
	p.used[id], p.used[name] = true, true
	p.bins = append(p.bins, Binary{ID: id, Name: name, MediaType: mediaType, Data: data})
	return id
}

// Binaries returns the embedded files in insertion order.
func (p *Package) Binaries() []Binary { return p.bins }

// Write serialises the document as an HWPX container. The mimetype entry is
// written first and uncompressed.
func (p *Package) Write(w io.Writer) error {
	replaced := map[string][]byte{}
	var err error
	if replaced[EntryHeader], err = p.Header.Bytes(); err != nil {
		return err
	}
	if replaced[EntrySection], err = p.Section.Bytes(); err != nil {
		return err
	}
	if p.manifest != nil {
		if replaced[EntryManifest], err = p.manifestBytes(); err != nil {
			return err
		}
	}
	if p.Preview != "" && p.template.Has(EntryPreview) {
		replaced[EntryPreview] = []byte(truncateRunes(p.Preview, maxPreviewRunes))
	}

	zw := zip.NewWriter(w)
	mime, ok := p.template.Entry(EntryMimetype)
	if !ok {
		mime = []byte(MimeType)
	}
	if err := writeEntry(zw, EntryMimetype, zip.Store, mime); err != nil {
		return err
	}
	for _, e := range p.template.Entries {
		if e.Name == EntryMimetype {
			continue
		}
		data := e.Data
		if r, ok := replaced[e.Name]; ok {
			data = r
		}
		method := e.Method
		if method != zip.Store {
			method = zip.Deflate
		}
		if err := writeEntry(zw, e.Name, method, data); err != nil {
			return err
		}
	}
	for _, b := range p.bins {
		if err := writeEntry(zw, b.Name, zip.Deflate, b.Data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing hwpx container: %w", err)
	}
	return nil
}

func (p *Package) manifestBytes() ([]byte, error) {
	d := p.manifest.Copy()
	root := d.Root()
	if p.Title != "" {
		if meta := root.FindElement(".//opf:metadata"); meta != nil {
			title := meta.SelectElement("opf:title")
			if title == nil {
				title = etree.NewElement("opf:title")
				meta.InsertChildAt(0, title)
			}
			title.SetText(p.Title)
		}
	}
	if list := root.FindElement(".//opf:manifest"); list != nil {
		for _, b := range p.bins {
			item := list.CreateElement("opf:item")
			item.CreateAttr("id", b.ID)
			item.CreateAttr("href", b.Name)
			item.CreateAttr("media-type", b.MediaType)
			item.CreateAttr("isEmbeded", "1")
		}
	}
	data, err := d.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialising content.hpf: %w", err)
	}
	return data, nil
}

func writeEntry(zw *zip.Writer, name string, method uint16, data []byte) error {
	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
