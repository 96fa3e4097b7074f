// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hwpx

import (
	"archive/zip"
	"embed"
	"fmt"
	"io"
	"os"
)

//go:embed blank
var blankFS embed.FS

// blankOrder lists the built-in template's entries in container order.
var blankOrder = []string{
	EntryMimetype,
	"version.xml",
	EntryHeader,
	EntrySection,
	"settings.xml",
	EntryPreview,
	"META-INF/container.xml",
	EntryManifest,
	"META-INF/manifest.xml",
}

// Blank returns the built-in A4 template with Hangul's default outline
// styles. It is used when no template is configured.
func Blank() *Template {
	t := &Template{Path: "(built-in)", index: map[string]int{}}
	for _, name := range blankOrder {
		data, err := blankFS.ReadFile("blank/" + name)
		if err != nil {
			panic(fmt.Sprintf("hwpx: built-in template entry %s: %v", name, err))
		}
		method := zip.Deflate
		if name == EntryMimetype {
			method = zip.Store
		}
		t.index[name] = len(t.Entries)
		t.Entries = append(t.Entries, Entry{Name: name, Method: method, Data: data})
	}
	return t
}

// WriteTo writes the template unchanged as an HWPX container.
func (t *Template) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, e := range t.Entries {
		if err := writeEntry(zw, e.Name, e.Method, e.Data); err != nil {
			return cw.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("finishing template: %w", err)
	}
	return cw.n, nil
}

// Save writes the template to path.
func (t *Template) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := t.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
