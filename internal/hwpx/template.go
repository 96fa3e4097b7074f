// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hwpx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// ErrMissingEntry is returned when a template lacks a required part.
var ErrMissingEntry = errors.New("hwpx: template entry missing")

// Entry is one file of an HWPX container.
type Entry struct {
	Name   string
	Method uint16
	Data   []byte
}

// Template is the parsed content of a blank HWPX file. Entries keep the
// container order so that a written document looks like its template.
type Template struct {
	Path    string
	Entries []Entry
	index   map[string]int
}

// OpenTemplate reads a template from disk.
func OpenTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	t, err := ReadTemplate(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	t.Path = path
	return t, nil
}

// ReadTemplate reads a template from a ZIP stream.
func ReadTemplate(r io.ReaderAt, size int64) (*Template, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening zip: %w", err)
	}
	t := &Template{index: map[string]int{}}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		t.index[f.Name] = len(t.Entries)
		t.Entries = append(t.Entries, Entry{Name: f.Name, Method: f.Method, Data: data})
	}
	for _, name := range []string{EntryHeader, EntrySection} {
		if _, ok := t.index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
		}
	}
	return t, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return data, nil
}

// Entry returns the bytes of a named entry.
func (t *Template) Entry(name string) ([]byte, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.Entries[i].Data, true
}

// Has reports whether the template contains name.
func (t *Template) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Names lists entry names in sorted order.
func (t *Template) Names() []string {
	names := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}
