// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/hwpx-convert/internal/doc"
	"github.com/pdiddy/hwpx-convert/internal/htmlread"
	"github.com/pdiddy/hwpx-convert/internal/pandoc"
	"github.com/pdiddy/hwpx-convert/pkg/types"
)

// Reader parses an input file into a document tree. The native HTML reader
// and pandoc implement this interface.
type Reader interface {
	// Name identifies the reader in status lines and the journal.
	Name() string
	Read(ctx context.Context, path string) (*doc.Document, error)
}

// HTMLReader parses HTML natively.
type HTMLReader struct {
	// Encoding overrides charset detection.
	Encoding string
}

func (HTMLReader) Name() string { return "html" }

func (h HTMLReader) Read(ctx context.Context, path string) (*doc.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return htmlread.ReadFile(path, htmlread.Options{Encoding: h.Encoding})
}

// PandocReader parses any format pandoc reads by converting it to the
// pandoc JSON AST. Files that already hold an AST (.json) are decoded
// without running pandoc, so Runner may be nil for them.
type PandocReader struct {
	Runner pandoc.Runner
}

func (p PandocReader) Name() string {
	if p.Runner == nil {
		return "pandoc/ast"
	}
	return "pandoc/" + p.Runner.Name()
}

func (p PandocReader) Read(ctx context.Context, path string) (*doc.Document, error) {
	format, ok := pandoc.FormatFor(path)
	if !ok {
		format = "markdown"
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var d *doc.Document
	switch {
	case format == "json":
		d, err = pandoc.Decode(f)
	case p.Runner == nil:
		err = pandoc.ErrNoRunner
	default:
		d, err = pandoc.Convert(ctx, p.Runner, format, f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return d, nil
}

// htmlExts are handled by the native reader in auto mode.
var htmlExts = map[string]bool{".html": true, ".htm": true, ".xhtml": true}

// SelectReader resolves the reader kind for path. Auto picks the native
// reader for HTML files and pandoc for other formats pandoc knows; unknown
// extensions are read as HTML.
func SelectReader(path string, kind types.ReaderKind) (types.ReaderKind, error) {
	switch kind {
	case types.ReaderHTML, types.ReaderPandoc:
		return kind, nil
	case types.ReaderAuto, "":
	default:
		return "", fmt.Errorf("unknown reader %q (want auto, html or pandoc)", kind)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if htmlExts[ext] {
		return types.ReaderHTML, nil
	}
	if _, ok := pandoc.FormatFor(path); ok {
		return types.ReaderPandoc, nil
	}
	return types.ReaderHTML, nil
}
