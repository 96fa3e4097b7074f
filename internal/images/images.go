// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images loads pictures referenced by a document and reads their
// pixel dimensions so they can be embedded under BinData/.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/pdiddy/hwpx-convert/internal/httputil"
)

// DefaultMaxBytes bounds a single image.
const DefaultMaxBytes = 20 << 20

var (
	// ErrTooLarge is returned for images over the loader's size limit.
	ErrTooLarge = errors.New("image too large")
	// ErrUnsupported is returned for data that is not a raster image Hangul
	// can display.
	ErrUnsupported = errors.New("unsupported image format")
	// ErrRemoteDisabled is returned for http(s) sources when remote loading
	// is off.
	ErrRemoteDisabled = errors.New("remote images disabled")
)

var mediaTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
}

// Image is a decoded picture header plus its raw bytes.
type Image struct {
	Data      []byte
	Format    string
	MediaType string
	Width     int // pixels
	Height    int
}

// Ext returns the file extension used under BinData/.
func (i *Image) Ext() string {
	if i.Format == "jpeg" {
		return "jpg"
	}
	return i.Format
}

// Decode sniffs data and reads its dimensions.
func Decode(data []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	mt, ok := mediaTypes[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
	}
	return &Image{Data: data, Format: format, MediaType: mt, Width: cfg.Width, Height: cfg.Height}, nil
}

// Loader resolves image sources.
type Loader struct {
	// BaseDir resolves relative paths, usually the input file's directory.
	BaseDir string
	// Remote enables http(s) downloads.
	Remote bool
	// Client performs downloads; nil uses http.DefaultClient.
	Client *http.Client
	// Token is sent as a bearer token with downloads.
	Token string
	// MaxBytes bounds each image; 0 means DefaultMaxBytes.
	MaxBytes int64
	// MaxRetries bounds retries on 429/503; 0 uses the httputil default.
	MaxRetries int
}

// Load fetches src and decodes its header. src may be a path (relative to
// BaseDir), a file:// URL, a data: URI or an http(s) URL.
func (l *Loader) Load(ctx context.Context, src string) (*Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty image source")
	}
	data, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.limit() {
		return nil, fmt.Errorf("%s: %w (%s)", shorten(src), ErrTooLarge, humanize.Bytes(uint64(len(data))))
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", shorten(src), err)
	}
	return img, nil
}

func (l *Loader) limit() int64 {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return DefaultMaxBytes
}

func (l *Loader) read(ctx context.Context, src string) ([]byte, error) {
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "data:"):
		return decodeDataURI(src)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		if !l.Remote {
			return nil, fmt.Errorf("%s: %w", src, ErrRemoteDisabled)
		}
		data, _, err := httputil.Fetch(ctx, l.Client, src, httputil.FetchOptions{
			Token:      l.Token,
			MaxBytes:   l.limit(),
			MaxRetries: l.MaxRetries,
		})
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			return nil, fmt.Errorf("%s: %w", src, ErrTooLarge)
		}
		return data, err
	case strings.HasPrefix(lower, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", src, err)
		}
		return l.readFile(filepath.FromSlash(u.Path))
	case strings.HasPrefix(lower, "//"):
		return nil, fmt.Errorf("%s: protocol-relative URLs are not supported", src)
	}
	raw := src
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	path := l.resolve(filepath.FromSlash(raw))
	if _, err := os.Stat(path); err != nil {
		if unescaped, uerr := url.PathUnescape(raw); uerr == nil && unescaped != raw {
			path = l.resolve(filepath.FromSlash(unescaped))
		}
	}
	return l.readFile(path)
}

func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) || l.BaseDir == "" {
		return path
	}
	return filepath.Join(l.BaseDir, path)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if info.Size() > l.limit() {
		return nil, fmt.Errorf("%s: %w (%s)", path, ErrTooLarge, humanize.Bytes(uint64(info.Size())))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return data, nil
}

// decodeDataURI handles data:[<mediatype>][;base64],<data>.
func decodeDataURI(src string) ([]byte, error) {
	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := src[len("data:"):comma], src[comma+1:]
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("decoding data URI: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return []byte(data), nil
}

func shorten(src string) string {
	if len(src) > 64 {
		return src[:61] + "..."
	}
	return src
}
