package types

import "time"

// ReaderKind selects how an input document is parsed.
type ReaderKind string

const (
	// ReaderAuto uses the native HTML reader for .html/.htm and pandoc for
	// everything else.
	ReaderAuto   ReaderKind = "auto"
	ReaderHTML   ReaderKind = "html"
	ReaderPandoc ReaderKind = "pandoc"
)

// HTTPConfig holds shared HTTP settings used when fetching remote resources.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries bounds retries on 429/503 responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ImageConfig controls how <img> elements are handled.
type ImageConfig struct {
	HTTPConfig `yaml:",inline"`

	// Embed copies images into BinData/. When false, images become their
	// alt text.
	Embed bool `json:"embed" yaml:"embed"`

	// Remote allows http(s) image sources to be downloaded.
	Remote bool `json:"remote" yaml:"remote"`

	// MaxBytes bounds a single image (default 20 MiB).
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`

	// Token is sent as a bearer token with image downloads. Normally loaded
	// from .secrets/image-auth-token rather than the config file.
	Token string `json:"-" yaml:"-"`
}

// PandocConfig locates pandoc for non-HTML inputs.
type PandocConfig struct {
	// Binary is the local pandoc executable (default "pandoc").
	Binary string `json:"binary" yaml:"binary"`

	// Image is the container image used when no local binary is found.
	Image string `json:"image" yaml:"image"`
}

// ConversionConfig holds settings for converting one document.
type ConversionConfig struct {
	// Template is the blank HWPX used for styles and page setup. Empty uses
	// the built-in A4 template.
	Template string `json:"template" yaml:"template"`

	// FontMap is an optional YAML file overlaying the built-in font map.
	FontMap string `json:"fontmap" yaml:"fontmap"`

	// Reader selects the input parser.
	Reader ReaderKind `json:"reader" yaml:"reader"`

	// Encoding overrides HTML charset detection (e.g. "euc-kr").
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`

	// Links renders hyperlinks as HWP fields; otherwise only their text is kept.
	Links bool `json:"links" yaml:"links"`

	// Overwrite replaces existing outputs.
	Overwrite bool `json:"overwrite" yaml:"overwrite"`

	Images ImageConfig  `json:"images" yaml:"images"`
	Pandoc PandocConfig `json:"pandoc" yaml:"pandoc"`
}

// BatchConfig holds settings for converting many documents.
type BatchConfig struct {
	ConversionConfig `yaml:",inline"`

	// OutDir receives outputs; empty writes next to each input.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Workers bounds concurrent conversions (default: number of CPUs).
	Workers int `json:"workers" yaml:"workers"`

	// Extensions selects inputs when a directory is given.
	Extensions []string `json:"extensions" yaml:"extensions"`

	// Incremental skips inputs whose content, template and output are
	// unchanged since the last recorded conversion.
	Incremental bool `json:"incremental" yaml:"incremental"`
}

// JournalConfig locates the conversion history database.
type JournalConfig struct {
	// Path is the SQLite file; empty disables the journal.
	Path string `json:"path" yaml:"path"`
}
