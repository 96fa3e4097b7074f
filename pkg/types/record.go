// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus is the outcome of converting one input.
type ConversionStatus string

const (
	StatusConverted ConversionStatus = "converted"
	StatusSkipped   ConversionStatus = "skipped"
	StatusFailed    ConversionStatus = "failed"
)

// ConversionRecord is one journal entry.
type ConversionRecord struct {
	// ID is a random UUID assigned when the record is stored.
	ID string `json:"id" yaml:"id"`

	InputPath      string `json:"input_path" yaml:"input_path"`
	InputSHA256    string `json:"input_sha256" yaml:"input_sha256"`
	TemplatePath   string `json:"template_path" yaml:"template_path"`
	TemplateSHA256 string `json:"template_sha256" yaml:"template_sha256"`
	OutputPath     string `json:"output_path" yaml:"output_path"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// Error holds the failure message for failed conversions.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Reader names the reader that parsed the input (html, pandoc/local, ...).
	Reader string `json:"reader" yaml:"reader"`

	OutputBytes int64         `json:"output_bytes" yaml:"output_bytes"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}
