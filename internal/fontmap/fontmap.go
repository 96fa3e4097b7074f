// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fontmap resolves CSS font-family lists to font faces that Hangul
// can render. The built-in table maps generic families and common web fonts
// to the faces bundled with Hangul; users can overlay their own YAML file.
package fontmap

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Map is a font substitution table.
type Map struct {
	// Fallback is used when no family resolves. Empty keeps the template's
	// font.
	Fallback string `yaml:"fallback"`

	// Passthrough keeps the first non-generic family unchanged when it has
	// no entry in Fonts.
	Passthrough bool `yaml:"passthrough"`

	// Fonts maps lower-case CSS family names to HWP font faces.
	Fonts map[string]string `yaml:"fonts"`
}

var generic = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "cursive": true,
	"fantasy": true, "system-ui": true, "ui-serif": true, "ui-sans-serif": true,
	"ui-monospace": true, "math": true, "emoji": true, "inherit": true,
	"initial": true, "unset": true,
}

// Default returns the built-in table.
func Default() *Map {
	m, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("fontmap: embedded default is invalid: %v", err))
	}
	return m
}

// Parse reads a YAML font map.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing font map: %w", err)
	}
	m.Fonts = normalise(m.Fonts)
	return &m, nil
}

// Load reads a YAML font map from path.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font map %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadWithDefault overlays the file at path (if any) on the built-in table.
func LoadWithDefault(path string) (*Map, error) {
	m := Default()
	if path == "" {
		return m, nil
	}
	user, err := Load(path)
	if err != nil {
		return nil, err
	}
	m.Merge(user)
	return m, nil
}

// Merge overlays other onto m. Entries and a non-empty fallback in other win;
// passthrough is taken from other.
func (m *Map) Merge(other *Map) {
	if m.Fonts == nil {
		m.Fonts = map[string]string{}
	}
	for k, v := range other.Fonts {
		m.Fonts[k] = v
	}
	if other.Fallback != "" {
		m.Fallback = other.Fallback
	}
	m.Passthrough = other.Passthrough
}

// Resolve picks a face for a font-family list.
func (m *Map) Resolve(families []string) (string, bool) {
	for _, f := range families {
		if face, ok := m.Fonts[key(f)]; ok && face != "" {
			return face, true
		}
	}
	if m.Passthrough {
		for _, f := range families {
			f = strings.Trim(strings.TrimSpace(f), `"'`)
			if f != "" && !generic[key(f)] {
				return f, true
			}
		}
	}
	if m.Fallback != "" && len(families) > 0 {
		return m.Fallback, true
	}
	return "", false
}

func key(f string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(f), `"'`))
}

func normalise(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[key(k)] = strings.TrimSpace(v)
	}
	return out
}
