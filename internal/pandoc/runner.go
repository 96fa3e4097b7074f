// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdiddy/hwpx-convert/internal/container"
	"github.com/pdiddy/hwpx-convert/internal/doc"
	"github.com/pdiddy/hwpx-convert/internal/logx"
)

// DefaultImage is the container image used when pandoc is not installed.
const DefaultImage = "pandoc/core:latest"

// ErrNoRunner means neither a pandoc binary nor a container runtime with the
// pandoc image is available.
var ErrNoRunner = errors.New("no pandoc available")

// Runner produces pandoc JSON AST from a document in the given pandoc input
// format.
type Runner interface {
	Name() string
	ToJSON(ctx context.Context, format string, input io.Reader) ([]byte, error)
}

// LocalRunner runs a pandoc binary.
type LocalRunner struct {
	Bin string
}

func (l LocalRunner) Name() string { return l.Bin }

func (l LocalRunner) ToJSON(ctx context.Context, format string, input io.Reader) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, l.Bin, "-f", format, "-t", "json")
	cmd.Stdin = input
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("running %s: %w: %s", l.Bin, err, msg)
		}
		return nil, fmt.Errorf("running %s: %w", l.Bin, err)
	}
	return stdout.Bytes(), nil
}

// ContainerRunner pipes the document through a pandoc container image.
type ContainerRunner struct {
	Runtime container.Runtime
	Image   string
}

func (c ContainerRunner) Name() string { return c.Runtime.Name() + ":" + c.Image }

func (c ContainerRunner) ToJSON(ctx context.Context, format string, input io.Reader) ([]byte, error) {
	var out bytes.Buffer
	if err := c.Runtime.Run(ctx, c.Image, []string{"-f", format, "-t", "json"}, input, &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DetectRunner prefers a pandoc binary (bin, or "pandoc" on PATH) and falls
// back to image in docker or podman.
func DetectRunner(bin, image string) (Runner, error) {
	if bin == "" {
		bin = "pandoc"
	}
	if path, err := exec.LookPath(bin); err == nil {
		logx.Log.Debug().Str("pandoc", path).Msg("using local pandoc")
		return LocalRunner{Bin: path}, nil
	}

	if image == "" {
		image = DefaultImage
	}
	rt, err := container.DetectRuntime()
	if err != nil {
		return nil, fmt.Errorf("%w: %s not on PATH and %v", ErrNoRunner, bin, err)
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("%w: %s not on PATH and %v", ErrNoRunner, bin, err)
	}
	logx.Log.Debug().Str("runtime", rt.Name()).Str("image", image).Msg("using containerised pandoc")
	return ContainerRunner{Runtime: rt, Image: image}, nil
}

// Convert runs input through r and decodes the resulting AST.
func Convert(ctx context.Context, r Runner, format string, input io.Reader) (*doc.Document, error) {
	out, err := r.ToJSON(ctx, format, input)
	if err != nil {
		return nil, err
	}
	d, err := Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("pandoc %s output: %w", r.Name(), err)
	}
	return d, nil
}

// formatsByExt maps file extensions to pandoc reader names.
var formatsByExt = map[string]string{
	".md":       "markdown",
	".markdown": "markdown",
	".txt":      "markdown",
	".docx":     "docx",
	".odt":      "odt",
	".rst":      "rst",
	".tex":      "latex",
	".latex":    "latex",
	".epub":     "epub",
	".org":      "org",
	".textile":  "textile",
	".rtf":      "rtf",
	".html":     "html",
	".htm":      "html",
	".xhtml":    "html",
	".json":     "json",
}

// FormatFor returns the pandoc reader name for path. "json" means the file
// is already a pandoc AST.
func FormatFor(path string) (string, bool) {
	f, ok := formatsByExt[strings.ToLower(filepath.Ext(path))]
	return f, ok
}
