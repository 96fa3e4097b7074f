// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns input documents into HWPX files: it picks a reader,
// renders the document into a copy of the template and writes the result
// atomically. Batches run on a bounded worker pool and report one status
// line per file.
package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pdiddy/hwpx-convert/internal/fontmap"
	"github.com/pdiddy/hwpx-convert/internal/hwpx"
	"github.com/pdiddy/hwpx-convert/internal/images"
	"github.com/pdiddy/hwpx-convert/internal/journal"
	"github.com/pdiddy/hwpx-convert/internal/logx"
	"github.com/pdiddy/hwpx-convert/internal/pandoc"
	"github.com/pdiddy/hwpx-convert/internal/render"
	"github.com/pdiddy/hwpx-convert/pkg/types"
)

// builtinTemplateHash stands in for a template file hash when the built-in
// blank template is used.
const builtinTemplateHash = "builtin"

// ErrOutputExists is returned when the output exists and overwriting is off.
var ErrOutputExists = errors.New("output already exists")

// ErrUnchanged is returned in incremental mode when the journal shows the
// output is current.
var ErrUnchanged = errors.New("unchanged since last conversion")

// Job is one input/output pair.
type Job struct {
	Input  string
	Output string
}

// Result is the outcome of one job.
type Result struct {
	Job
	Status   types.ConversionStatus
	Reader   string
	Bytes    int64
	Stats    render.Stats
	Duration time.Duration
	Err      error
}

// Converter converts documents with one template and font map. It is safe
// for concurrent use.
type Converter struct {
	cfg          types.ConversionConfig
	template     *hwpx.Template
	templateHash string
	fonts        *fontmap.Map
	client       *http.Client
	journal      *journal.Journal

	html Reader

	pandocOnce sync.Once
	pandoc     Reader
	pandocErr  error
	// detect finds a pandoc runner on first use.
	detect func(bin, image string) (pandoc.Runner, error)
}

// New loads the template and font map named by cfg. j may be nil to
// disable the journal.
func New(cfg types.ConversionConfig, j *journal.Journal) (*Converter, error) {
	c := &Converter{
		cfg:     cfg,
		journal: j,
		html:    HTMLReader{Encoding: cfg.Encoding},
		detect:  pandoc.DetectRunner,
		client:  &http.Client{Timeout: cfg.Images.Timeout},
	}

	if cfg.Template == "" {
		c.template = hwpx.Blank()
		c.templateHash = builtinTemplateHash
	} else {
		t, err := hwpx.OpenTemplate(cfg.Template)
		if err != nil {
			return nil, err
		}
		sum, err := journal.HashFile(cfg.Template)
		if err != nil {
			return nil, err
		}
		c.template, c.templateHash = t, sum
	}

	fonts, err := fontmap.LoadWithDefault(cfg.FontMap)
	if err != nil {
		return nil, err
	}
	c.fonts = fonts
	return c, nil
}

// Template returns the template in use.
func (c *Converter) Template() *hwpx.Template { return c.template }

func (c *Converter) reader(path string) (Reader, error) {
	kind, err := SelectReader(path, c.cfg.Reader)
	if err != nil {
		return nil, err
	}
	if kind == types.ReaderHTML {
		return c.html, nil
	}
	if format, _ := pandoc.FormatFor(path); format == "json" {
		return PandocReader{}, nil
	}
	c.pandocOnce.Do(func() {
		if c.pandoc != nil {
			return
		}
		runner, err := c.detect(c.cfg.Pandoc.Binary, c.cfg.Pandoc.Image)
		if err != nil {
			c.pandocErr = err
			return
		}
		c.pandoc = PandocReader{Runner: runner}
	})
	if c.pandocErr != nil {
		return nil, c.pandocErr
	}
	return c.pandoc, nil
}

func (c *Converter) images(input string) render.ImageLoader {
	if !c.cfg.Images.Embed {
		return nil
	}
	return &images.Loader{
		BaseDir:    filepath.Dir(input),
		Remote:     c.cfg.Images.Remote,
		Client:     c.client,
		Token:      c.cfg.Images.Token,
		MaxBytes:   c.cfg.Images.MaxBytes,
		MaxRetries: c.cfg.Images.MaxRetries,
	}
}

// ConvertFile converts one input. Skips are reported with a skipped status
// and ErrOutputExists or ErrUnchanged. Converted and failed runs are
// recorded in the journal when one is configured.
func (c *Converter) ConvertFile(ctx context.Context, job Job, incremental bool) Result {
	res := Result{Job: job}
	start := time.Now()
	rec := types.ConversionRecord{
		InputPath:      job.Input,
		TemplatePath:   c.cfg.Template,
		TemplateSHA256: c.templateHash,
		OutputPath:     job.Output,
		StartedAt:      start,
	}

	if _, err := os.Stat(job.Output); err == nil && !c.cfg.Overwrite && !c.refreshable(ctx, job, incremental) {
		res.Status, res.Err = types.StatusSkipped, ErrOutputExists
		return res
	}

	sum, err := journal.HashFile(job.Input)
	if err != nil {
		return c.finish(ctx, res, rec, err)
	}
	rec.InputSHA256 = sum

	if incremental && c.journal != nil {
		ok, err := c.journal.UpToDate(ctx, rec)
		if err != nil {
			logx.Log.Warn().Err(err).Str("input", job.Input).Msg("journal lookup failed")
		} else if ok {
			res.Status, res.Err = types.StatusSkipped, ErrUnchanged
			return res
		}
	}

	r, err := c.reader(job.Input)
	if err != nil {
		return c.finish(ctx, res, rec, err)
	}
	res.Reader = r.Name()
	rec.Reader = r.Name()

	d, err := r.Read(ctx, job.Input)
	if err != nil {
		return c.finish(ctx, res, rec, err)
	}

	pkg, err := hwpx.NewPackage(c.template)
	if err != nil {
		return c.finish(ctx, res, rec, err)
	}
	res.Stats, err = render.Render(ctx, d, pkg, render.Options{
		Fonts:  c.fonts,
		Links:  c.cfg.Links,
		Images: c.images(job.Input),
	})
	if err != nil {
		return c.finish(ctx, res, rec, fmt.Errorf("rendering %s: %w", job.Input, err))
	}

	res.Bytes, err = writeAtomic(job.Output, pkg)
	rec.OutputBytes = res.Bytes
	return c.finish(ctx, res, rec, err)
}

// refreshable reports whether an existing output may be replaced without
// Overwrite: in incremental runs, outputs this tool wrote before are
// reconverted when their input or template changed.
func (c *Converter) refreshable(ctx context.Context, job Job, incremental bool) bool {
	if !incremental || c.journal == nil {
		return false
	}
	ok, err := c.journal.Produced(ctx, job.Input, job.Output)
	if err != nil {
		logx.Log.Warn().Err(err).Str("output", job.Output).Msg("journal lookup failed")
		return false
	}
	return ok
}

// finish stamps the result and records it.
func (c *Converter) finish(ctx context.Context, res Result, rec types.ConversionRecord, err error) Result {
	res.Duration = time.Since(rec.StartedAt)
	rec.Duration = res.Duration
	if err != nil {
		res.Status, res.Err = types.StatusFailed, err
		rec.Status, rec.Error = types.StatusFailed, err.Error()
	} else {
		res.Status = types.StatusConverted
		rec.Status = types.StatusConverted
	}
	if c.journal != nil {
		// Recording must not be cancelled along with the conversion.
		if jerr := c.journal.Record(context.WithoutCancel(ctx), &rec); jerr != nil {
			logx.Log.Warn().Err(jerr).Str("input", rec.InputPath).Msg("journal write failed")
		}
	}
	logx.Log.Debug().
		Str("input", res.Input).
		Str("status", string(res.Status)).
		Dur("took", res.Duration).
		Msg("conversion finished")
	return res
}

// writeAtomic writes pkg to a temporary file beside path and renames it
// into place, so a failed run never leaves a truncated document.
func writeAtomic(path string, pkg *hwpx.Package) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".hwpx-convert-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := pkg.Write(bw); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("renaming into %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
