// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/hwpx-convert/pkg/types"
)

// OutputExt is the extension of converted files.
const OutputExt = ".hwpx"

// DefaultExtensions select inputs when a directory is converted.
var DefaultExtensions = []string{".html", ".htm"}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// Err aggregates every failure.
	Err error
}

// Total returns the total number of inputs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any input failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath returns the .hwpx path for input: next to it when outDir is
// empty, otherwise in outDir.
func OutputPath(input, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + OutputExt
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	return filepath.Join(outDir, base)
}

// PlanJobs expands inputs into jobs. Directories are walked for files with
// one of exts (DefaultExtensions when empty) and keep their layout under
// outDir. Jobs follow input order, directories in lexical order. Two
// inputs that would write the same output are an error.
func PlanJobs(inputs []string, outDir string, exts []string) ([]Job, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	want := map[string]bool{}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		want[e] = true
	}

	var jobs []Job
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if !info.IsDir() {
			jobs = append(jobs, Job{Input: in, Output: OutputPath(in, outDir)})
			continue
		}
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != in && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !want[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			out := OutputPath(path, "")
			if outDir != "" {
				rel, err := filepath.Rel(in, path)
				if err != nil {
					return err
				}
				out = OutputPath(filepath.Join(outDir, rel), "")
			}
			jobs = append(jobs, Job{Input: path, Output: out})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", in, err)
		}
	}

	var errs *multierror.Error
	seen := map[string]string{}
	for _, j := range jobs {
		key := filepath.Clean(j.Output)
		if prev, ok := seen[key]; ok {
			errs = multierror.Append(errs, fmt.Errorf("%s and %s both write %s", prev, j.Input, j.Output))
			continue
		}
		seen[key] = j.Input
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ConvertBatch converts jobs on up to workers goroutines (the number of
// CPUs when workers < 1), printing per-file status to w and returning a
// summary.
func (c *Converter) ConvertBatch(ctx context.Context, jobs []Job, workers int, incremental bool, w io.Writer) BatchResult {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	var (
		mu     sync.Mutex
		result BatchResult
		errs   *multierror.Error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			res := c.ConvertFile(gctx, job, incremental)
			mu.Lock()
			defer mu.Unlock()
			Report(w, res)
			switch res.Status {
			case types.StatusConverted:
				result.Converted++
			case types.StatusSkipped:
				result.Skipped++
			case types.StatusFailed:
				result.Failed++
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", res.Input, res.Err))
			}
			// One bad input does not stop the batch.
			return nil
		})
	}
	_ = g.Wait()

	result.Err = errs.ErrorOrNil()
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// Report prints the status line of one conversion.
func Report(w io.Writer, res Result) {
	switch res.Status {
	case types.StatusConverted:
		fmt.Fprintf(w, "converted: %s -> %s (%s, %s)\n",
			res.Input, res.Output, humanize.Bytes(uint64(res.Bytes)), res.Reader)
	case types.StatusSkipped:
		reason := "already exists"
		if errors.Is(res.Err, ErrUnchanged) {
			reason = "unchanged"
		}
		fmt.Fprintf(w, "skipped: %s (%s)\n", res.Input, reason)
	default:
		fmt.Fprintf(w, "failed:  %s (%v)\n", res.Input, res.Err)
	}
}
