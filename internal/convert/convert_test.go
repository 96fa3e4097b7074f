// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/hwpx-convert/internal/hwpx"
	"github.com/pdiddy/hwpx-convert/internal/journal"
	"github.com/pdiddy/hwpx-convert/internal/pandoc"
	"github.com/pdiddy/hwpx-convert/pkg/types"
)

const sampleHTML = `<html><head><title>Sample</title></head><body>
<h1>Quarterly report</h1>
<p style="color: rgb(255, 0, 0)">Revenue grew.</p>
<table><tr><th>Q</th><th>Value</th></tr><tr><td>1</td><td>10</td></tr></table>
</body></html>`

// fakeRunner implements pandoc.Runner with canned JSON.
type fakeRunner struct {
	json      string
	gotFormat string
}

func (f *fakeRunner) Name() string { return "fake" }

func (f *fakeRunner) ToJSON(_ context.Context, format string, _ io.Reader) ([]byte, error) {
	f.gotFormat = format
	return []byte(f.json), nil
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newConverter(t *testing.T, cfg types.ConversionConfig, j *journal.Journal) *Converter {
	t.Helper()
	c, err := New(cfg, j)
	require.NoError(t, err)
	return c
}

// readEntry returns one entry of a written HWPX file.
func readEntry(t *testing.T, path, name string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

func TestSelectReader(t *testing.T) {
	tests := []struct {
		path string
		kind types.ReaderKind
		want types.ReaderKind
	}{
		{"a.html", types.ReaderAuto, types.ReaderHTML},
		{"a.HTM", "", types.ReaderHTML},
		{"a.md", types.ReaderAuto, types.ReaderPandoc},
		{"a.docx", types.ReaderAuto, types.ReaderPandoc},
		{"a.unknown", types.ReaderAuto, types.ReaderHTML},
		{"a.html", types.ReaderPandoc, types.ReaderPandoc},
		{"a.md", types.ReaderHTML, types.ReaderHTML},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+string(tt.kind), func(t *testing.T) {
			got, err := SelectReader(tt.path, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SelectReader("a.html", "word")
	assert.Error(t, err)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "report.html"), sampleHTML)
	out := filepath.Join(dir, "out", "report.hwpx")

	c := newConverter(t, types.ConversionConfig{Reader: types.ReaderAuto}, nil)
	res := c.ConvertFile(context.Background(), Job{Input: in, Output: out}, false)
	require.NoError(t, res.Err)
	assert.Equal(t, types.StatusConverted, res.Status)
	assert.Equal(t, "html", res.Reader)
	assert.Equal(t, 1, res.Stats.Tables)
	assert.Positive(t, res.Bytes)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	require.NotEmpty(t, zr.File)
	assert.Equal(t, hwpx.EntryMimetype, zr.File[0].Name)
	assert.Equal(t, zip.Store, zr.File[0].Method)
	zr.Close()

	section := readEntry(t, out, hwpx.EntrySection)
	assert.Contains(t, section, "Quarterly report")
	assert.Contains(t, section, "<hp:tbl")
	assert.Contains(t, readEntry(t, out, hwpx.EntryHeader), `textColor="#FF0000"`)
	assert.Contains(t, readEntry(t, out, hwpx.EntryManifest), "Sample")

	leftovers, err := filepath.Glob(filepath.Join(dir, "out", ".hwpx-convert-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp file renamed away")
}

func TestConvertFileSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "a.html"), sampleHTML)
	out := writeFile(t, filepath.Join(dir, "a.hwpx"), "old")

	res := newConverter(t, types.ConversionConfig{}, nil).ConvertFile(context.Background(), Job{in, out}, false)
	assert.Equal(t, types.StatusSkipped, res.Status)
	assert.ErrorIs(t, res.Err, ErrOutputExists)
	data, _ := os.ReadFile(out)
	assert.Equal(t, "old", string(data))

	res = newConverter(t, types.ConversionConfig{Overwrite: true}, nil).ConvertFile(context.Background(), Job{in, out}, false)
	require.NoError(t, res.Err)
	assert.Equal(t, types.StatusConverted, res.Status)
}

func TestConvertFileWithTemplateFile(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "blank.hwpx")
	require.NoError(t, hwpx.Blank().Save(tpl))
	in := writeFile(t, filepath.Join(dir, "a.html"), "<p>hi</p>")

	c := newConverter(t, types.ConversionConfig{Template: tpl}, nil)
	sum, err := journal.HashFile(tpl)
	require.NoError(t, err)
	assert.Equal(t, sum, c.templateHash)

	res := c.ConvertFile(context.Background(), Job{in, filepath.Join(dir, "a.hwpx")}, false)
	require.NoError(t, res.Err)

	_, err = New(types.ConversionConfig{Template: filepath.Join(dir, "missing.hwpx")}, nil)
	assert.Error(t, err)
}

func TestConvertFileJournal(t *testing.T) {
	dir := t.TempDir()
	j, err := journal.Open(filepath.Join(dir, "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	in := writeFile(t, filepath.Join(dir, "a.html"), "<p>one</p>")
	out := filepath.Join(dir, "a.hwpx")
	c := newConverter(t, types.ConversionConfig{Overwrite: true}, j)
	ctx := context.Background()

	res := c.ConvertFile(ctx, Job{in, out}, true)
	require.NoError(t, res.Err)
	assert.Equal(t, types.StatusConverted, res.Status)

	res = c.ConvertFile(ctx, Job{in, out}, true)
	assert.Equal(t, types.StatusSkipped, res.Status)
	assert.ErrorIs(t, res.Err, ErrUnchanged)

	res = c.ConvertFile(ctx, Job{in, out}, false)
	assert.Equal(t, types.StatusConverted, res.Status, "incremental off always converts")

	writeFile(t, in, "<p>two</p>")
	res = c.ConvertFile(ctx, Job{in, out}, true)
	assert.Equal(t, types.StatusConverted, res.Status)

	res = c.ConvertFile(ctx, Job{filepath.Join(dir, "missing.html"), filepath.Join(dir, "m.hwpx")}, true)
	assert.Equal(t, types.StatusFailed, res.Status)

	recs, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 4, "skips are not recorded")
	assert.Equal(t, types.StatusFailed, recs[0].Status)
	assert.Contains(t, recs[0].Error, "missing.html")
	assert.Equal(t, builtinTemplateHash, recs[1].TemplateSHA256)
	assert.NotEmpty(t, recs[1].InputSHA256)
	assert.Equal(t, "html", recs[1].Reader)
}

func TestConvertFilePandoc(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "notes.md"), "# ignored by the fake\n")
	runner := &fakeRunner{json: `{"pandoc-api-version":[1,23,1],"meta":{},"blocks":[{"t":"Para","c":[{"t":"Str","c":"from"},{"t":"Space"},{"t":"Str","c":"pandoc"}]}]}`}

	c := newConverter(t, types.ConversionConfig{}, nil)
	c.detect = func(string, string) (pandoc.Runner, error) { return runner, nil }

	out := filepath.Join(dir, "notes.hwpx")
	res := c.ConvertFile(context.Background(), Job{in, out}, false)
	require.NoError(t, res.Err)
	assert.Equal(t, "pandoc/fake", res.Reader)
	assert.Equal(t, "markdown", runner.gotFormat)
	assert.Contains(t, readEntry(t, out, hwpx.EntrySection), "from pandoc")
}

func TestConvertFileNoPandoc(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "notes.md"), "text")
	c := newConverter(t, types.ConversionConfig{}, nil)
	calls := 0
	c.detect = func(string, string) (pandoc.Runner, error) {
		calls++
		return nil, fmt.Errorf("%w: test", pandoc.ErrNoRunner)
	}

	for i := 0; i < 2; i++ {
		res := c.ConvertFile(context.Background(), Job{in, filepath.Join(dir, fmt.Sprintf("n%d.hwpx", i))}, false)
		assert.Equal(t, types.StatusFailed, res.Status)
		assert.ErrorIs(t, res.Err, pandoc.ErrNoRunner)
	}
	assert.Equal(t, 1, calls, "detection runs once")
}

func TestConvertFilePandocAST(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "doc.json"),
		`{"pandoc-api-version":[1,23,1],"meta":{},"blocks":[{"t":"Para","c":[{"t":"Str","c":"stored"},{"t":"Space"},{"t":"Str","c":"ast"}]}]}`)
	c := newConverter(t, types.ConversionConfig{}, nil)
	calls := 0
	c.detect = func(string, string) (pandoc.Runner, error) {
		calls++
		return nil, fmt.Errorf("%w: test", pandoc.ErrNoRunner)
	}

	out := filepath.Join(dir, "doc.hwpx")
	res := c.ConvertFile(context.Background(), Job{in, out}, false)
	require.NoError(t, res.Err)
	assert.Equal(t, types.StatusConverted, res.Status)
	assert.Equal(t, "pandoc/ast", res.Reader)
	assert.Zero(t, calls, "an AST file needs no pandoc")
	assert.Contains(t, readEntry(t, out, hwpx.EntrySection), "stored ast")
}

func TestConvertFileIncrementalRefresh(t *testing.T) {
	dir := t.TempDir()
	j, err := journal.Open(filepath.Join(dir, "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	in := writeFile(t, filepath.Join(dir, "a.html"), "<p>one</p>")
	out := filepath.Join(dir, "a.hwpx")
	c := newConverter(t, types.ConversionConfig{}, j)
	ctx := context.Background()

	res := c.ConvertFile(ctx, Job{in, out}, true)
	require.NoError(t, res.Err)
	assert.Equal(t, types.StatusConverted, res.Status)

	res = c.ConvertFile(ctx, Job{in, out}, true)
	assert.ErrorIs(t, res.Err, ErrUnchanged)

	writeFile(t, in, "<p>two</p>")
	res = c.ConvertFile(ctx, Job{in, out}, true)
	require.NoError(t, res.Err)
	assert.Equal(t, types.StatusConverted, res.Status)
	assert.Contains(t, readEntry(t, out, hwpx.EntrySection), "two")

	res = c.ConvertFile(ctx, Job{in, out}, false)
	assert.ErrorIs(t, res.Err, ErrOutputExists, "without incremental an existing output is kept")

	// Outputs the journal never wrote are left alone.
	other := writeFile(t, filepath.Join(dir, "b.html"), "<p>b</p>")
	foreign := writeFile(t, filepath.Join(dir, "b.hwpx"), "mine")
	res = c.ConvertFile(ctx, Job{other, foreign}, true)
	assert.ErrorIs(t, res.Err, ErrOutputExists)
	data, err := os.ReadFile(foreign)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestPlanJobs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "a.html"), "")
	writeFile(t, filepath.Join(src, "sub", "b.htm"), "")
	writeFile(t, filepath.Join(src, "c.txt"), "")
	writeFile(t, filepath.Join(src, ".git", "d.html"), "")
	single := writeFile(t, filepath.Join(dir, "single.md"), "")

	jobs, err := PlanJobs([]string{src, single}, "", nil)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, Job{filepath.Join(src, "a.html"), filepath.Join(src, "a.hwpx")}, jobs[0])
	assert.Equal(t, Job{filepath.Join(src, "sub", "b.htm"), filepath.Join(src, "sub", "b.hwpx")}, jobs[1])
	assert.Equal(t, Job{single, filepath.Join(dir, "single.hwpx")}, jobs[2])

	out := filepath.Join(dir, "out")
	jobs, err = PlanJobs([]string{src}, out, []string{"txt", ".html"})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, filepath.Join(out, "a.hwpx"), jobs[0].Output)
	assert.Equal(t, filepath.Join(out, "c.hwpx"), jobs[1].Output)

	_, err = PlanJobs([]string{filepath.Join(src, "a.html"), filepath.Join(src, "sub", "b.htm"), filepath.Join(dir, "x", "a.html")}, out, nil)
	assert.Error(t, err, "missing input")

	writeFile(t, filepath.Join(dir, "x", "a.html"), "")
	_, err = PlanJobs([]string{filepath.Join(src, "a.html"), filepath.Join(dir, "x", "a.html")}, out, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both write")
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for _, name := range []string{"a", "b"} {
		in := writeFile(t, filepath.Join(dir, name+".html"), "<p>"+name+"</p>")
		jobs = append(jobs, Job{in, OutputPath(in, "")})
	}
	existing := writeFile(t, filepath.Join(dir, "c.html"), "<p>c</p>")
	writeFile(t, OutputPath(existing, ""), "old")
	jobs = append(jobs,
		Job{existing, OutputPath(existing, "")},
		Job{filepath.Join(dir, "gone.html"), filepath.Join(dir, "gone.hwpx")},
	)

	var buf bytes.Buffer
	c := newConverter(t, types.ConversionConfig{}, nil)
	result := c.ConvertBatch(context.Background(), jobs, 2, false, &buf)

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 4, result.Total())
	assert.True(t, result.HasFailures())
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "gone.html")

	log := buf.String()
	assert.Equal(t, 2, strings.Count(log, "converted: "))
	assert.Contains(t, log, "skipped: "+existing+" (already exists)")
	assert.Contains(t, log, "failed:  "+filepath.Join(dir, "gone.html"))
	assert.Contains(t, log, "Batch summary: 2 converted, 1 skipped, 1 failed (total: 4)")
}

func TestReportLines(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Result{Job: Job{"a.html", "a.hwpx"}, Status: types.StatusConverted, Bytes: 2048, Reader: "html"}, "converted: a.html -> a.hwpx (2.0 kB, html)\n"},
		{Result{Job: Job{"a.html", "a.hwpx"}, Status: types.StatusSkipped, Err: ErrUnchanged}, "skipped: a.html (unchanged)\n"},
		{Result{Job: Job{"a.html", "a.hwpx"}, Status: types.StatusFailed, Err: errors.New("boom")}, "failed:  a.html (boom)\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		Report(&buf, tt.res)
		assert.Equal(t, tt.want, buf.String())
	}
}
