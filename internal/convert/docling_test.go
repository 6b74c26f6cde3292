// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docmark/internal/container"
	"github.com/pdiddy/docmark/pkg/types"
)

// fakeDocling mimics the docling CLI's output layout.
type fakeDocling struct {
	mdName string
	stderr string
	err    error
	args   []string
}

func (f *fakeDocling) run(_ context.Context, src, out string, extra []string, stderr io.Writer) error {
	f.args = doclingArgs(src, out, extra)
	if f.stderr != "" {
		fmt.Fprint(stderr, f.stderr)
	}
	if f.err != nil {
		return f.err
	}
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	name := f.mdName
	if name == "" {
		name = stem + ".md"
	}
	return os.WriteFile(filepath.Join(out, name), []byte("# doc\n"), 0o644)
}

func TestDoclingConvert(t *testing.T) {
	work := t.TempDir()
	runner := &fakeDocling{}
	d := &DoclingConverter{runner: runner, extra: []string{"--no-ocr"}, where: "test"}

	out, err := d.Convert(context.Background(), "/in/report.pdf", work)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "report.md"), out.MarkdownPath)
	assert.Equal(t, filepath.Join(work, "report_artifacts"), out.ArtifactsDir)
	assert.Equal(t, []string{
		"--to", "md", "--image-export-mode", "referenced",
		"--output", work, "--no-ocr", "/in/report.pdf",
	}, runner.args)
}

func TestDoclingConvertFindsRenamedMarkdown(t *testing.T) {
	work := t.TempDir()
	d := &DoclingConverter{runner: &fakeDocling{mdName: "Report Final.md"}, where: "test"}

	out, err := d.Convert(context.Background(), "/in/report.pdf", work)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "Report Final.md"), out.MarkdownPath)
}

func TestDoclingConvertNoMarkdown(t *testing.T) {
	work := t.TempDir()
	d := &DoclingConverter{runner: &fakeDocling{mdName: "x.txt"}, where: "test"}

	_, err := d.Convert(context.Background(), "/in/report.pdf", work)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced no markdown")
}

func TestDoclingConvertClassifiesPageDimensions(t *testing.T) {
	d := &DoclingConverter{runner: &fakeDocling{
		err:    errors.New("exit status 1"),
		stderr: "ERROR: could not find the page-dimensions for page 2\n",
	}}

	_, err := d.Convert(context.Background(), "/in/scan.pdf", t.TempDir())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPageDimensions)
}

func TestDoclingConvertOtherFailure(t *testing.T) {
	d := &DoclingConverter{runner: &fakeDocling{
		err:    errors.New("exit status 1"),
		stderr: "ValueError: unsupported\n",
	}}

	_, err := d.Convert(context.Background(), "/in/scan.pdf", t.TempDir())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingPageDimensions)
	assert.Contains(t, err.Error(), "ValueError: unsupported")
}

// relativeOutputDocling lays out files the way docling does when --output
// is a relative path: the Markdown in out, the artifacts under out/out.
type relativeOutputDocling struct{}

func (relativeOutputDocling) run(_ context.Context, src, out string, _ []string, _ io.Writer) error {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	artifacts := filepath.Join(out, out, stem+"_artifacts")
	if err := os.MkdirAll(artifacts, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(artifacts, "image_000.png"), []byte("png"), 0o644); err != nil {
		return err
	}
	md := fmt.Sprintf("# %s\n\n![Image](%s/%s_artifacts/image_000.png)\n", stem, out, stem)
	return os.WriteFile(filepath.Join(out, stem+".md"), []byte(md), 0o644)
}

func TestConvertItemKeepsImagesFromRelativeOutput(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll("input", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("input", "doc.pdf"), []byte("%PDF-1.4"), 0o644))

	var w bytes.Buffer
	cfg := types.ConversionConfig{InputDir: "input", OutputDir: "output"}
	o := NewOrchestrator(&DoclingConverter{runner: relativeOutputDocling{}, where: "test"}, nil, cfg, zerolog.Nop(), &w)

	res := o.ConvertItem(context.Background(), types.NewWorkItem("file1", "doc.pdf"))

	require.Equal(t, types.ItemConverted, res.Status, res.Message)
	assert.Equal(t, 1, res.Images)
	assert.FileExists(t, filepath.Join("output", "doc_images", "image_000.png"))
	md, err := os.ReadFile(filepath.Join("output", "doc.md"))
	require.NoError(t, err)
	assert.Equal(t, "# doc\n\n![Image](doc_images/image_000.png)\n", string(md))
}

func TestFindArtifacts(t *testing.T) {
	work := t.TempDir()
	assert.Equal(t, filepath.Join(work, "a_artifacts"), findArtifacts(work, "a_artifacts"), "missing dir keeps the expected path")

	nested := filepath.Join(work, "output", ".a-1", "a_artifacts")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	assert.Equal(t, nested, findArtifacts(work, "a_artifacts"))

	direct := filepath.Join(work, "a_artifacts")
	require.NoError(t, os.MkdirAll(direct, 0o755))
	assert.Equal(t, direct, findArtifacts(work, "a_artifacts"))
}

func TestLocalDoclingPassesAbsolutePaths(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the docling binary")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	bin := filepath.Join(dir, "docling")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > args.txt\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	l := &localDocling{bin: bin}
	require.NoError(t, l.run(context.Background(), "in/a.pdf", "output/.a-1", nil, io.Discard))

	data, err := os.ReadFile(filepath.Join(dir, "args.txt"))
	require.NoError(t, err)
	args := strings.Fields(string(data))
	require.NotEmpty(t, args)
	assert.Equal(t, filepath.Join(dir, "in", "a.pdf"), args[len(args)-1])
	assert.Contains(t, args, filepath.Join(dir, "output", ".a-1"))
}

func TestDoclingAccepts(t *testing.T) {
	d := &DoclingConverter{}
	assert.True(t, d.Accepts(".pdf"))
	assert.True(t, d.Accepts(".docx"))
	assert.False(t, d.Accepts(".doc"))
	assert.False(t, d.Accepts(".txt"))
	assert.Equal(t, "docling", d.Name())
}

// fakeRuntime is a container.Runtime driven by a function.
type fakeRuntime struct {
	imageErr error
	runFunc  func(spec container.RunSpec) error
	specs    []container.RunSpec
}

func (f *fakeRuntime) Name() string             { return "docker" }
func (f *fakeRuntime) Available() bool          { return true }
func (f *fakeRuntime) ImageExists(string) error { return f.imageErr }

func (f *fakeRuntime) Run(_ context.Context, spec container.RunSpec) error {
	f.specs = append(f.specs, spec)
	if f.runFunc != nil {
		return f.runFunc(spec)
	}
	return nil
}

func TestContainerDoclingMountsSourceAndOutput(t *testing.T) {
	in := t.TempDir()
	work := t.TempDir()
	rt := &fakeRuntime{runFunc: func(spec container.RunSpec) error {
		return os.WriteFile(filepath.Join(work, "a.md"), []byte("# a\n"), 0o644)
	}}
	d, err := NewContainerDoclingConverter(types.DoclingConfig{}, rt)
	require.NoError(t, err)

	out, err := d.Convert(context.Background(), filepath.Join(in, "a.pdf"), work)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "a.md"), out.MarkdownPath)

	require.Len(t, rt.specs, 1)
	spec := rt.specs[0]
	assert.Equal(t, defaultDoclingImage, spec.Image)
	assert.Equal(t, []container.Mount{
		{Source: in, Target: containerInDir, ReadOnly: true},
		{Source: work, Target: containerOutDir},
	}, spec.Mounts)
	assert.Equal(t, "docling", spec.Args[0])
	assert.Equal(t, containerInDir+"/a.pdf", spec.Args[len(spec.Args)-1])
	assert.Contains(t, spec.Args, containerOutDir)
}

func TestContainerDoclingMissingImage(t *testing.T) {
	rt := &fakeRuntime{imageErr: errors.New("no such image")}
	_, err := NewContainerDoclingConverter(types.DoclingConfig{Image: "custom/docling:1"}, rt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docling image not available in docker")
}

func TestMarkitdownConvert(t *testing.T) {
	src := filepath.Join(t.TempDir(), "memo.docx")
	require.NoError(t, os.WriteFile(src, []byte("PK fake docx"), 0o644))
	work := t.TempDir()

	rt := &fakeRuntime{runFunc: func(spec container.RunSpec) error {
		data, err := io.ReadAll(spec.Stdin)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(spec.Stdout, "# memo\n\n%d bytes\n", len(data))
		return err
	}}
	m, err := NewMarkitdownConverter(rt, "")
	require.NoError(t, err)

	out, err := m.Convert(context.Background(), src, work)
	require.NoError(t, err)
	assert.Empty(t, out.ArtifactsDir)

	md, err := os.ReadFile(out.MarkdownPath)
	require.NoError(t, err)
	assert.Equal(t, "# memo\n\n12 bytes\n", string(md))
	assert.Equal(t, imageMarkitdown, rt.specs[0].Image)
}

func TestMarkitdownEmptyOutput(t *testing.T) {
	src := filepath.Join(t.TempDir(), "memo.docx")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	m, err := NewMarkitdownConverter(&fakeRuntime{}, "")
	require.NoError(t, err)

	_, err = m.Convert(context.Background(), src, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty output")
}

func TestMarkitdownFailure(t *testing.T) {
	src := filepath.Join(t.TempDir(), "memo.docx")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	rt := &fakeRuntime{runFunc: func(spec container.RunSpec) error {
		fmt.Fprintln(spec.Stderr, "zipfile.BadZipFile: File is not a zip file")
		return errors.New("exit status 1")
	}}
	m, err := NewMarkitdownConverter(rt, "")
	require.NoError(t, err)

	_, err = m.Convert(context.Background(), src, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, "markitdown: exit status 1: zipfile.BadZipFile: File is not a zip file", err.Error())
}
