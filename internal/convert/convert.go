// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns DOCX and PDF documents into Markdown with an
// images directory, using a pluggable converter backend. PDFs that fail
// because their pages lack a MediaBox are repaired and converted once more.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/docmark/internal/pdfrepair"
	"github.com/pdiddy/docmark/pkg/types"
)

const (
	// imagesSuffix names the per-document images directory: <base>_images.
	imagesSuffix = "_images"
	// patchedSuffix names the repaired copy of a PDF: <base>_patched.pdf.
	patchedSuffix = "_patched.pdf"
	// retryDir is the scratch subdirectory used by the second attempt.
	retryDir = "retry"

	rule = "============================================================"
)

// Output locates what a converter produced inside its work directory.
type Output struct {
	// MarkdownPath is the Markdown file written by the converter.
	MarkdownPath string
	// ArtifactsDir holds extracted images. It may not exist when the
	// document has none.
	ArtifactsDir string
}

// Converter transforms a document into Markdown plus images. Different
// backends (docling, markitdown, MuPDF) implement this interface.
type Converter interface {
	// Name identifies the backend in logs and reports.
	Name() string

	// Accepts reports whether the backend handles files with the given
	// lower-case extension (including the dot).
	Accepts(ext string) bool

	// Convert reads the document at srcPath and writes its output under
	// workDir, which exists and is empty.
	Convert(ctx context.Context, srcPath, workDir string) (*Output, error)
}

// Repairer writes a copy of a PDF with default page boxes where missing.
type Repairer interface {
	PatchFile(ctx context.Context, src, dst string) (pdfrepair.Result, error)
}

// Orchestrator converts work items one at a time.
type Orchestrator struct {
	conv      Converter
	repairer  Repairer
	inputDir  string
	outputDir string
	log       zerolog.Logger
	w         io.Writer
}

// NewOrchestrator wires a converter and a repairer. Progress lines are
// written to w.
func NewOrchestrator(c Converter, r Repairer, cfg types.ConversionConfig, log zerolog.Logger, w io.Writer) *Orchestrator {
	return &Orchestrator{
		conv:      c,
		repairer:  r,
		inputDir:  cfg.InputDir,
		outputDir: cfg.OutputDir,
		log:       log.With().Str("backend", c.Name()).Logger(),
		w:         w,
	}
}

// ConvertItem converts a single work item and reports the outcome. It
// never returns an error: failures are recorded in the result so that a
// batch can continue with the next item.
func (o *Orchestrator) ConvertItem(ctx context.Context, item types.WorkItem) (res types.ItemResult) {
	start := time.Now()
	res = types.ItemResult{Item: item, Status: types.ItemPending}
	log := o.log.With().Str("item", item.Path).Logger()
	defer func() {
		res.Duration = time.Since(start)
		if res.Status == types.ItemFailed {
			log.Warn().Str("kind", string(res.ErrorKind)).Msg(res.Message)
			fmt.Fprintf(o.w, "failed:    %s (%s)\n", item.Path, res.Message)
			return
		}
		log.Info().Int("images", res.Images).Bool("patched", res.UsedPatched()).Dur("took", res.Duration).Msg("converted")
		fmt.Fprintf(o.w, "converted: %s\n", res.Message)
	}()

	src := item.SourcePath(o.inputDir)
	fmt.Fprintf(o.w, "\n%s\nConverting: %s\n%s\n", rule, filepath.Base(src), rule)

	if info, err := os.Stat(src); err != nil || info.IsDir() {
		if err == nil {
			err = fmt.Errorf("is a directory")
		}
		return fail(res, types.NewError(types.KindSourceMissing, src, err))
	}
	if !o.conv.Accepts(item.Ext()) {
		return fail(res, types.NewError(types.KindUnsupported, src,
			fmt.Errorf("%s backend does not handle %q files", o.conv.Name(), item.Ext())))
	}

	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return fail(res, types.NewError(types.KindConversion, o.outputDir, err))
	}
	work, err := os.MkdirTemp(o.outputDir, "."+item.BaseName+"-*")
	if err != nil {
		return fail(res, types.NewError(types.KindConversion, o.outputDir, err))
	}
	defer os.RemoveAll(work)

	log.Debug().Str("src", src).Str("work", work).Msg("converting")
	out, err := o.conv.Convert(ctx, src, work)
	if err != nil {
		if !item.IsPDF() || o.repairer == nil || !IsMissingPageDimensions(err) {
			return fail(res, types.NewError(types.KindConversion, src, err))
		}

		fmt.Fprintln(o.w, "MediaBox error detected: PDF is missing page dimensions")
		log.Info().Err(err).Msg("patching PDF with A4 MediaBox and retrying")

		patched := filepath.Join(o.outputDir, item.BaseName+patchedSuffix)
		pr, perr := o.repairer.PatchFile(ctx, src, patched)
		if perr != nil {
			return fail(res, perr)
		}
		res.PatchedPDF = patched
		res.PagesPatched = pr.Count()
		if pr.Count() > 0 {
			fmt.Fprintf(o.w, "Patched %d page(s) with A4 MediaBox, saved %s\n", pr.Count(), filepath.Base(patched))
		} else {
			fmt.Fprintln(o.w, "No pages needed patching")
		}

		retry := filepath.Join(work, retryDir)
		if err := os.Mkdir(retry, 0o755); err != nil {
			return fail(res, types.NewError(types.KindConversion, retry, err))
		}
		fmt.Fprintln(o.w, "Retrying conversion with patched PDF...")
		out, err = o.conv.Convert(ctx, patched, retry)
		if err != nil {
			return fail(res, types.NewError(types.KindConversion, patched,
				fmt.Errorf("retry with patched PDF failed: %w", err)))
		}
	}

	pub, err := publish(out, o.outputDir, item.BaseName)
	if err != nil {
		return fail(res, types.NewError(types.KindConversion, src, err))
	}

	res.Status = types.ItemConverted
	res.MarkdownPath = pub.markdownPath
	res.ImagesDir = pub.imagesDir
	res.Images = pub.images
	res.Message = fmt.Sprintf("%s with %d image(s)", filepath.Base(src), pub.images)
	if res.UsedPatched() {
		res.Message += " (used patched PDF)"
	}
	return res
}

func fail(res types.ItemResult, err error) types.ItemResult {
	res.Status = types.ItemFailed
	res.ErrorKind = types.KindOf(err)
	res.Message = err.Error()
	return res
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Results   []types.ItemResult
	Converted int
	Failed    int
}

// Total returns the number of items processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any item failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts items in order. A failing item never stops the
// batch; every item is attempted and the summary is printed at the end.
func (o *Orchestrator) ConvertBatch(ctx context.Context, items []types.WorkItem) BatchResult {
	var result BatchResult
	for _, item := range items {
		r := o.ConvertItem(ctx, item)
		result.Results = append(result.Results, r)
		if r.Status == types.ItemConverted {
			result.Converted++
		} else {
			result.Failed++
		}
	}
	PrintSummary(o.w, result)
	return result
}

// imageExts are the extracted image types counted in results.
var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// isImage reports whether name has one of imageExts.
func isImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}
