// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/pdiddy/docmark/pkg/types"
)

// defaultFitzDPI renders page images at twice the PDF user-space
// resolution.
const defaultFitzDPI = 144

// FitzConverter converts PDFs natively with MuPDF. Each page becomes a
// Markdown section holding a rendered image of the page followed by its
// extracted text.
type FitzConverter struct {
	dpi float64
}

// NewFitzConverter returns a MuPDF-backed converter.
func NewFitzConverter(cfg types.FitzConfig) *FitzConverter {
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = defaultFitzDPI
	}
	return &FitzConverter{dpi: dpi}
}

func (f *FitzConverter) Name() string { return string(types.BackendFitz) }

func (f *FitzConverter) Accepts(ext string) bool { return ext == ".pdf" }

// Convert renders and extracts every page of the PDF at srcPath. A page
// with empty bounds fails with ErrMissingPageDimensions.
func (f *FitzConverter) Convert(ctx context.Context, srcPath, workDir string) (*Output, error) {
	doc, err := fitz.New(srcPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s with mupdf: %w", srcPath, err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return nil, fmt.Errorf("%s has no pages", srcPath)
	}

	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	artifactsName := stem + "_artifacts"
	artifacts := filepath.Join(workDir, artifactsName)
	if err := os.MkdirAll(artifacts, 0o755); err != nil {
		return nil, err
	}

	var b strings.Builder
	if title := strings.TrimSpace(doc.Metadata()["title"]); title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}

	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		num := i + 1

		bounds, err := doc.Bound(i)
		if err != nil || bounds.Empty() {
			cause := fmt.Errorf("page %d: %s", num, pageDimensionsMarker)
			if err != nil {
				cause = fmt.Errorf("page %d: %s: %w", num, pageDimensionsMarker, err)
			}
			return nil, types.NewError(types.KindMissingPageDimensions, srcPath, cause)
		}

		png, err := doc.ImagePNG(i, f.dpi)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", num, err)
		}
		imgName := fmt.Sprintf("page-%03d.png", num)
		if err := os.WriteFile(filepath.Join(artifacts, imgName), png, 0o644); err != nil {
			return nil, fmt.Errorf("writing page %d image: %w", num, err)
		}

		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("extracting text of page %d: %w", num, err)
		}

		fmt.Fprintf(&b, "## Page %d\n\n![Page %d](%s/%s)\n\n", num, num, artifactsName, imgName)
		if body := textToMarkdown(text); body != "" {
			b.WriteString(body)
			b.WriteString("\n\n")
		}
	}

	md := filepath.Join(workDir, stem+".md")
	if err := os.WriteFile(md, []byte(strings.TrimRight(b.String(), "\n")+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("writing markdown: %w", err)
	}
	return &Output{MarkdownPath: md, ArtifactsDir: artifacts}, nil
}

// textToMarkdown reflows extracted page text: lines within a paragraph are
// joined, paragraphs are separated by a blank line.
func textToMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var paras []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return strings.Join(paras, "\n\n")
}
