// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfrepair reads and rewrites PDF page boxes with pdfcpu. The
// repair decision itself is made by pagebox.Repair; this package only
// translates between pdfcpu's object model and pagebox.Document.
package pdfrepair

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/rs/zerolog"

	"github.com/pdiddy/docmark/internal/pagebox"
	dtypes "github.com/pdiddy/docmark/pkg/types"
)

// maxParentDepth bounds the page tree walk for inherited attributes so a
// cyclic /Parent chain cannot loop forever.
const maxParentDepth = 64

var disableConfigDir sync.Once

// Result describes one repair run.
type Result struct {
	// Pages is the page count of the source document.
	Pages int
	// Patched lists the 1-based numbers of pages given the default MediaBox.
	Patched []int
}

// Count returns the number of pages that were patched.
func (r Result) Count() int {
	return len(r.Patched)
}

// Patcher repairs PDFs on disk.
type Patcher struct {
	log zerolog.Logger
}

// NewPatcher returns a Patcher logging to log.
func NewPatcher(log zerolog.Logger) *Patcher {
	// pdfcpu otherwise creates a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)
	return &Patcher{log: log}
}

// Inspect returns the effective MediaBox of every page in the PDF at path.
func (p *Patcher) Inspect(ctx context.Context, path string) (pagebox.Document, error) {
	var doc pagebox.Document
	err := p.withContext(ctx, path, func(pctx *model.Context) error {
		var err error
		doc, _, err = readBoxes(pctx)
		return err
	})
	if err != nil {
		return pagebox.Document{}, dtypes.NewError(dtypes.KindRepair, path, err)
	}
	return doc, nil
}

// PatchFile writes a copy of src to dst in which every page without a
// usable MediaBox carries the A4 default. src is not modified. The copy is
// staged next to dst and renamed into place, so on failure nothing is left
// at dst.
func (p *Patcher) PatchFile(ctx context.Context, src, dst string) (Result, error) {
	if sameFile(src, dst) {
		return Result{}, dtypes.NewError(dtypes.KindRepair, src,
			fmt.Errorf("destination %s is the source file", dst))
	}

	var res Result
	err := p.withContext(ctx, src, func(pctx *model.Context) error {
		doc, dicts, err := readBoxes(pctx)
		if err != nil {
			return err
		}
		repaired, patched := pagebox.Repair(doc)
		res = Result{Pages: len(doc.Pages), Patched: patched}

		for _, num := range patched {
			box := repaired.Pages[num-1].MediaBox
			dicts[num-1]["MediaBox"] = types.NewNumberArray(box.LLX, box.LLY, box.URX, box.URY)
		}
		return writeAtomic(pctx, dst)
	})
	if err != nil {
		return Result{}, dtypes.NewError(dtypes.KindRepair, src, err)
	}

	p.log.Debug().
		Str("src", src).
		Str("dst", dst).
		Int("pages", res.Pages).
		Ints("patched", res.Patched).
		Msg("pdf repaired")
	return res, nil
}

// withContext opens path, parses it without validation and hands the
// pdfcpu context to fn. The file stays open until fn returns.
func (p *Patcher) withContext(ctx context.Context, path string, fn func(*model.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	// Validation rejects pages without a MediaBox, which is exactly the
	// defect being repaired, so only the raw read is performed.
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pctx, err := api.ReadContext(f, conf)
	if err != nil {
		return fmt.Errorf("parsing PDF: %w", err)
	}
	if err := pctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("counting pages: %w", err)
	}
	return fn(pctx)
}

// readBoxes builds the page geometry of pctx and returns the page
// dictionaries alongside, index-aligned with doc.Pages.
func readBoxes(pctx *model.Context) (pagebox.Document, []types.Dict, error) {
	doc := pagebox.Document{Pages: make([]pagebox.Page, 0, pctx.PageCount)}
	dicts := make([]types.Dict, 0, pctx.PageCount)

	for n := 1; n <= pctx.PageCount; n++ {
		d, _, _, err := pctx.PageDict(n, false)
		if err != nil {
			return pagebox.Document{}, nil, fmt.Errorf("reading page %d: %w", n, err)
		}
		if d == nil {
			return pagebox.Document{}, nil, fmt.Errorf("page %d not found in page tree", n)
		}
		box, err := mediaBox(pctx, d)
		if err != nil {
			return pagebox.Document{}, nil, fmt.Errorf("page %d: %w", n, err)
		}
		doc.Pages = append(doc.Pages, pagebox.Page{Number: n, MediaBox: box})
		dicts = append(dicts, d)
	}
	return doc, dicts, nil
}

// mediaBox resolves the page's MediaBox, following /Parent for the
// inherited value. A box that is present but malformed is reported as
// absent rather than failing the read.
func mediaBox(pctx *model.Context, d types.Dict) (*pagebox.Rect, error) {
	node := d
	for depth := 0; node != nil && depth < maxParentDepth; depth++ {
		if obj, ok := node.Find("MediaBox"); ok {
			return rectFrom(pctx, obj), nil
		}
		parent, ok := node.Find("Parent")
		if !ok {
			return nil, nil
		}
		next, err := pctx.DereferenceDict(parent)
		if err != nil {
			return nil, fmt.Errorf("resolving page tree parent: %w", err)
		}
		node = next
	}
	return nil, nil
}

func rectFrom(pctx *model.Context, obj types.Object) *pagebox.Rect {
	arr, err := pctx.DereferenceArray(obj)
	if err != nil || len(arr) != 4 {
		return nil
	}
	var v [4]float64
	for i, o := range arr {
		o, err := pctx.Dereference(o)
		if err != nil {
			return nil
		}
		switch n := o.(type) {
		case types.Integer:
			v[i] = float64(n)
		case types.Float:
			v[i] = float64(n)
		default:
			return nil
		}
	}
	return &pagebox.Rect{LLX: v[0], LLY: v[1], URX: v[2], URY: v[3]}
}

// sameFile reports whether dst names src, by path or, when both exist, by
// identity (hard links, symlinks).
func sameFile(src, dst string) bool {
	a, aerr := filepath.Abs(src)
	b, berr := filepath.Abs(dst)
	if aerr == nil && berr == nil && a == b {
		return true
	}
	si, err := os.Stat(src)
	if err != nil {
		return false
	}
	di, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return os.SameFile(si, di)
}

// writeAtomic serializes pctx to a pending file in dst's directory and
// replaces dst with it once the write has fully succeeded.
func writeAtomic(pctx *model.Context, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	pf, err := renameio.NewPendingFile(dst, renameio.WithTempDir(dir), renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer pf.Cleanup()

	if err := api.WriteContext(pctx, pf); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replacing %s: %w", dst, err)
	}
	return nil
}
