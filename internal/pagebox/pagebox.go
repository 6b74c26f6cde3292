// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagebox models PDF page geometry independently of any PDF library
// and repairs pages whose MediaBox is missing or degenerate.
package pagebox

import "fmt"

// A4 is the default MediaBox substituted for unusable ones, in points.
var A4 = Rect{LLX: 0, LLY: 0, URX: 595, URY: 842}

// Rect is a page rectangle given by its lower-left and upper-right corners,
// in PDF points.
type Rect struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent of r. Corners given in reverse order
// still yield a positive width.
func (r Rect) Width() float64 {
	if r.URX < r.LLX {
		return r.LLX - r.URX
	}
	return r.URX - r.LLX
}

// Height returns the vertical extent of r.
func (r Rect) Height() float64 {
	if r.URY < r.LLY {
		return r.LLY - r.URY
	}
	return r.URY - r.LLY
}

// Valid reports whether r encloses a non-zero area.
func (r Rect) Valid() bool {
	return r.Width() > 0 && r.Height() > 0
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g %g %g %g]", r.LLX, r.LLY, r.URX, r.URY)
}

// Page is the geometry of one page. A nil MediaBox means the page has none,
// either directly or inherited from the page tree.
type Page struct {
	// Number is the 1-based position of the page in the document.
	Number   int
	MediaBox *Rect
}

// Defective reports whether the page lacks a usable MediaBox.
func (p Page) Defective() bool {
	return p.MediaBox == nil || !p.MediaBox.Valid()
}

// Document is the ordered sequence of pages in a PDF.
type Document struct {
	Pages []Page
}

// Defective returns the numbers of pages without a usable MediaBox.
func (d Document) Defective() []int {
	var nums []int
	for _, p := range d.Pages {
		if p.Defective() {
			nums = append(nums, p.Number)
		}
	}
	return nums
}

// Repair returns a copy of doc in which every defective page carries the
// A4 MediaBox, together with the numbers of the pages it changed. Valid
// pages are copied unchanged and page order is preserved, so repairing an
// already repaired document is a no-op.
func Repair(doc Document) (Document, []int) {
	out := Document{Pages: make([]Page, len(doc.Pages))}
	var patched []int
	for i, p := range doc.Pages {
		if p.Defective() {
			box := A4
			p.MediaBox = &box
			patched = append(patched, p.Number)
		} else {
			box := *p.MediaBox
			p.MediaBox = &box
		}
		out.Pages[i] = p
	}
	return out, patched
}
