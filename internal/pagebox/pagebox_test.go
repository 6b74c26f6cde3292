// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagebox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(llx, lly, urx, ury float64) *Rect {
	return &Rect{LLX: llx, LLY: lly, URX: urx, URY: ury}
}

func TestRectValid(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"a4", A4, true},
		{"letter offset origin", Rect{10, 10, 622, 802}, true},
		{"reversed corners", Rect{595, 842, 0, 0}, true},
		{"zero width", Rect{0, 0, 0, 842}, false},
		{"zero height", Rect{0, 0, 595, 0}, false},
		{"all zero", Rect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Valid())
		})
	}
}

func TestRepair(t *testing.T) {
	letter := box(0, 0, 612, 792)
	doc := Document{Pages: []Page{
		{Number: 1, MediaBox: letter},
		{Number: 2, MediaBox: nil},
		{Number: 3, MediaBox: box(0, 0, 0, 842)},
		{Number: 4, MediaBox: box(0, 0, 595, 0)},
		{Number: 5, MediaBox: box(20, 20, 400, 600)},
	}}

	got, patched := Repair(doc)

	assert.Equal(t, []int{2, 3, 4}, patched)
	require.Len(t, got.Pages, 5)
	for i, p := range got.Pages {
		assert.Equal(t, i+1, p.Number, "page order must be preserved")
		require.NotNil(t, p.MediaBox)
		assert.True(t, p.MediaBox.Valid())
	}
	assert.Equal(t, *letter, *got.Pages[0].MediaBox)
	assert.Equal(t, A4, *got.Pages[1].MediaBox)
	assert.Equal(t, A4, *got.Pages[2].MediaBox)
	assert.Equal(t, A4, *got.Pages[3].MediaBox)
	assert.Equal(t, Rect{20, 20, 400, 600}, *got.Pages[4].MediaBox)
}

func TestRepairDoesNotAliasInput(t *testing.T) {
	orig := box(0, 0, 612, 792)
	doc := Document{Pages: []Page{{Number: 1, MediaBox: orig}, {Number: 2}}}

	got, _ := Repair(doc)
	got.Pages[0].MediaBox.URX = 1

	assert.Equal(t, 612.0, orig.URX)
	assert.Nil(t, doc.Pages[1].MediaBox, "input document must not be mutated")
}

func TestRepairIdempotent(t *testing.T) {
	doc := Document{Pages: []Page{
		{Number: 1},
		{Number: 2, MediaBox: box(0, 0, 612, 792)},
		{Number: 3, MediaBox: box(0, 0, 0, 0)},
	}}

	once, patched := Repair(doc)
	require.Equal(t, []int{1, 3}, patched)

	twice, patchedAgain := Repair(once)
	assert.Empty(t, patchedAgain)
	assert.Equal(t, once, twice)
}

func TestRepairEmptyDocument(t *testing.T) {
	got, patched := Repair(Document{})
	assert.Empty(t, got.Pages)
	assert.Empty(t, patched)
}

func TestDefective(t *testing.T) {
	doc := Document{Pages: []Page{
		{Number: 1, MediaBox: box(0, 0, 595, 842)},
		{Number: 2},
		{Number: 3, MediaBox: box(0, 0, 0, 0)},
	}}
	assert.Equal(t, []int{2, 3}, doc.Defective())
}
