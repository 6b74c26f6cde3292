// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"strings"
	"time"
)

// ItemStatus indicates the outcome of converting one work item.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemConverted ItemStatus = "converted"
	ItemFailed    ItemStatus = "failed"
)

// WorkItem is one document listed in the worklist config.
type WorkItem struct {
	// Key is the INI key the entry was listed under (e.g. "file1").
	Key string `json:"key" yaml:"key"`

	// Path is the configured document path, relative to the input directory
	// unless absolute.
	Path string `json:"path" yaml:"path"`

	// BaseName is the filename without its extension. Output files are
	// named after it: <base>.md, <base>_images/, <base>_patched.pdf.
	BaseName string `json:"base_name" yaml:"base_name"`
}

// NewWorkItem builds a WorkItem, deriving BaseName from path.
func NewWorkItem(key, path string) WorkItem {
	name := filepath.Base(path)
	return WorkItem{
		Key:      key,
		Path:     path,
		BaseName: strings.TrimSuffix(name, filepath.Ext(name)),
	}
}

// SourcePath resolves the item's path against inputDir.
func (w WorkItem) SourcePath(inputDir string) string {
	if filepath.IsAbs(w.Path) {
		return w.Path
	}
	return filepath.Join(inputDir, w.Path)
}

// Ext returns the lower-cased extension of the item's path, including the dot.
func (w WorkItem) Ext() string {
	return strings.ToLower(filepath.Ext(w.Path))
}

// IsPDF reports whether the item is a PDF document.
func (w WorkItem) IsPDF() bool {
	return w.Ext() == ".pdf"
}

// ItemResult records what happened to a single work item.
type ItemResult struct {
	Item WorkItem `json:"item" yaml:"item"`

	Status ItemStatus `json:"status" yaml:"status"`

	// Message is the human-readable outcome line.
	Message string `json:"message" yaml:"message"`

	// MarkdownPath and ImagesDir are set on success.
	MarkdownPath string `json:"markdown_path,omitempty" yaml:"markdown_path,omitempty"`
	ImagesDir    string `json:"images_dir,omitempty" yaml:"images_dir,omitempty"`

	// Images is the number of png/jpg/jpeg files extracted.
	Images int `json:"images" yaml:"images"`

	// PatchedPDF is the repaired copy used for the retry, if any.
	PatchedPDF string `json:"patched_pdf,omitempty" yaml:"patched_pdf,omitempty"`

	// PagesPatched counts pages that received the default MediaBox.
	PagesPatched int `json:"pages_patched,omitempty" yaml:"pages_patched,omitempty"`

	// ErrorKind classifies a failure; empty on success.
	ErrorKind ErrorKind `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// UsedPatched reports whether the conversion succeeded only after repair.
func (r ItemResult) UsedPatched() bool {
	return r.PatchedPDF != ""
}
