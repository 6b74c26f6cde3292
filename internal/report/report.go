// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report records the outcome of a conversion run as YAML.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docmark/pkg/types"
)

// Run is the YAML document written after a convert run.
type Run struct {
	ID        string    `yaml:"id"`
	Backend   string    `yaml:"backend"`
	InputDir  string    `yaml:"input_dir"`
	OutputDir string    `yaml:"output_dir"`
	Started   time.Time `yaml:"started"`
	Finished  time.Time `yaml:"finished"`
	Total     int       `yaml:"total"`
	Converted int       `yaml:"converted"`
	Failed    int       `yaml:"failed"`
	Items     []Item    `yaml:"items"`
}

// Item is one work item's entry in the report.
type Item struct {
	Key          string `yaml:"key"`
	Path         string `yaml:"path"`
	Status       string `yaml:"status"`
	Message      string `yaml:"message"`
	Markdown     string `yaml:"markdown,omitempty"`
	ImagesDir    string `yaml:"images_dir,omitempty"`
	Images       int    `yaml:"images"`
	PatchedPDF   string `yaml:"patched_pdf,omitempty"`
	PagesPatched int    `yaml:"pages_patched,omitempty"`
	ErrorKind    string `yaml:"error_kind,omitempty"`
	Duration     string `yaml:"duration"`
}

// New starts a report for a run with a fresh random ID.
func New(cfg types.ConversionConfig, backend string, started time.Time) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Backend:   backend,
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Started:   started.UTC(),
	}
}

// Finish records the item results and the end time.
func (r *Run) Finish(results []types.ItemResult, finished time.Time) {
	r.Finished = finished.UTC()
	r.Items = r.Items[:0]
	r.Converted, r.Failed = 0, 0
	for _, res := range results {
		if res.Status == types.ItemConverted {
			r.Converted++
		} else {
			r.Failed++
		}
		r.Items = append(r.Items, Item{
			Key:          res.Item.Key,
			Path:         res.Item.Path,
			Status:       string(res.Status),
			Message:      res.Message,
			Markdown:     res.MarkdownPath,
			ImagesDir:    res.ImagesDir,
			Images:       res.Images,
			PatchedPDF:   res.PatchedPDF,
			PagesPatched: res.PagesPatched,
			ErrorKind:    string(res.ErrorKind),
			Duration:     res.Duration.Round(time.Millisecond).String(),
		})
	}
	r.Total = len(results)
}

// Write marshals the report to path, creating parent directories.
func (r *Run) Write(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
