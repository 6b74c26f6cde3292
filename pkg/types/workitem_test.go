// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func TestNewWorkItem(t *testing.T) {
	tests := []struct {
		path     string
		wantBase string
		wantPDF  bool
	}{
		{"report.docx", "report", false},
		{"scans/Manual.PDF", "Manual", true},
		{"archive.v2.pdf", "archive.v2", true},
		{"noext", "noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := NewWorkItem("k", tt.path)
			if w.BaseName != tt.wantBase {
				t.Errorf("BaseName = %q, want %q", w.BaseName, tt.wantBase)
			}
			if w.IsPDF() != tt.wantPDF {
				t.Errorf("IsPDF = %v, want %v", w.IsPDF(), tt.wantPDF)
			}
		})
	}
}

func TestSourcePath(t *testing.T) {
	rel := NewWorkItem("k", "docs/a.pdf")
	if got, want := rel.SourcePath("input"), filepath.Join("input", "docs", "a.pdf"); got != want {
		t.Errorf("SourcePath = %q, want %q", got, want)
	}
	abs := NewWorkItem("k", "/tmp/a.pdf")
	if got := abs.SourcePath("input"); got != "/tmp/a.pdf" {
		t.Errorf("SourcePath = %q, want absolute path unchanged", got)
	}
}

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("converting: %w", NewError(KindRepair, "a.pdf", base))

	if got := KindOf(err); got != KindRepair {
		t.Errorf("KindOf = %q, want %q", got, KindRepair)
	}
	if !errors.Is(err, base) {
		t.Error("wrapped cause should be reachable with errors.Is")
	}
	if !errors.Is(err, &Error{Kind: KindRepair}) {
		t.Error("kind sentinel should match with errors.Is")
	}
	if errors.Is(err, &Error{Kind: KindConversion}) {
		t.Error("different kind should not match")
	}
	if got := KindOf(base); got != "" {
		t.Errorf("KindOf(plain error) = %q, want empty", got)
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewError(KindSourceMissing, "input/a.pdf", errors.New("no such file"))
	want := "source-missing: input/a.pdf: no such file"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
