//go:build mage

// Package main contains Mage build targets for docmark developer tooling.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the convert command expects.
var projectDirs = []string{
	"input",
	"output",
}

const sampleWorklist = `; Documents to convert, relative to this directory.
[FILES]
; file1 = report.docx
; file2 = scan.pdf
`

// Init creates the input and output directories and a sample worklist.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	ini := filepath.Join("input", "config.ini")
	if _, err := os.Stat(ini); os.IsNotExist(err) {
		if err := os.WriteFile(ini, []byte(sampleWorklist), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", ini, err)
		}
		fmt.Println("  ", ini)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "docmark"
	cmdPkg  = "./cmd/docmark"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Check vets the module and runs the tests.
func Check() error {
	mg.Deps(Vet)
	return Test()
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints Go production and test line counts and what the last
// convert run left in output/: Markdown files, their words, and images.
func Stats() error {
	prod, tests, err := countGoLines(".")
	if err != nil {
		return err
	}
	out, err := countOutput("output")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("Markdown files (output):        %d\n", out.markdown)
	fmt.Printf("Words (output Markdown):        %d\n", out.words)
	fmt.Printf("Images (output):                %d\n", out.images)
	fmt.Printf("Patched PDFs (output):          %d\n", out.patched)
	return nil
}

// countGoLines counts non-blank lines in .go files below root, split into
// production and _test.go files. Vendored and hidden directories are skipped.
func countGoLines(root string) (prod, tests int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			tests += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, tests, err
}

type outputStats struct {
	markdown, words, images, patched int
}

// countOutput tallies the files docmark writes into dir. A missing dir
// counts as empty.
func countOutput(dir string) (outputStats, error) {
	var st outputStats
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.ToLower(d.Name())
		switch {
		case strings.HasSuffix(name, "_patched.pdf"):
			st.patched++
		case filepath.Ext(name) == ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			st.markdown++
			st.words += len(strings.Fields(string(data)))
		case filepath.Ext(name) == ".png", filepath.Ext(name) == ".jpg", filepath.Ext(name) == ".jpeg":
			st.images++
		}
		return nil
	})
	return st, err
}
