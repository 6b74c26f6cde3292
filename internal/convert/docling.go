// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pdiddy/docmark/internal/container"
	"github.com/pdiddy/docmark/pkg/types"
)

const (
	defaultDoclingBinary = "docling"
	defaultDoclingImage  = "docling:latest"

	// Mount points used when docling runs in a container.
	containerInDir  = "/data/in"
	containerOutDir = "/data/out"
)

// doclingExts lists the formats routed to docling.
var doclingExts = map[string]bool{".pdf": true, ".docx": true}

// doclingRunner executes docling on src, writing into the out directory.
type doclingRunner interface {
	run(ctx context.Context, src, out string, extra []string, stderr io.Writer) error
}

// DoclingConverter converts documents with the docling CLI, asking it to
// export Markdown with referenced images. docling writes <stem>.md and a
// <stem>_artifacts/ directory into the output directory.
type DoclingConverter struct {
	runner doclingRunner
	extra  []string
	where  string
}

// NewDoclingConverter returns a converter running the local docling binary.
// It verifies that the binary is on PATH.
func NewDoclingConverter(cfg types.DoclingConfig) (*DoclingConverter, error) {
	bin := cfg.Binary
	if bin == "" {
		bin = defaultDoclingBinary
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("docling binary %q not found: %w", bin, err)
	}
	return &DoclingConverter{
		runner: &localDocling{bin: path},
		extra:  cfg.ExtraArgs,
		where:  path,
	}, nil
}

// NewContainerDoclingConverter returns a converter running docling inside
// the given container runtime. It verifies that the image exists locally.
func NewContainerDoclingConverter(cfg types.DoclingConfig, rt container.Runtime) (*DoclingConverter, error) {
	image := cfg.Image
	if image == "" {
		image = defaultDoclingImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("docling image not available in %s: %w", rt.Name(), err)
	}
	return &DoclingConverter{
		runner: &containerDocling{rt: rt, image: image},
		extra:  cfg.ExtraArgs,
		where:  rt.Name() + ":" + image,
	}, nil
}

func (d *DoclingConverter) Name() string { return string(types.BackendDocling) }

func (d *DoclingConverter) Accepts(ext string) bool { return doclingExts[ext] }

// Convert runs docling on srcPath. A failure whose diagnostics name the
// missing page dimensions is marked with ErrMissingPageDimensions.
func (d *DoclingConverter) Convert(ctx context.Context, srcPath, workDir string) (*Output, error) {
	stderr := newStderrTail()
	if err := d.runner.run(ctx, srcPath, workDir, d.extra, stderr); err != nil {
		return nil, classifyFailure("docling", srcPath, err, stderr.String())
	}

	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	md := filepath.Join(workDir, stem+".md")
	if _, err := os.Stat(md); err != nil {
		found, ferr := findMarkdown(workDir)
		if ferr != nil {
			return nil, fmt.Errorf("docling (%s) produced no markdown for %s: %w", d.where, srcPath, ferr)
		}
		md = found
	}
	return &Output{
		MarkdownPath: md,
		ArtifactsDir: findArtifacts(workDir, stem+"_artifacts"),
	}, nil
}

// findArtifacts locates docling's artifacts directory. docling places it
// next to the Markdown, but given a relative --output it nests it under
// that path again, so the whole work directory is searched.
func findArtifacts(workDir, name string) string {
	want := filepath.Join(workDir, name)
	if hasDir(want) {
		return want
	}
	found := ""
	_ = filepath.WalkDir(workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if found == "" {
		return want
	}
	return found
}

// findMarkdown returns the single .md file directly inside dir.
func findMarkdown(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return "", err
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("expected one markdown file in %s, found %d", dir, len(matches))
	}
	return matches[0], nil
}

func doclingArgs(src, out string, extra []string) []string {
	args := []string{"--to", "md", "--image-export-mode", "referenced", "--output", out}
	args = append(args, extra...)
	return append(args, src)
}

type localDocling struct {
	bin string
}

func (l *localDocling) run(ctx context.Context, src, out string, extra []string, stderr io.Writer) error {
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	out, err = filepath.Abs(out)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, l.bin, doclingArgs(src, out, extra)...)
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr
	return cmd.Run()
}

type containerDocling struct {
	rt    container.Runtime
	image string
}

func (c *containerDocling) run(ctx context.Context, src, out string, extra []string, stderr io.Writer) error {
	srcDir, err := filepath.Abs(filepath.Dir(src))
	if err != nil {
		return err
	}
	outDir, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	inner := containerInDir + "/" + filepath.Base(src)
	return c.rt.Run(ctx, container.RunSpec{
		Image: c.image,
		Args:  append([]string{defaultDoclingBinary}, doclingArgs(inner, containerOutDir, extra)...),
		Mounts: []container.Mount{
			{Source: srcDir, Target: containerInDir, ReadOnly: true},
			{Source: outDir, Target: containerOutDir},
		},
		Workdir: containerOutDir,
		User:    hostUser(),
		Stdout:  io.Discard,
		Stderr:  stderr,
	})
}

// hostUser returns uid:gid of the current process, or "" where the
// notion does not apply.
func hostUser() string {
	if runtime.GOOS == "windows" {
		return ""
	}
	return fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
}
