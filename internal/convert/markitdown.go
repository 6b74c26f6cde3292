// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/docmark/internal/container"
	"github.com/pdiddy/docmark/pkg/types"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownConverter converts documents by piping them through the
// markitdown container image. markitdown emits text only, so documents
// converted this way have no images directory. It depends on a
// container.Runtime (docker or podman) injected at construction time.
type MarkitdownConverter struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdownConverter creates a converter that uses the given container
// runtime to run the markitdown image. It verifies that the markitdown image
// exists locally before returning.
func NewMarkitdownConverter(rt container.Runtime, image string) (*MarkitdownConverter, error) {
	if image == "" {
		image = imageMarkitdown
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt, image: image}, nil
}

func (m *MarkitdownConverter) Name() string { return string(types.BackendMarkitdown) }

func (m *MarkitdownConverter) Accepts(ext string) bool { return doclingExts[ext] }

// Convert reads the document at srcPath, pipes it through the markitdown
// container, and writes the resulting Markdown into workDir.
func (m *MarkitdownConverter) Convert(ctx context.Context, srcPath, workDir string) (*Output, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	stderr := newStderrTail()
	err = m.runtime.Run(ctx, container.RunSpec{
		Image:  m.image,
		Stdin:  f,
		Stdout: &out,
		Stderr: stderr,
	})
	if err != nil {
		return nil, classifyFailure("markitdown", srcPath, err, stderr.String())
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("markitdown produced empty output for %s", srcPath)
	}

	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	md := filepath.Join(workDir, stem+".md")
	if err := os.WriteFile(md, out.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("writing markdown: %w", err)
	}
	return &Output{MarkdownPath: md}, nil
}
