// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/pdiddy/docmark/internal/container"
	"github.com/pdiddy/docmark/pkg/types"
)

// NewConverter builds the backend selected by cfg.Backend. Container-based
// backends detect docker or podman first.
func NewConverter(cfg types.ConversionConfig) (Converter, error) {
	switch cfg.Backend {
	case "", types.BackendDocling:
		if !cfg.Docling.UseContainer {
			return NewDoclingConverter(cfg.Docling)
		}
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewContainerDoclingConverter(cfg.Docling, rt)
	case types.BackendMarkitdown:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewMarkitdownConverter(rt, cfg.Markitdown.Image)
	case types.BackendFitz:
		return NewFitzConverter(cfg.Fitz), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: use docling, markitdown, or fitz", cfg.Backend)
	}
}
