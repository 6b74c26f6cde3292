// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/docmark/pkg/types"
)

// pageDimensionsMarker is the phrase docling reports when a PDF page has
// no usable MediaBox.
const pageDimensionsMarker = "could not find the page-dimensions"

// ErrMissingPageDimensions matches, via errors.Is, any conversion error
// classified as caused by pages without a usable MediaBox.
var ErrMissingPageDimensions error = &types.Error{Kind: types.KindMissingPageDimensions}

// IsMissingPageDimensions reports whether err was caused by missing page
// dimensions. Backends that recognise the condition mark their errors with
// ErrMissingPageDimensions; the message text is only consulted for errors
// that were not classified.
func IsMissingPageDimensions(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingPageDimensions) {
		return true
	}
	return strings.Contains(err.Error(), pageDimensionsMarker)
}

// classifyFailure wraps a failed external tool run with the last line of
// its stderr and marks page-dimension failures.
func classifyFailure(tool, src string, err error, stderr string) error {
	wrapped := err
	if detail := lastLine(stderr); detail != "" {
		wrapped = fmt.Errorf("%w: %s", err, detail)
	}
	if strings.Contains(stderr, pageDimensionsMarker) {
		return types.NewError(types.KindMissingPageDimensions, src, fmt.Errorf("%s: %w", tool, wrapped))
	}
	return fmt.Errorf("%s: %w", tool, wrapped)
}
