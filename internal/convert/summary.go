// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/pdiddy/docmark/pkg/types"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
)

// PrintSummary writes the end-of-run summary to w.
func PrintSummary(w io.Writer, r BatchResult) {
	fmt.Fprintf(w, "\n%s\nConversion Summary\n%s\n", rule, rule)
	fmt.Fprintf(w, "Total files processed: %d\n", r.Total())
	okColor.Fprintf(w, "Successful: %d\n", r.Converted)
	for _, res := range r.Results {
		if res.Status == types.ItemConverted {
			fmt.Fprintf(w, "  %s %s\n", okColor.Sprint("✓"), res.Message)
		}
	}
	failColor.Fprintf(w, "Failed: %d\n", r.Failed)
	for _, res := range r.Results {
		if res.Status == types.ItemFailed {
			fmt.Fprintf(w, "  %s %s [%s]\n", failColor.Sprint("✗"), res.Item.Path, res.ErrorKind)
		}
	}
	fmt.Fprintln(w, rule)
}
