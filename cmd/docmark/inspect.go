// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docmark/internal/pdfrepair"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "List each page's effective MediaBox and flag defective pages",
	Long: `Inspect prints the MediaBox every page of a PDF resolves to, including
boxes inherited from the page tree, and marks pages whose box is missing or
has zero width or height. Those are the pages patch would rewrite.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.Context(), args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(ctx context.Context, path string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := pdfrepair.NewPatcher(logger).Inspect(ctx, path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tMEDIABOX\tSTATUS")
	for _, p := range doc.Pages {
		box, status := "missing", "ok"
		if p.MediaBox != nil {
			box = p.MediaBox.String()
		}
		if p.Defective() {
			status = "defective"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.Number, box, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	bad := doc.Defective()
	fmt.Fprintf(w, "%d page(s), %d defective\n", len(doc.Pages), len(bad))
	return nil
}
