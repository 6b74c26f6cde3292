// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docmark/internal/pdfrepair"
)

var patchCmd = &cobra.Command{
	Use:   "patch <src.pdf> [dst.pdf]",
	Short: "Give every page without a usable MediaBox an A4 page box",
	Long: `Patch writes a copy of a PDF in which every page whose MediaBox is
missing or has zero width or height gets an A4 box (0 0 595 842). Pages with
a valid box are left unchanged and the source file is never modified.

The destination defaults to <src>_patched.pdf next to the source.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dst := ""
		if len(args) == 2 {
			dst = args[1]
		}
		return runPatch(cmd.Context(), args[0], dst, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(patchCmd)
}

func runPatch(ctx context.Context, src, dst string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if dst == "" {
		dst = strings.TrimSuffix(src, filepath.Ext(src)) + "_patched.pdf"
	}
	res, err := pdfrepair.NewPatcher(logger).PatchFile(ctx, src, dst)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Patched %d of %d page(s) with A4 MediaBox\n", res.Count(), res.Pages)
	if res.Count() > 0 {
		fmt.Fprintf(w, "Pages: %s\n", joinInts(res.Patched))
	}
	fmt.Fprintf(w, "Saved %s\n", dst)
	return nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
