// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docmark/internal/convert"
	"github.com/pdiddy/docmark/internal/pdfrepair"
	"github.com/pdiddy/docmark/internal/report"
	"github.com/pdiddy/docmark/internal/worklist"
	"github.com/pdiddy/docmark/pkg/types"
)

const (
	defaultInputDir  = "input"
	defaultOutputDir = "output"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the documents listed in the worklist to Markdown",
	Long: `Convert reads the [FILES] section of the worklist (default
<input-dir>/config.ini) and converts each listed DOCX or PDF into
<output-dir>/<name>.md with its images in <output-dir>/<name>_images/.

Every file is attempted; the command exits non-zero if any of them failed.
Backends: docling (local binary, or a container with --container),
markitdown (container, text only), and fitz (built-in MuPDF, PDF only).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return runConvert(ctx, conversionConfig(), logger, cmd.OutOrStdout())
	},
}

func init() {
	f := convertCmd.Flags()
	f.String("input-dir", defaultInputDir, "directory holding the worklist and the documents")
	f.String("output-dir", defaultOutputDir, "directory receiving Markdown, images and patched PDFs")
	f.String("config", "", "worklist INI file (default <input-dir>/config.ini)")
	f.String("backend", string(types.BackendDocling), "conversion backend: docling, markitdown, or fitz")
	f.Bool("container", false, "run docling in docker or podman instead of a local binary")
	f.String("image", "", "container image for the docling or markitdown backend")
	f.StringSlice("docling-arg", nil, "extra argument passed to docling (repeatable)")
	f.Float64("dpi", 0, "page image resolution for the fitz backend (default 144)")
	f.String("report", "", "write a YAML run report to this path")

	_ = viper.BindPFlag("input_dir", f.Lookup("input-dir"))
	_ = viper.BindPFlag("output_dir", f.Lookup("output-dir"))
	_ = viper.BindPFlag("config_file", f.Lookup("config"))
	_ = viper.BindPFlag("backend", f.Lookup("backend"))
	_ = viper.BindPFlag("docling.use_container", f.Lookup("container"))
	_ = viper.BindPFlag("docling.image", f.Lookup("image"))
	_ = viper.BindPFlag("markitdown.image", f.Lookup("image"))
	_ = viper.BindPFlag("docling.extra_args", f.Lookup("docling-arg"))
	_ = viper.BindPFlag("fitz.dpi", f.Lookup("dpi"))
	_ = viper.BindPFlag("report_path", f.Lookup("report"))

	rootCmd.AddCommand(convertCmd)
}

// conversionConfig assembles settings from flags, DOCMARK_* variables and
// the settings file, in that order of precedence.
func conversionConfig() types.ConversionConfig {
	cfg := types.ConversionConfig{
		InputDir:   viper.GetString("input_dir"),
		OutputDir:  viper.GetString("output_dir"),
		ConfigFile: viper.GetString("config_file"),
		Backend:    types.ConversionBackend(viper.GetString("backend")),
		ReportPath: viper.GetString("report_path"),
		Docling: types.DoclingConfig{
			Binary:       viper.GetString("docling.binary"),
			UseContainer: viper.GetBool("docling.use_container"),
			Image:        viper.GetString("docling.image"),
			ExtraArgs:    viper.GetStringSlice("docling.extra_args"),
		},
		Markitdown: types.MarkitdownConfig{Image: viper.GetString("markitdown.image")},
		Fitz:       types.FitzConfig{DPI: viper.GetFloat64("fitz.dpi")},
	}
	return withDefaults(cfg)
}

func withDefaults(cfg types.ConversionConfig) types.ConversionConfig {
	if cfg.InputDir == "" {
		cfg.InputDir = defaultInputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = filepath.Join(cfg.InputDir, worklist.DefaultFile)
	}
	if cfg.Backend == "" {
		cfg.Backend = types.BackendDocling
	}
	return cfg
}

func runConvert(ctx context.Context, cfg types.ConversionConfig, log zerolog.Logger, w io.Writer) error {
	items, err := worklist.Load(cfg.ConfigFile)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintf(w, "Warning: no files listed in the [%s] section of %s\n", worklist.Section, cfg.ConfigFile)
		return nil
	}
	log.Info().Int("items", len(items)).Str("worklist", cfg.ConfigFile).Msg("loaded worklist")

	conv, err := convert.NewConverter(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	fmt.Fprintf(w, "Converting %d file(s) from %s to %s with %s\n", len(items), cfg.InputDir, cfg.OutputDir, conv.Name())
	run := report.New(cfg, conv.Name(), time.Now())
	orch := convert.NewOrchestrator(conv, pdfrepair.NewPatcher(log), cfg, log, w)
	result := orch.ConvertBatch(ctx, items)

	if cfg.ReportPath != "" {
		run.Finish(result.Results, time.Now())
		if err := run.Write(cfg.ReportPath); err != nil {
			log.Error().Err(err).Str("path", cfg.ReportPath).Msg("writing run report")
		} else {
			fmt.Fprintf(w, "Report written to %s\n", cfg.ReportPath)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d file(s) failed conversion", result.Failed, result.Total())
	}
	return nil
}
