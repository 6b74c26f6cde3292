// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docmark CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docmark/internal/observability"
	"github.com/pdiddy/docmark/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the log settings before any subcommand runs.
var logger = zerolog.Nop()

// rootCmd is the base command for the docmark CLI.
var rootCmd = &cobra.Command{
	Use:   "docmark",
	Short: "Convert DOCX and PDF documents to Markdown with extracted images",
	Long: `docmark converts the documents listed in a worklist (an INI file with a
[FILES] section) into Markdown, one <name>.md and <name>_images/ per document.

PDFs whose pages lack a usable MediaBox are repaired with A4 page boxes and
converted once more from <name>_patched.pdf.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// viper reads the environment lazily, so values from .env are
		// visible to every Get below.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		logger = observability.NewLogger(types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		}, os.Stderr)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("file", used).Msg("using settings file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("settings", "", "settings file (default: ./docmark.yaml or ~/.config/docmark/docmark.yaml)")
	pf.String("log-level", "info", "diagnostic log level: debug, info, warn, error")
	pf.String("log-format", observability.FormatConsole, "diagnostic log format: console or json")

	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("settings")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docmark")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docmark"))
		}
	}

	viper.SetEnvPrefix("DOCMARK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Ignoring settings file:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
