// Package main provides the resume_forge CLI: expand a multi-language career
// document and compile it into a PDF inside a container sandbox.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "resume_forge",
	Short: "Career document renderer",
	Long: `resume_forge expands a multi-language career history into a localized document
and compiles it with pdflatex inside an ephemeral container workspace.

Configuration can be loaded from a YAML or JSON file using --config. Environment
variables (RESUME_FORGE_*) override the file, and command-line flags override both.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupCommand,
	PersistentPostRunE: teardownCommand,
}

var (
	// settings is the merged configuration for the running command
	settings config.Config
	logger   = slog.Default()
	closeLog = func() error { return nil }
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (YAML or JSON)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	flags.StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVarP(&documentPath, "document", "d", "", "Path to the career document (YAML or JSON)")
	flags.StringVarP(&language, "lang", "l", "", "Output language (e.g. en, ru, pt_BR)")
	flags.StringSliceVar(&exclude, "exclude", nil, "Project ids to leave out (repeatable or comma-separated)")
}

func setupCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	level := cfg.Level()
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger, closeLog = observability.SetupLogger(cfg.LogFile, level)
	settings = cfg
	return nil
}

func teardownCommand(_ *cobra.Command, _ []string) error {
	err := closeLog()
	closeLog = func() error { return nil }
	return err
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = closeLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
