package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/config"
)

var (
	configPath    string
	verbose       bool
	logFile       string
	logLevel      string
	documentPath  string
	language      string
	exclude       []string
	basename      string
	templatePath  string
	recipePath    string
	outDir        string
	engine        string
	workspaceRoot string
	metricsFile   string
)

// addBuildFlags registers the flags shared by commands that compile
func addBuildFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&basename, "basename", "b", "", "Output file base name (defaults to the person's name)")
	flags.StringVarP(&templatePath, "template", "t", "", "Path to the LaTeX template; its directory holds support files")
	flags.StringVar(&recipePath, "recipe", "", "Path to the Dockerfile of the build image")
	flags.StringVarP(&outDir, "out", "o", "", "Output directory")
	flags.StringVar(&engine, "engine", "", "Container engine CLI")
	flags.StringVar(&workspaceRoot, "workspace-root", "", "Directory for ephemeral workspaces (defaults to the system temp dir)")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after each render")
}

// loadSettings merges config file, environment and flags, in increasing priority
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	override := func(name string, dst *string, value string) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst = value
		}
	}
	override("document", &cfg.Document, documentPath)
	override("lang", &cfg.Language, language)
	override("log-file", &cfg.LogFile, logFile)
	override("log-level", &cfg.LogLevel, logLevel)
	override("basename", &cfg.Basename, basename)
	override("template", &cfg.Template, templatePath)
	override("recipe", &cfg.Recipe, recipePath)
	override("out", &cfg.OutDir, outDir)
	override("engine", &cfg.Engine, engine)
	override("workspace-root", &cfg.WorkspaceRoot, workspaceRoot)
	override("metrics-file", &cfg.MetricsFile, metricsFile)
	if flags.Changed("exclude") {
		cfg.Exclude = exclude
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	return cfg.MergeWithDefaults(config.Defaults()), nil
}

// requireDocument takes the document from the positional argument when given
// and validates the merged settings. build also requires the template and recipe.
func requireDocument(args []string, build bool) (config.Config, error) {
	cfg := settings
	if len(args) > 0 {
		cfg.Document = args[0]
	}
	if cfg.Document == "" {
		return config.Config{}, fmt.Errorf("a career document is required (argument, --document or config)")
	}
	validate := cfg.Validate
	if build {
		validate = cfg.ValidateBuild
	}
	if err := validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
