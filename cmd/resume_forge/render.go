package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/logfields"
	"github.com/jonathan/resume-forge/internal/metrics"
	"github.com/jonathan/resume-forge/internal/observability"
	"github.com/jonathan/resume-forge/internal/pipeline"
	"github.com/jonathan/resume-forge/internal/sandbox"
)

var renderCmd = &cobra.Command{
	Use:   "render [document]",
	Short: "Compile the career document into a PDF",
	Long: `Expands the career document for the selected language, renders the LaTeX template,
compiles it with pdflatex inside a fresh container workspace and writes
<stem>.tex, <stem>.log and (on success) <stem>.pdf to the output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

// newExecutor creates the sandbox executor; replaced in tests
var newExecutor = func(cfg config.Config, logger *slog.Logger) sandbox.Executor {
	executor := sandbox.NewDockerExecutor(logger)
	executor.Engine = cfg.Engine
	executor.WorkspaceRoot = cfg.WorkspaceRoot
	return executor
}

func init() {
	addBuildFlags(renderCmd)
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := requireDocument(args, true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, flush := newRecorder(cfg)
	pdf, err := renderOnce(ctx, cfg, recorder, cmd.OutOrStdout())
	if flushErr := flush(); flushErr != nil {
		logger.Warn("failed to write metrics", logfields.Error(flushErr))
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), pdf)
	return nil
}

// renderOptions maps merged settings onto a pipeline render
func renderOptions(cfg config.Config, executor sandbox.Executor, recorder metrics.Recorder, out io.Writer) pipeline.RenderOptions {
	opts := pipeline.RenderOptions{
		DocumentPath: cfg.Document,
		TemplatePath: cfg.Template,
		RecipePath:   cfg.Recipe,
		OutDir:       cfg.OutDir,
		Basename:     cfg.Basename,
		ConfigHash:   cfg.Hash(),
		Language:     cfg.Language,
		Exclude:      cfg.Exclude,
		Labels:       cfg.Labels,
		Environment:  cfg.Environment,
		Executor:     executor,
		Logger:       logger,
		Recorder:     recorder,
		OnProgress: func(ev pipeline.ProgressEvent) {
			logger.Debug(ev.Message, logfields.Stage(ev.Stage))
		},
	}
	if cfg.Verbose {
		opts.Printer = observability.NewPrinter(out)
	}
	return opts
}

// newRecorder returns a Prometheus recorder and a flush that writes the textfile
// when a metrics file is configured, and a no-op recorder otherwise
func newRecorder(cfg config.Config) (metrics.Recorder, func() error) {
	if cfg.MetricsFile == "" {
		return metrics.NoopRecorder{}, func() error { return nil }
	}
	recorder := metrics.NewPrometheusRecorder(nil)
	return recorder, func() error { return recorder.WriteTextfile(cfg.MetricsFile) }
}

// renderOnce is the build step shared with watch mode
func renderOnce(ctx context.Context, cfg config.Config, recorder metrics.Recorder, out io.Writer) (string, error) {
	return pipeline.Render(ctx, renderOptions(cfg, newExecutor(cfg, logger), recorder, out))
}
