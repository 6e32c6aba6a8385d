package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/logfields"
	"github.com/jonathan/resume-forge/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [document]",
	Short: "Re-render whenever the document, config, template or recipe changes",
	Long: `Renders once, then watches the career document, the config file, the template
directory and the build recipe, re-rendering after each burst of changes.
Renders never overlap. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var watchDebounce time.Duration

func init() {
	addBuildFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before re-rendering")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := requireDocument(args, true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, flush := newRecorder(cfg)
	out := cmd.OutOrStdout()

	build := func(ctx context.Context) error {
		pdf, err := renderOnce(ctx, cfg, recorder, out)
		if flushErr := flush(); flushErr != nil {
			logger.Warn("failed to write metrics", logfields.Error(flushErr))
		}
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, pdf)
		return nil
	}

	paths := []string{cfg.Document, filepath.Dir(cfg.Template), cfg.Recipe}
	if configPath != "" {
		paths = append(paths, configPath)
	}

	w := watch.New(build, logger, paths...)
	w.Ignore = []string{cfg.OutDir}
	w.Debounce = watchDebounce
	logger.Info("watching for changes", logfields.Path(cfg.Document))
	return w.Run(ctx)
}
