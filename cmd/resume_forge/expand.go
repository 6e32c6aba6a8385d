package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-forge/internal/pipeline"
	"github.com/jonathan/resume-forge/internal/types"
)

var expandCmd = &cobra.Command{
	Use:   "expand [document]",
	Short: "Print the intermediate document the template receives",
	Long:  "Expands the career document for the selected language and writes the intermediate document as YAML or JSON, to stdout or to --output.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExpand,
}

var (
	expandFormat string
	expandOutput string
)

func init() {
	expandCmd.Flags().StringVarP(&expandFormat, "format", "f", "yaml", "Output format: yaml or json")
	expandCmd.Flags().StringVar(&expandOutput, "output", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	if expandFormat != "yaml" && expandFormat != "json" {
		return fmt.Errorf("unsupported format %q (want yaml or json)", expandFormat)
	}
	cfg, err := requireDocument(args, false)
	if err != nil {
		return err
	}

	doc, err := pipeline.Expand(pipeline.RenderOptions{
		DocumentPath: cfg.Document,
		Language:     cfg.Language,
		Exclude:      cfg.Exclude,
		Labels:       cfg.Labels,
		Environment:  cfg.Environment,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if expandOutput == "" {
		return writeDocument(cmd.OutOrStdout(), doc, expandFormat)
	}

	if err := os.MkdirAll(filepath.Dir(expandOutput), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(expandOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeDocument(f, doc, expandFormat); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Output: %s\n", expandOutput)
	return nil
}

func writeDocument(w io.Writer, doc *types.IntermediateDocument, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to marshal intermediate document: %w", err)
		}
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal intermediate document: %w", err)
	}
	return enc.Close()
}
