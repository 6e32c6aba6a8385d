package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/experience"
	"github.com/jonathan/resume-forge/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate [document]",
	Short: "Check a career document against the bundled schema",
	Long:  "Parses the career document (YAML or JSON, optionally under a top-level data key) and validates it against the career document JSON Schema.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := requireDocument(args, false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := experience.LoadDocument(cfg.Document); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(out, "Validation failed: %s\n", cfg.Document)
			for _, fe := range validationErr.Errors {
				_, _ = fmt.Fprintf(out, "  • %s: %s\n", fe.Field, fe.Message)
			}
			return fmt.Errorf("validation failed: %d error(s)", len(validationErr.Errors))
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Validation passed: %s\n", cfg.Document)
	return nil
}
