package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/deckquiz/internal/bank"
	"github.com/at-ishikawa/deckquiz/internal/config"
)

func newValidateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "validate <bank>...",
		Short: "Validate bank files for questions that cannot be asked or graded",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := &bank.ValidationResult{}
			for _, path := range args {
				if err := config.ValidateInputFile(path); err != nil {
					return err
				}
				b, err := bank.Load(path)
				if err != nil {
					return fmt.Errorf("bank.Load(%s) > %w", path, err)
				}

				fileResult := bank.Validate(path, b, filepath.Dir(path))
				result.Errors = append(result.Errors, fileResult.Errors...)
				result.Warnings = append(result.Warnings, fileResult.Warnings...)
			}

			displayValidationResults(cmd.OutOrStdout(), result)

			if result.HasErrors() {
				return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
			}
			return nil
		},
	}

	return command
}

func displayValidationResults(w io.Writer, result *bank.ValidationResult) {
	_, _ = fmt.Fprintln(w, "\n=== Validation Results ===")

	if len(result.Errors) > 0 {
		_, _ = fmt.Fprintf(w, "✗ Errors (%d):\n", len(result.Errors))
		for _, err := range result.Errors {
			_, _ = fmt.Fprintf(w, "  - %s\n", err.Error())
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(result.Warnings) > 0 {
		_, _ = fmt.Fprintf(w, "⚠ Warnings (%d):\n", len(result.Warnings))
		for _, warning := range result.Warnings {
			_, _ = fmt.Fprintf(w, "  - %s\n", warning.Error())
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(result.Errors) == 0 && len(result.Warnings) == 0 {
		_, _ = fmt.Fprintln(w, "✓ All validations passed!")
		return
	}
	_, _ = fmt.Fprintf(w, "Total errors: %d, Total warnings: %d\n", len(result.Errors), len(result.Warnings))
}
