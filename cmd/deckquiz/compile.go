package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/deckquiz/internal/bank"
	"github.com/at-ishikawa/deckquiz/internal/config"
)

func newCompileCommand() *cobra.Command {
	var output string

	command := &cobra.Command{
		Use:   "compile <deck>",
		Short: "Compile a PPTX or YAML deck into a bank file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			deckPath := args[0]
			if err := config.ValidateInputFile(deckPath); err != nil {
				return err
			}
			b, err := compileDeck(cfg, deckPath)
			if err != nil {
				return err
			}

			if output == "" {
				output = defaultBankPath(deckPath)
			}
			if err := bank.Save(output, relativeImages(b, filepath.Dir(output))); err != nil {
				return fmt.Errorf("bank.Save(%s) > %w", output, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Compiled %d question(s) into %s\n", len(b), output)
			return nil
		},
	}

	command.Flags().StringVarP(&output, "output", "o", "", "bank file to write (.yml, .yaml or .json). Defaults to {deck name}_bank.yml next to the deck")

	return command
}
