package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/deckquiz/internal/calc"
)

func newCalcCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "calc <expression>",
		Short: "Evaluate an arithmetic expression with + - * / and parentheses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expression := strings.Join(args, " ")
			value, err := calc.Evaluate(expression)
			if err != nil {
				return fmt.Errorf("calc.Evaluate(%q) > %w", expression, err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), calc.Format(value))
			return nil
		},
	}
	// negative numbers are not flags
	command.DisableFlagParsing = true

	return command
}
