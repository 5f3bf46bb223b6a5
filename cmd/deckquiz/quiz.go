package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/deckquiz/internal/cli"
	"github.com/at-ishikawa/deckquiz/internal/config"
	"github.com/at-ishikawa/deckquiz/internal/session"
)

// TimerFlag is a countdown length written as "mm:ss" or "mm"
type TimerFlag int

// Set implements pflag.Value.
func (t *TimerFlag) Set(v string) error {
	seconds, err := session.ParseTimer(v)
	if err != nil {
		return err
	}
	*t = TimerFlag(seconds)
	return nil
}

// String implements pflag.Value.
func (t *TimerFlag) String() string {
	if t == nil {
		return ""
	}
	return session.FormatTimer(int(*t))
}

// Type implements pflag.Value.
func (t *TimerFlag) Type() string {
	return "mm:ss"
}

var (
	_ pflag.Value = (*TimerFlag)(nil)
)

type quizFlags struct {
	count    int
	timer    TimerFlag
	repeats  bool
	testMode bool
	breaks   bool
	asDeck   bool
}

func (f *quizFlags) register(flags *pflag.FlagSet) {
	flags.IntVarP(&f.count, "count", "n", 0, "number of questions. 0 asks the whole bank")
	flags.Var(&f.timer, "timer", "countdown for the whole quiz as mm:ss or mm. 0 disables the timer")
	flags.BoolVar(&f.repeats, "repeats", true, "allow a question to be asked more than once when the count exceeds the bank")
	flags.BoolVar(&f.testMode, "test-mode", false, "hide correctness and explanations until the review")
	flags.BoolVar(&f.breaks, "breaks", true, "allow a single 15-minute break when the timer is on")
	flags.BoolVar(&f.asDeck, "deck", false, "read a YAML file as a deck instead of a bank")
}

// settings overrides the configured quiz settings with the flags given on the command line
func (f *quizFlags) settings(flags *pflag.FlagSet, configured session.Settings) session.Settings {
	settings := configured
	if flags.Changed("count") {
		settings.QuestionCount = f.count
	}
	if flags.Changed("timer") {
		settings.TimerSeconds = int(f.timer)
	}
	if flags.Changed("repeats") {
		settings.AllowRepeats = f.repeats
	}
	if flags.Changed("test-mode") {
		settings.TestMode = f.testMode
	}
	if flags.Changed("breaks") {
		settings.AllowBreaks = f.breaks
	}
	return settings
}

func newQuizCommand() *cobra.Command {
	var flags quizFlags

	command := &cobra.Command{
		Use:   "quiz <deck or bank>",
		Short: "Take a quiz from a PPTX deck or a bank file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			settings := flags.settings(cmd.Flags(), cfg.Quiz)
			if err := config.ValidateSettings(settings); err != nil {
				return err
			}

			path := args[0]
			b, err := loadBank(cfg, path, flags.asDeck)
			if err != nil {
				return err
			}
			engine, err := session.New(b, settings)
			if err != nil {
				return fmt.Errorf("session.New() > %w", err)
			}

			quizCLI := cli.NewQuizCLI(engine, path, cfg.Outputs, cfg.Templates)
			defer quizCLI.Close()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting a quiz with %d question(s). Type h for help.\n", engine.Len())
			return quizCLI.Run(cmd.Context(), quizCLI)
		},
	}

	flags.register(command.Flags())

	return command
}
