package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/deckquiz/internal/bank"
	"github.com/at-ishikawa/deckquiz/internal/calc"
	"github.com/at-ishikawa/deckquiz/internal/config"
	"github.com/at-ishikawa/deckquiz/internal/review"
	"github.com/at-ishikawa/deckquiz/internal/session"
)

const quizHelp = `Commands:
  1, 2 3, 1,3      choose options by number (toggles on multiple-answer questions)
  x, clear         clear the choice
  n, next          save and go to the next question
  p, prev          save and go to the previous question
  g N, goto N      save and go to question N
  s, submit        save the answer
  c, check         check the answer (practice mode)
  w, why           show the explanation (practice mode)
  i, image         show the image of the question
  f, flag          flag or unflag the question
  l, flags         list the flagged questions
  t, time          show the remaining time
  b, break         take the single 15-minute break
  r, resume        end the break early
  calc EXPR        evaluate an arithmetic expression
  finish           finish and see the review
  q, quit          quit without a review
  h, help          show this help
`

// QuizCLI drives a quiz session from the terminal
type QuizCLI struct {
	*InteractiveQuizCLI

	engine  *session.Engine
	stem    string
	baseDir string

	exporter        *review.Exporter
	reviewDirectory string
	reviewFormat    string
	now             func() time.Time

	tickInterval time.Duration
	ticker       *time.Ticker
	ticks        <-chan time.Time
	started      bool
}

// NewQuizCLI returns a CLI for engine, whose questions were loaded from sourcePath
func NewQuizCLI(
	engine *session.Engine,
	sourcePath string,
	outputs config.OutputsConfig,
	templates config.TemplatesConfig,
) *QuizCLI {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	baseDir := ""
	if bank.IsBankFile(sourcePath) {
		baseDir = filepath.Dir(sourcePath)
	}

	return &QuizCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(os.Stdin, os.Stdout),
		engine:             engine,
		stem:               stem,
		baseDir:            baseDir,
		exporter:           review.NewExporter(stem, templates.ReviewMarkdown),
		reviewDirectory:    outputs.ReviewDirectory,
		reviewFormat:       outputs.ReviewFormat,
		now:                time.Now,
		tickInterval:       time.Second,
	}
}

// Close stops the countdown ticker
func (r *QuizCLI) Close() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
	r.ticks = nil
}

// Session handles one input line or one countdown tick
func (r *QuizCLI) Session(ctx context.Context) error {
	if !r.started {
		r.started = true
		if r.engine.Settings().HasTimer() && r.ticks == nil {
			r.ticker = time.NewTicker(r.tickInterval)
			r.ticks = r.ticker.C
		}
		r.renderQuestion()
	}

	select {
	case <-ctx.Done():
		r.Close()
		return ctx.Err()
	case <-r.ticks:
		r.tick()
		return nil
	case line, ok := <-r.inputLines():
		if !ok {
			r.println()
			r.Close()
			return errEnd
		}
		if err := r.handleCommand(ctx, line); err != nil {
			r.Close()
			return err
		}
		return nil
	}
}

func (r *QuizCLI) tick() {
	result := r.engine.Tick()
	switch {
	case result.TimeUp:
		r.println()
		r.println("Time is up! Submitting current answer.")
		r.showFeedback(result.Feedback)
		r.prompt()
	case result.BreakEnded:
		r.println()
		r.println("The break is over.")
		r.renderQuestion()
	}
}

func (r *QuizCLI) handleCommand(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		r.prompt()
		return nil
	}

	command := strings.ToLower(fields[0])
	switch command {
	case "n", "next":
		r.move(r.engine.Navigate(session.Next))
	case "p", "prev", "previous":
		r.move(r.engine.Navigate(session.Previous))
	case "g", "goto":
		r.goTo(fields[1:])
	case "x", "clear":
		r.move(r.engine.Select())
	case "s", "submit":
		feedback, err := r.engine.Submit()
		if err != nil {
			r.printError(err)
		} else {
			r.showFeedback(feedback)
		}
		r.prompt()
	case "c", "check":
		r.check()
		r.prompt()
	case "w", "why":
		r.explain()
		r.prompt()
	case "i", "image":
		r.showImage()
		r.prompt()
	case "f", "flag":
		r.toggleFlag()
		r.prompt()
	case "l", "flags":
		r.listFlags()
		r.prompt()
	case "t", "time":
		r.showTime()
		r.prompt()
	case "b", "break":
		r.takeBreak(ctx)
		r.prompt()
	case "r", "resume":
		if r.engine.EndBreak() {
			r.println("Welcome back.")
			r.renderQuestion()
		} else {
			r.println("You are not on a break.")
			r.prompt()
		}
	case "calc":
		r.calculate(strings.TrimSpace(line[len(fields[0]):]))
		r.prompt()
	case "finish":
		return r.finish(ctx)
	case "q", "quit", "exit":
		r.println("Bye.")
		return errEnd
	case "h", "help", "?":
		r.printf("%s", quizHelp)
		r.prompt()
	default:
		indices, ok := parseOptionNumbers(fields)
		if !ok {
			r.printf("Unknown command %q. Type h for help.\n", fields[0])
			r.prompt()
			return nil
		}
		r.choose(indices)
	}
	return nil
}

// move renders the current question after a navigation or selection change
func (r *QuizCLI) move(err error) {
	if err != nil {
		r.printError(err)
		r.prompt()
		return
	}
	r.renderQuestion()
}

func (r *QuizCLI) goTo(args []string) {
	if len(args) != 1 {
		r.println("Usage: g N")
		r.prompt()
		return
	}
	number, err := strconv.Atoi(args[0])
	if err != nil {
		r.printf("%q is not a question number.\n", args[0])
		r.prompt()
		return
	}
	r.move(r.engine.GoTo(number - 1))
}

// choose checks the options. On a multiple-answer question the numbers toggle the options.
func (r *QuizCLI) choose(indices []int) {
	if r.engine.Current().Multi {
		selection := r.engine.Selection()
		for _, index := range indices {
			if position := slices.Index(selection, index); position >= 0 {
				selection = slices.Delete(selection, position, position+1)
			} else {
				selection = append(selection, index)
			}
		}
		indices = selection
	}
	r.move(r.engine.Select(indices...))
}

func (r *QuizCLI) check() {
	feedback, err := r.engine.Check()
	if err != nil {
		r.printError(err)
		return
	}
	if !feedback.Revealed {
		r.println("Checking answers is not available in test mode.")
		return
	}
	if feedback.Correct {
		r.printCorrect("Correct!")
	} else {
		r.printWrong("Not quite.")
	}
}

func (r *QuizCLI) showFeedback(feedback session.Feedback) {
	switch {
	case !feedback.Revealed:
		r.println("Answer saved.")
	case feedback.Correct:
		r.printCorrect("Answer saved. (Correct)")
	default:
		r.printWrong("Answer saved. (Incorrect)")
	}
}

func (r *QuizCLI) explain() {
	explanation, ok := r.engine.Explain()
	if !ok {
		r.println("Explanations are not available in test mode.")
		return
	}
	if explanation == "" {
		explanation = "No explanation provided."
	}
	_, _ = r.italic.Fprintln(r.stdoutWriter, explanation)
}

func (r *QuizCLI) imagePath(item bank.Item) string {
	image := item.ImagePath()
	if image == "" || filepath.IsAbs(image) || r.baseDir == "" {
		return image
	}
	return filepath.Join(r.baseDir, image)
}

func (r *QuizCLI) showImage() {
	image := r.imagePath(r.engine.Current())
	if image == "" {
		r.println("No image for this question.")
		return
	}
	if _, err := os.Stat(image); err != nil {
		r.printf("Image: %s (not found)\n", image)
		return
	}
	r.printf("Image: %s\n", image)
}

func (r *QuizCLI) toggleFlag() {
	flagged, err := r.engine.ToggleFlag()
	if err != nil {
		r.printError(err)
		return
	}
	if flagged {
		r.printf("Question %d is flagged.\n", r.engine.CurrentIndex()+1)
	} else {
		r.printf("Question %d is unflagged.\n", r.engine.CurrentIndex()+1)
	}
}

func (r *QuizCLI) listFlags() {
	flags := r.engine.Flags()
	if len(flags) == 0 {
		r.println("No flagged questions.")
		return
	}
	r.println("Flagged questions:")
	items := r.engine.Items()
	for _, index := range flags {
		r.printf("  %d. %s\n", index+1, firstLine(items[index].Question))
	}
	r.println("Type g N to go to one of them.")
}

func (r *QuizCLI) showTime() {
	switch {
	case !r.engine.Settings().HasTimer():
		r.println("No timer for this quiz.")
	case r.engine.State() == session.OnBreak:
		r.printf("On break: %s left. The timer is paused at %s.\n",
			session.FormatTimer(r.engine.BreakRemaining()),
			session.FormatTimer(r.engine.Remaining()),
		)
	default:
		r.printf("Time left: %s\n", session.FormatTimer(r.engine.Remaining()))
	}
}

func (r *QuizCLI) takeBreak(ctx context.Context) {
	if !r.engine.CanBreak() {
		switch {
		case r.engine.State() == session.OnBreak:
			r.println("You are already on a break.")
		case r.engine.BreakTaken():
			r.println("The break was already taken.")
		default:
			r.println("Breaks are not available for this quiz.")
		}
		return
	}
	if !r.confirm(ctx, fmt.Sprintf("Start a single %d-minute break? Timer will be paused.", session.BreakSeconds/60)) {
		return
	}
	if r.engine.StartBreak() {
		r.printf("Break in progress. Return in %d minute(s), or type r to resume.\n", session.BreakSeconds/60)
	}
}

func (r *QuizCLI) calculate(expression string) {
	if expression == "" {
		r.println("Usage: calc EXPR")
		return
	}
	value, err := calc.Evaluate(expression)
	if err != nil {
		if errors.Is(err, calc.ErrDivisionByZero) {
			r.println("Division by zero.")
			return
		}
		r.println("Invalid expression.")
		return
	}
	r.printf("= %s\n", calc.Format(value))
}

// confirm asks a yes/no question. The countdown keeps running while it waits for the answer.
func (r *QuizCLI) confirm(ctx context.Context, question string) bool {
	r.printf("%s [y/N]: ", question)
	for {
		select {
		case <-ctx.Done():
			r.println()
			return false
		case <-r.ticks:
			result := r.engine.Tick()
			switch {
			case result.TimeUp:
				r.println()
				r.println("Time is up! Submitting current answer.")
				r.showFeedback(result.Feedback)
				r.printf("%s [y/N]: ", question)
			case result.BreakEnded:
				r.println()
				r.println("The break is over.")
				r.printf("%s [y/N]: ", question)
			}
		case line, ok := <-r.inputLines():
			if !ok {
				r.println()
				return false
			}
			return isYes(line)
		}
	}
}

// confirmer asks on the terminal whether to finish with unanswered questions
type confirmer struct {
	cli *QuizCLI
	ctx context.Context
}

func (c confirmer) ConfirmUnanswered(count int) bool {
	return c.cli.confirm(c.ctx, fmt.Sprintf("%d question(s) are unanswered. Finish anyway and see the review?", count))
}

func (r *QuizCLI) finish(ctx context.Context) error {
	finished, err := r.engine.Finish(confirmer{cli: r, ctx: ctx})
	if err != nil {
		r.printError(err)
		r.prompt()
		return nil
	}
	if !finished {
		r.renderQuestion()
		return nil
	}

	report, err := review.Build(r.engine)
	if err != nil {
		return fmt.Errorf("review.Build() > %w", err)
	}
	r.println()
	_, _ = r.bold.Fprintln(r.stdoutWriter, "Review")
	if err := review.WriteText(r.stdoutWriter, report); err != nil {
		return fmt.Errorf("review.WriteText() > %w", err)
	}
	r.export(report)

	if !r.confirm(ctx, "Restart with a new set of questions?") {
		return errEnd
	}
	engine, err := r.engine.Restart(r.engine.Settings())
	if err != nil {
		return fmt.Errorf("engine.Restart() > %w", err)
	}
	r.engine = engine
	r.renderQuestion()
	return nil
}

// export saves the report into the review directory. A failed export does not end the quiz.
func (r *QuizCLI) export(report *review.Report) {
	if r.reviewDirectory == "" {
		return
	}
	path := filepath.Join(r.reviewDirectory, exportFileName(r.stem, r.now(), r.reviewFormat))
	written, err := r.exporter.Export(path, report)
	if err != nil {
		r.printError(fmt.Errorf("failed to export the review: %w", err))
		return
	}
	r.printf("Saved to: %s\n", written)
}

func exportFileName(stem string, now time.Time, format string) string {
	name := review.DefaultFileName(stem, now)
	if format == "" || format == "txt" {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + "." + format
}

func (r *QuizCLI) prompt() {
	r.printf("> ")
}

func (r *QuizCLI) renderQuestion() {
	item := r.engine.Current()
	index := r.engine.CurrentIndex()
	settings := r.engine.Settings()

	mode := "PRACTICE MODE"
	if settings.TestMode {
		mode = "TEST MODE"
	}
	header := fmt.Sprintf("[%s] Question %d/%d", mode, index+1, r.engine.Len())
	switch {
	case r.engine.State() == session.OnBreak:
		header += fmt.Sprintf("  break %s", session.FormatTimer(r.engine.BreakRemaining()))
	case settings.HasTimer():
		header += fmt.Sprintf("  time %s", session.FormatTimer(r.engine.Remaining()))
	}
	r.println()
	r.println(header)

	question := fmt.Sprintf("%d. %s", index+1, item.Question)
	if r.engine.IsFlagged(index) {
		question += " [FLAGGED]"
	}
	if item.ImagePath() != "" {
		question += " 📷"
	}
	_, _ = r.bold.Fprintln(r.stdoutWriter, question)
	if item.Multi {
		_, _ = r.italic.Fprintln(r.stdoutWriter, "(choose all that apply)")
	}

	selection := r.engine.Selection()
	for i, option := range item.Options {
		checked := slices.Contains(selection, i)
		box := "( )"
		if item.Multi {
			box = "[ ]"
			if checked {
				box = "[x]"
			}
		} else if checked {
			box = "(*)"
		}
		r.printf("  %s %d. %s\n", box, i+1, option)
	}
	r.prompt()
}

// parseOptionNumbers reads 1-based option numbers separated by spaces or commas into 0-based indices
func parseOptionNumbers(fields []string) ([]int, bool) {
	var indices []int
	for _, field := range fields {
		for _, token := range strings.Split(field, ",") {
			if token == "" {
				continue
			}
			number, err := strconv.Atoi(token)
			if err != nil {
				return nil, false
			}
			indices = append(indices, number-1)
		}
	}
	return indices, len(indices) > 0
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}
