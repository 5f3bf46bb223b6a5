package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/deckquiz/internal/bank"
	mock_cli "github.com/at-ishikawa/deckquiz/internal/mocks/cli"
	"github.com/at-ishikawa/deckquiz/internal/review"
	"github.com/at-ishikawa/deckquiz/internal/session"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func testBank() bank.Bank {
	return bank.Bank{
		{Question: "What color is the sky?", Options: []string{"Red", "Blue", "Green"}, Answer: []string{"Blue"}, Explanation: "Rayleigh scattering"},
		{Question: "Pick the primes", Options: []string{"Two", "Three", "Four"}, Answer: []string{"Three", "Two"}, Multi: true},
	}
}

func newTestEngine(t *testing.T, b bank.Bank, settings session.Settings) *session.Engine {
	t.Helper()
	engine, err := session.New(b, settings, session.WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	return engine
}

func newTestQuizCLI(t *testing.T, engine *session.Engine, input []string) (*QuizCLI, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	stdin := ""
	if len(input) > 0 {
		stdin = strings.Join(input, "\n") + "\n"
	}
	return &QuizCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(strings.NewReader(stdin), output),
		engine:             engine,
		stem:               "quiz",
		exporter:           review.NewExporter("quiz", ""),
		reviewDirectory:    t.TempDir(),
		reviewFormat:       "txt",
		now:                func() time.Time { return testNow },
		tickInterval:       time.Hour,
	}, output
}

// runSession calls Session until it returns an error
func runSession(t *testing.T, cli *QuizCLI) error {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if err := cli.Session(context.Background()); err != nil {
			return err
		}
	}
	t.Fatal("the session did not end")
	return nil
}

// optionNumber returns the 1-based number of option as shown to the user
func optionNumber(t *testing.T, item bank.Item, option string) string {
	t.Helper()
	index := slices.Index(item.Options, option)
	require.GreaterOrEqual(t, index, 0, option)
	return strconv.Itoa(index + 1)
}

func questionNumber(t *testing.T, items []bank.Item, question string) int {
	t.Helper()
	index := slices.IndexFunc(items, func(item bank.Item) bool {
		return item.Question == question
	})
	require.GreaterOrEqual(t, index, 0, question)
	return index + 1
}

func TestQuizCLI_Session_AnswerAllAndFinish(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{})

	var input []string
	for _, item := range engine.Items() {
		for _, answer := range item.Answer {
			input = append(input, optionNumber(t, item, answer))
		}
		input = append(input, "s", "n")
	}
	input = append(input, "finish", "n")

	cli, output := newTestQuizCLI(t, engine, input)
	err := runSession(t, cli)
	assert.ErrorIs(t, err, errEnd)

	assert.Equal(t, session.Finished, cli.engine.State())
	assert.Equal(t, 2, strings.Count(output.String(), "Answer saved. (Correct)"))
	assert.Contains(t, output.String(), "Score: 2/2 (100%)")
	assert.NotContains(t, output.String(), "unanswered")

	exported := filepath.Join(cli.reviewDirectory, "quiz_20261015_100000.txt")
	assert.Contains(t, output.String(), "Saved to: "+exported)
	got, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "Score: 2/2 (100%)\n\n"))
}

func TestQuizCLI_Session_FinishWithUnanswered(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{})
	cli, output := newTestQuizCLI(t, engine, []string{"finish", "n", "finish", "y", "n"})

	err := runSession(t, cli)
	assert.ErrorIs(t, err, errEnd)

	assert.Equal(t, 2, strings.Count(output.String(), "2 question(s) are unanswered. Finish anyway and see the review? [y/N]"))
	assert.Equal(t, session.Finished, cli.engine.State())
	assert.Contains(t, output.String(), "Score: 0/2 (0%)")
	assert.Contains(t, output.String(), "your answer: (no answer)")
}

func TestQuizCLI_Session_TestMode(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{TestMode: true})
	cli, output := newTestQuizCLI(t, engine, []string{"c", "w", "s"})

	err := runSession(t, cli)
	assert.ErrorIs(t, err, errEnd)

	assert.Contains(t, output.String(), "[TEST MODE] Question 1/2")
	assert.Contains(t, output.String(), "Checking answers is not available in test mode.")
	assert.Contains(t, output.String(), "Explanations are not available in test mode.")
	assert.Contains(t, output.String(), "Answer saved.\n")
	assert.NotContains(t, output.String(), "(Correct)")
	assert.NotContains(t, output.String(), "(Incorrect)")
}

func TestQuizCLI_Session_Flags(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{})
	cli, output := newTestQuizCLI(t, engine, []string{"f", "n", "f", "l", "g 1", "f", "l"})

	err := runSession(t, cli)
	assert.ErrorIs(t, err, errEnd)

	assert.Equal(t, []int{1}, cli.engine.Flags())
	assert.Contains(t, output.String(), "Question 1 is flagged.")
	assert.Contains(t, output.String(), "Question 2 is flagged.")
	assert.Contains(t, output.String(), "Question 1 is unflagged.")
	assert.Contains(t, output.String(), "Flagged questions:\n  1. ")
	assert.Contains(t, output.String(), "[FLAGGED]")
}

func TestQuizCLI_Session_MultipleAnswerToggle(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{})
	items := engine.Items()
	number := questionNumber(t, items, "Pick the primes")
	item := items[number-1]

	two := optionNumber(t, item, "Two")
	three := optionNumber(t, item, "Three")
	cli, output := newTestQuizCLI(t, engine, []string{
		"g " + strconv.Itoa(number),
		two,
		three,
		two,
		"s",
		"x",
	})

	err := runSession(t, cli)
	assert.ErrorIs(t, err, errEnd)

	assert.Equal(t, []string{"Three"}, cli.engine.Response(number-1).Choices)
	assert.Empty(t, cli.engine.Selection())
	assert.Contains(t, output.String(), "(choose all that apply)")
	assert.Contains(t, output.String(), "[x] "+three+". Three")
}

func TestQuizCLI_Session_Commands(t *testing.T) {
	singleQuestion := bank.Bank{
		{Question: "What color is the sky?", Options: []string{"Red", "Blue", "Green"}, Answer: []string{"Blue"}},
	}

	tests := []struct {
		name       string
		input      string
		wantOutput string
	}{
		{name: "option out of range", input: "9", wantOutput: "option is out of range: 9"},
		{name: "zero is out of range", input: "0", wantOutput: "option is out of range: 0"},
		{name: "two options on a single answer question", input: "1 2", wantOutput: "only one option can be chosen for this question"},
		{name: "go to a missing question", input: "g 5", wantOutput: "question is out of range: 5"},
		{name: "go to without a number", input: "g", wantOutput: "Usage: g N"},
		{name: "go to with a word", input: "g first", wantOutput: `"first" is not a question number.`},
		{name: "unknown command", input: "foo", wantOutput: `Unknown command "foo". Type h for help.`},
		{name: "help", input: "h", wantOutput: "Commands:\n"},
		{name: "calculator", input: "calc 1 + 2 * 3", wantOutput: "= 7\n"},
		{name: "calculator division by zero", input: "calc 1/0", wantOutput: "Division by zero."},
		{name: "calculator syntax error", input: "calc 1+", wantOutput: "Invalid expression."},
		{name: "calculator without an expression", input: "calc", wantOutput: "Usage: calc EXPR"},
		{name: "resume without a break", input: "r", wantOutput: "You are not on a break."},
		{name: "break without a timer", input: "b", wantOutput: "Breaks are not available for this quiz."},
		{name: "time without a timer", input: "t", wantOutput: "No timer for this quiz."},
		{name: "image without an image", input: "i", wantOutput: "No image for this question."},
		{name: "explanation without an explanation", input: "w", wantOutput: "No explanation provided."},
		{name: "check a wrong choice", input: "1\nc", wantOutput: "❌ Not quite."},
		{name: "check the right choice", input: "2\nc", wantOutput: "✅ Correct!"},
		{name: "submit a wrong choice", input: "3\ns", wantOutput: "❌ Answer saved. (Incorrect)"},
		{name: "choose an option", input: "2", wantOutput: "(*) 2. Blue"},
		{name: "quit", input: "q", wantOutput: "Bye."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := mustOrdered(t, newTestEngine(t, singleQuestion, session.Settings{}), singleQuestion[0].Options)
			cli, output := newTestQuizCLI(t, engine, strings.Split(tt.input, "\n"))

			err := runSession(t, cli)
			assert.ErrorIs(t, err, errEnd)
			assert.Contains(t, output.String(), tt.wantOutput)
		})
	}
}

// mustOrdered restarts engine until the options of its only question are in order
func mustOrdered(t *testing.T, engine *session.Engine, options []string) *session.Engine {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if slices.Equal(engine.Current().Options, options) {
			return engine
		}
		var err error
		engine, err = engine.Restart(engine.Settings())
		require.NoError(t, err)
	}
	t.Fatal("options were never in order")
	return nil
}

func TestQuizCLI_Session_Break(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{TimerSeconds: 60, AllowBreaks: true})
	cli, output := newTestQuizCLI(t, engine, []string{"b", "y", "n", "t", "r", "b"})

	err := runSession(t, cli)
	assert.ErrorIs(t, err, errEnd)

	assert.Contains(t, output.String(), "Start a single 15-minute break? Timer will be paused. [y/N]")
	assert.Contains(t, output.String(), "Break in progress. Return in 15 minute(s), or type r to resume.")
	assert.Contains(t, output.String(), session.ErrOnBreak.Error())
	assert.Contains(t, output.String(), "On break: 15:00 left. The timer is paused at 01:00.")
	assert.Contains(t, output.String(), "Welcome back.")
	assert.Contains(t, output.String(), "The break was already taken.")
	assert.Equal(t, session.InProgress, cli.engine.State())
	assert.True(t, cli.engine.BreakTaken())
	assert.Nil(t, cli.ticker)
}

func TestQuizCLI_Session_DeclineBreak(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{TimerSeconds: 60, AllowBreaks: true})
	cli, _ := newTestQuizCLI(t, engine, []string{"b", "n"})

	err := runSession(t, cli)
	assert.ErrorIs(t, err, errEnd)
	assert.False(t, cli.engine.BreakTaken())
	assert.True(t, cli.engine.CanBreak())
}

func TestQuizCLI_Tick(t *testing.T) {
	t.Run("time is up", func(t *testing.T) {
		engine := newTestEngine(t, testBank(), session.Settings{TimerSeconds: 2})
		cli, output := newTestQuizCLI(t, engine, nil)

		cli.tick()
		assert.NotContains(t, output.String(), "Time is up!")
		cli.tick()
		assert.Contains(t, output.String(), "Time is up! Submitting current answer.\n❌ Answer saved. (Incorrect)")
		assert.Equal(t, 0, cli.engine.Remaining())
		assert.False(t, cli.engine.TimerRunning())
	})

	t.Run("break is over", func(t *testing.T) {
		engine := newTestEngine(t, testBank(), session.Settings{TimerSeconds: 60, AllowBreaks: true})
		require.True(t, engine.StartBreak())
		cli, output := newTestQuizCLI(t, engine, nil)

		for i := 0; i < session.BreakSeconds; i++ {
			cli.tick()
		}
		assert.Contains(t, output.String(), "The break is over.")
		assert.Equal(t, session.InProgress, cli.engine.State())
		assert.Equal(t, 60, cli.engine.Remaining())
	})
}

func TestQuizCLI_Confirm_CountdownContinues(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{TimerSeconds: 2})
	cli, output := newTestQuizCLI(t, engine, nil)
	stdin, stdinWriter := io.Pipe()
	defer func() {
		_ = stdinWriter.Close()
	}()
	cli.InteractiveQuizCLI = newInteractiveQuizCLI(stdin, output)
	ticks := make(chan time.Time)
	cli.ticks = ticks

	result := make(chan bool, 1)
	go func() {
		result <- cli.confirm(context.Background(), "Finish anyway?")
	}()

	for i := 0; i < 2; i++ {
		select {
		case ticks <- testNow:
		case <-time.After(time.Second):
			t.Fatal("the countdown stopped while waiting for an answer")
		}
	}
	_, err := stdinWriter.Write([]byte("y\n"))
	require.NoError(t, err)

	assert.True(t, <-result)
	assert.Equal(t, 0, cli.engine.Remaining())
	assert.False(t, cli.engine.TimerRunning())
	assert.Equal(t, 2, strings.Count(output.String(), "Finish anyway? [y/N]: "))
	assert.Contains(t, output.String(), "Time is up! Submitting current answer.")
}

func TestQuizCLI_Session_Restart(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{})
	cli, output := newTestQuizCLI(t, engine, []string{"finish", "y", "y", "q"})

	err := runSession(t, cli)
	assert.ErrorIs(t, err, errEnd)

	assert.NotEqual(t, engine.ID(), cli.engine.ID())
	assert.Equal(t, session.InProgress, cli.engine.State())
	assert.Equal(t, session.Finished, engine.State())
	assert.Contains(t, output.String(), "Restart with a new set of questions? [y/N]")
	assert.Contains(t, output.String(), "Bye.")
}

func TestQuizCLI_Session_ExportMarkdown(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{})
	cli, _ := newTestQuizCLI(t, engine, []string{"finish", "y", "n"})
	cli.reviewFormat = "md"

	err := runSession(t, cli)
	assert.ErrorIs(t, err, errEnd)

	got, err := os.ReadFile(filepath.Join(cli.reviewDirectory, "quiz_20261015_100000.md"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "# quiz")
}

func TestQuizCLI_Session_Canceled(t *testing.T) {
	engine := newTestEngine(t, testBank(), session.Settings{TimerSeconds: 60})
	cli, _ := newTestQuizCLI(t, engine, nil)
	// the input never ends
	reader, writer := io.Pipe()
	defer func() {
		_ = writer.Close()
	}()
	cli.InteractiveQuizCLI = newInteractiveQuizCLI(reader, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := cli.Session(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, cli.ticker)
}

func TestQuizCLI_ShowImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sky.png"), []byte("png"), 0644))

	tests := []struct {
		name       string
		image      string
		baseDir    string
		wantOutput string
	}{
		{
			name:       "relative to the bank file",
			image:      "sky.png",
			baseDir:    dir,
			wantOutput: "Image: " + filepath.Join(dir, "sky.png") + "\n",
		},
		{
			name:       "absolute path",
			image:      filepath.Join(dir, "sky.png"),
			wantOutput: "Image: " + filepath.Join(dir, "sky.png") + "\n",
		},
		{
			name:       "missing file",
			image:      "missing.png",
			baseDir:    dir,
			wantOutput: "Image: " + filepath.Join(dir, "missing.png") + " (not found)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image := tt.image
			engine := newTestEngine(t, bank.Bank{
				{Question: "Sky", Options: []string{"Blue"}, Answer: []string{"Blue"}, Image: &image},
			}, session.Settings{})
			cli, output := newTestQuizCLI(t, engine, nil)
			cli.baseDir = tt.baseDir

			cli.showImage()
			assert.Equal(t, tt.wantOutput, output.String())
		})
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		name   string
		stem   string
		format string
		want   string
	}{
		{name: "default format", stem: "deck", format: "", want: "deck_20261015_100000.txt"},
		{name: "text", stem: "deck", format: "txt", want: "deck_20261015_100000.txt"},
		{name: "markdown", stem: "deck", format: "md", want: "deck_20261015_100000.md"},
		{name: "pdf", stem: "deck", format: "pdf", want: "deck_20261015_100000.pdf"},
		{name: "no stem", stem: "", format: "txt", want: "review_20261015_100000.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exportFileName(tt.stem, testNow, tt.format))
		})
	}
}

func TestParseOptionNumbers(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   []int
		wantOK bool
	}{
		{name: "one number", fields: []string{"2"}, want: []int{1}, wantOK: true},
		{name: "space separated", fields: []string{"1", "3"}, want: []int{0, 2}, wantOK: true},
		{name: "comma separated", fields: []string{"1,3"}, want: []int{0, 2}, wantOK: true},
		{name: "trailing comma", fields: []string{"1,"}, want: []int{0}, wantOK: true},
		{name: "a word", fields: []string{"next"}, wantOK: false},
		{name: "only commas", fields: []string{","}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseOptionNumbers(tt.fields)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestInteractiveQuizCLI_Run(t *testing.T) {
	errSession := errors.New("session failed")

	tests := []struct {
		name      string
		returns   []error
		wantError error
	}{
		{
			name:    "ends the loop at the end of the quiz",
			returns: []error{nil, nil, errEnd},
		},
		{
			name:      "returns a session error",
			returns:   []error{nil, errSession},
			wantError: errSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockSession := mock_cli.NewMockSession(ctrl)
			var calls []any
			for _, ret := range tt.returns {
				calls = append(calls, mockSession.EXPECT().Session(gomock.Any()).Return(ret))
			}
			gomock.InOrder(calls...)

			cli := newInteractiveQuizCLI(strings.NewReader(""), &bytes.Buffer{})
			err := cli.Run(context.Background(), mockSession)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestInteractiveQuizCLI_Run_WaitsForSessionOnInterrupt(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSession := mock_cli.NewMockSession(ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})
	returned := false
	mockSession.EXPECT().Session(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		close(entered)
		<-ctx.Done()
		<-release
		returned = true
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	output := &bytes.Buffer{}
	cli := newInteractiveQuizCLI(strings.NewReader(""), output)
	done := make(chan error, 1)
	go func() {
		done <- cli.Run(ctx, mockSession)
	}()

	<-entered
	cancel()
	select {
	case <-done:
		t.Fatal("Run returned while the session was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	assert.True(t, returned)
	assert.Equal(t, "Received interrupt signal, exiting...\n", output.String())
}

func TestInteractiveQuizCLI_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "y", input: "y\n", want: true},
		{name: "yes in capitals", input: "YES\n", want: true},
		{name: "n", input: "n\n", want: false},
		{name: "empty line", input: "\n", want: false},
		{name: "end of input", input: "", want: false},
		{name: "no trailing newline", input: "y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &bytes.Buffer{}
			cli := newInteractiveQuizCLI(strings.NewReader(tt.input), output)
			assert.Equal(t, tt.want, cli.confirm(context.Background(), "Continue?"))
			assert.True(t, strings.HasPrefix(output.String(), "Continue? [y/N]: "))
		})
	}
}
