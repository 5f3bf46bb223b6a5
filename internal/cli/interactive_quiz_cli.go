package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	errEnd = errors.New("end")
)

// InteractiveQuizCLI contains shared terminal logic for interactive quiz CLIs
type InteractiveQuizCLI struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	green        *color.Color
	red          *color.Color

	linesOnce sync.Once
	lines     chan string
}

func newInteractiveQuizCLI(stdin io.Reader, stdout io.Writer) *InteractiveQuizCLI {
	return &InteractiveQuizCLI{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
	}
}

//go:generate mockgen -source=interactive_quiz_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

type Session interface {
	Session(context context.Context) error
}

func (cli *InteractiveQuizCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) || ctx.Err() != nil {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		// the session may still be running, and the caller cleans up after Run
		for range errCh {
		}
		cli.println("Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// inputLines starts forwarding trimmed input lines on first use. The channel is closed at the end of the input.
func (cli *InteractiveQuizCLI) inputLines() <-chan string {
	cli.linesOnce.Do(func() {
		cli.lines = make(chan string)
		go func() {
			defer close(cli.lines)
			for {
				line, err := cli.stdinReader.ReadString('\n')
				if err == nil || line != "" {
					cli.lines <- strings.TrimSpace(line)
				}
				if err != nil {
					if !errors.Is(err, io.EOF) {
						slog.Default().Warn("failed to read input", slog.Any("error", err))
					}
					return
				}
			}
		}()
	})
	return cli.lines
}

// readLine waits for the next input line
func (cli *InteractiveQuizCLI) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-cli.inputLines():
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// confirm asks a yes/no question. Anything but y or yes declines.
func (cli *InteractiveQuizCLI) confirm(ctx context.Context, question string) bool {
	cli.printf("%s [y/N]: ", question)
	answer, err := cli.readLine(ctx)
	if err != nil {
		cli.println()
		return false
	}
	return isYes(answer)
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func (cli *InteractiveQuizCLI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(cli.stdoutWriter, format, args...)
}

func (cli *InteractiveQuizCLI) println(args ...any) {
	_, _ = fmt.Fprintln(cli.stdoutWriter, args...)
}

func (cli *InteractiveQuizCLI) printCorrect(format string, args ...any) {
	cli.printf("✅ ")
	_, _ = cli.green.Fprintf(cli.stdoutWriter, format+"\n", args...)
}

func (cli *InteractiveQuizCLI) printWrong(format string, args ...any) {
	cli.printf("❌ ")
	_, _ = cli.red.Fprintf(cli.stdoutWriter, format+"\n", args...)
}

func (cli *InteractiveQuizCLI) printError(err error) {
	_, _ = cli.red.Fprintf(cli.stdoutWriter, "%v\n", err)
}
