// Package review grades a finished quiz session and renders the result.
package review

import (
	"errors"
	"math"

	"github.com/at-ishikawa/deckquiz/internal/bank"
	"github.com/at-ishikawa/deckquiz/internal/session"
)

var ErrNotFinished = errors.New("the quiz session is not finished")

// Session is the part of a quiz session a review reads
type Session interface {
	ID() string
	State() session.State
	Settings() session.Settings
	Items() []bank.Item
	Response(i int) *session.Response
	IsFlagged(i int) bool
}

// Entry is the graded snapshot of one question
type Entry struct {
	// Index is 1-based
	Index       int
	Question    string
	Correct     string
	Chosen      string
	Explanation string
	Image       string
	Flagged     bool
	IsCorrect   bool
}

type Score struct {
	Correct int
	Total   int
	Percent int
}

// Report is the immutable result of a finished session
type Report struct {
	SessionID string
	Settings  session.Settings
	Entries   []Entry
	Score     Score
}

// Build grades every question of a finished session
func Build(s Session) (*Report, error) {
	if s.State() != session.Finished {
		return nil, ErrNotFinished
	}

	items := s.Items()
	report := &Report{
		SessionID: s.ID(),
		Settings:  s.Settings(),
		Entries:   make([]Entry, 0, len(items)),
	}
	for i, item := range items {
		response := s.Response(i)
		entry := Entry{
			Index:       i + 1,
			Question:    item.Question,
			Correct:     (&session.Response{Choices: item.Answer}).String(),
			Chosen:      response.String(),
			Explanation: item.Explanation,
			Image:       item.ImagePath(),
			Flagged:     s.IsFlagged(i),
			IsCorrect:   session.IsCorrect(item, response),
		}
		if entry.IsCorrect {
			report.Score.Correct++
		}
		report.Entries = append(report.Entries, entry)
	}
	report.Score.Total = len(items)
	report.Score.Percent = Percent(report.Score.Correct, report.Score.Total)
	return report, nil
}

// Percent rounds 100*correct/total half to even, and is 0 when total is 0
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(correct) / float64(total) * 100))
}
