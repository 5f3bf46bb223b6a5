// Package session runs one quiz attempt over a bank: sampling, answers, flags, the timer and the break.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/at-ishikawa/deckquiz/internal/bank"
	"github.com/google/uuid"
)

// BreakSeconds is the length of the single break of an attempt
const BreakSeconds = 15 * 60

// State is the lifecycle state of an Engine
type State int

const (
	AwaitingSettings State = iota
	InProgress
	OnBreak
	Finished
)

func (s State) String() string {
	switch s {
	case AwaitingSettings:
		return "awaiting settings"
	case InProgress:
		return "in progress"
	case OnBreak:
		return "on break"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Direction moves the current question
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

var (
	ErrEmptyBank        = errors.New("the bank has no questions")
	ErrFinished         = errors.New("the quiz is already finished")
	ErrOnBreak          = errors.New("the quiz is paused for a break")
	ErrOptionOutOfRange = errors.New("option is out of range")
	ErrSingleChoice     = errors.New("only one option can be chosen for this question")
	ErrIndexOutOfRange  = errors.New("question is out of range")
)

//go:generate mockgen -source=engine.go -destination=../mocks/session/mock_session.go -package=mock_session

// Confirmer asks the user whether to finish while some questions are unanswered
type Confirmer interface {
	ConfirmUnanswered(count int) bool
}

// Feedback is the result of submitting or checking the current answer
type Feedback struct {
	Index int
	// Revealed is false in test mode, where Correct is never computed
	Revealed bool
	Correct  bool
}

type timerState struct {
	total     int
	remaining int
	running   bool
}

type breakState struct {
	taken     bool
	active    bool
	remaining int
}

// Engine is a single quiz attempt.
// It is not safe for concurrent use, callers serialize every call.
type Engine struct {
	id       string
	source   bank.Bank
	settings Settings
	random   *rand.Rand

	items     []bank.Item
	responses []*Response
	flags     map[int]bool
	current   int
	selection []bool

	state State
	timer timerState
	pause breakState
}

// Option configures an Engine
type Option func(*Engine)

// WithRand sets the random source used for sampling and shuffling
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.random = r
	}
}

// New samples the questions of a new attempt from b.
// b is never modified, every sampled item is a copy with its own shuffled options.
func New(b bank.Bank, settings Settings, opts ...Option) (*Engine, error) {
	if len(b) == 0 {
		return nil, ErrEmptyBank
	}

	e := &Engine{
		id:       uuid.NewString(),
		source:   b,
		settings: settings,
		flags:    make(map[int]bool),
		state:    AwaitingSettings,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.random == nil {
		e.random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	for _, index := range e.sample(len(b)) {
		item := b[index].Clone()
		item.Answer = item.AnswerSet()
		e.random.Shuffle(len(item.Options), func(i, j int) {
			item.Options[i], item.Options[j] = item.Options[j], item.Options[i]
		})
		e.items = append(e.items, item)
	}
	e.responses = make([]*Response, len(e.items))

	if settings.HasTimer() {
		e.timer = timerState{
			total:     settings.TimerSeconds,
			remaining: settings.TimerSeconds,
			running:   true,
		}
	}
	e.loadSelection()
	e.state = InProgress

	slog.Default().Debug("start a quiz session",
		slog.String("session", e.id),
		slog.Int("bank", len(b)),
		slog.Int("questions", len(e.items)),
		slog.Any("settings", settings),
	)
	return e, nil
}

// sample returns the bank indices of the questions in asking order
func (e *Engine) sample(size int) []int {
	count := e.settings.QuestionCount
	switch {
	case count <= 0:
		return e.random.Perm(size)
	case count <= size:
		return e.random.Perm(size)[:count]
	case e.settings.AllowRepeats:
		indices := make([]int, count)
		for i := range indices {
			indices[i] = e.random.IntN(size)
		}
		return indices
	default:
		// more questions than the bank has and no repeats: ask the whole bank
		slog.Default().Debug("question count is capped to the bank size",
			slog.Int("requested", count),
			slog.Int("bank", size),
		)
		return e.random.Perm(size)
	}
}

// Restart creates a brand-new attempt over the same bank. The receiver is left untouched.
func (e *Engine) Restart(settings Settings) (*Engine, error) {
	return New(e.source, settings, WithRand(e.random))
}

func (e *Engine) ID() string {
	return e.id
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Settings() Settings {
	return e.settings
}

// Len is the number of questions of the attempt
func (e *Engine) Len() int {
	return len(e.items)
}

func (e *Engine) CurrentIndex() int {
	return e.current
}

// Current returns a copy of the current question
func (e *Engine) Current() bank.Item {
	return e.items[e.current].Clone()
}

// Items returns copies of the questions in asking order
func (e *Engine) Items() []bank.Item {
	items := make([]bank.Item, len(e.items))
	for i, item := range e.items {
		items[i] = item.Clone()
	}
	return items
}

// Response returns the saved answer of question i, or nil when it is unanswered
func (e *Engine) Response(i int) *Response {
	if i < 0 || i >= len(e.responses) {
		return nil
	}
	return e.responses[i].clone()
}

// Selection returns the option indices checked on the current question
func (e *Engine) Selection() []int {
	var indices []int
	for i, checked := range e.selection {
		if checked {
			indices = append(indices, i)
		}
	}
	return indices
}

func (e *Engine) checkMutable() error {
	switch e.state {
	case Finished:
		return ErrFinished
	case OnBreak:
		return ErrOnBreak
	}
	return nil
}

// Select replaces the checked options of the current question.
// Indices are 0-based positions in the shuffled options; no index clears the selection.
func (e *Engine) Select(indices ...int) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	item := e.items[e.current]
	if !item.Multi && len(slices.Compact(slices.Sorted(slices.Values(indices)))) > 1 {
		return ErrSingleChoice
	}

	selection := make([]bool, len(item.Options))
	for _, index := range indices {
		if index < 0 || index >= len(item.Options) {
			return fmt.Errorf("%w: %d", ErrOptionOutOfRange, index+1)
		}
		selection[index] = true
	}
	e.selection = selection
	return nil
}

// SaveSelection stores the checked options of the current question, replacing any saved answer
func (e *Engine) SaveSelection() error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	e.saveSelection()
	return nil
}

func (e *Engine) saveSelection() {
	item := e.items[e.current]
	if item.Multi {
		choices := make([]string, 0, len(e.selection))
		for i, checked := range e.selection {
			if checked {
				choices = append(choices, item.Options[i])
			}
		}
		slices.Sort(choices)
		e.responses[e.current] = &Response{Choices: slices.Compact(choices)}
		return
	}

	e.responses[e.current] = nil
	for i, checked := range e.selection {
		if checked {
			e.responses[e.current] = &Response{Choices: []string{item.Options[i]}}
			break
		}
	}
}

// loadSelection checks the options of the saved answer of the current question
func (e *Engine) loadSelection() {
	item := e.items[e.current]
	e.selection = make([]bool, len(item.Options))
	response := e.responses[e.current]
	if response.IsEmpty() {
		return
	}
	for i, option := range item.Options {
		if slices.Contains(response.Choices, option) {
			e.selection[i] = true
			if !item.Multi {
				return
			}
		}
	}
}

// Navigate saves the selection and moves one question forward or back.
// Moving past either end keeps the current question.
func (e *Engine) Navigate(direction Direction) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	e.saveSelection()

	next := e.current + int(direction)
	if next < 0 || next >= len(e.items) {
		return nil
	}
	e.current = next
	e.loadSelection()
	return nil
}

// GoTo saves the selection and jumps to question i
func (e *Engine) GoTo(i int) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	if i < 0 || i >= len(e.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i+1)
	}
	e.saveSelection()
	e.current = i
	e.loadSelection()
	return nil
}

// Submit saves the selection. Outside test mode it also grades the answer.
// Submitting never blocks moving on, whatever the result.
func (e *Engine) Submit() (Feedback, error) {
	if err := e.checkMutable(); err != nil {
		return Feedback{}, err
	}
	return e.submit(), nil
}

func (e *Engine) submit() Feedback {
	e.saveSelection()
	feedback := Feedback{Index: e.current}
	if e.settings.TestMode {
		return feedback
	}
	feedback.Revealed = true
	feedback.Correct = IsCorrect(e.items[e.current], e.responses[e.current])
	return feedback
}

// Check grades the current selection without affecting anything else. It does nothing in test mode.
func (e *Engine) Check() (Feedback, error) {
	if err := e.checkMutable(); err != nil {
		return Feedback{}, err
	}
	if e.settings.TestMode {
		return Feedback{Index: e.current}, nil
	}
	return e.submit(), nil
}

// Explain returns the explanation of the current question. ok is false in test mode.
func (e *Engine) Explain() (explanation string, ok bool) {
	if e.settings.TestMode {
		return "", false
	}
	return e.items[e.current].Explanation, true
}

// ToggleFlag flips the flag of the current question and reports whether it is flagged now
func (e *Engine) ToggleFlag() (bool, error) {
	if err := e.checkMutable(); err != nil {
		return false, err
	}
	if e.flags[e.current] {
		delete(e.flags, e.current)
		return false, nil
	}
	e.flags[e.current] = true
	return true, nil
}

func (e *Engine) IsFlagged(i int) bool {
	return e.flags[i]
}

// Flags returns the flagged question indices in ascending order
func (e *Engine) Flags() []int {
	flags := make([]int, 0, len(e.flags))
	for i := range e.flags {
		flags = append(flags, i)
	}
	slices.Sort(flags)
	return flags
}

// Unanswered counts the questions without a saved answer
func (e *Engine) Unanswered() int {
	count := 0
	for _, response := range e.responses {
		if response.IsEmpty() {
			count++
		}
	}
	return count
}

// HasUnanswered reports whether any saved answer is missing or empty
func (e *Engine) HasUnanswered() bool {
	return e.Unanswered() > 0
}

// Finish saves the selection and ends the attempt.
// When questions are unanswered, confirmer decides whether to finish anyway; a nil confirmer declines.
func (e *Engine) Finish(confirmer Confirmer) (bool, error) {
	if err := e.checkMutable(); err != nil {
		return false, err
	}
	e.saveSelection()

	if count := e.Unanswered(); count > 0 {
		if confirmer == nil || !confirmer.ConfirmUnanswered(count) {
			return false, nil
		}
	}
	e.state = Finished
	e.timer.running = false

	slog.Default().Debug("finish a quiz session",
		slog.String("session", e.id),
		slog.Int("unanswered", e.Unanswered()),
	)
	return true, nil
}
