package session

import (
	"log/slog"
)

// TickResult tells what happened during one elapsed second
type TickResult struct {
	// TimeUp is set on the tick that ran the main countdown out. The current answer was submitted.
	TimeUp   bool
	Feedback Feedback
	// BreakEnded is set on the tick that ran the break countdown out
	BreakEnded bool
}

// Remaining returns the seconds left on the main countdown
func (e *Engine) Remaining() int {
	return e.timer.remaining
}

// TimerRunning reports whether the main countdown is counting down
func (e *Engine) TimerRunning() bool {
	return e.timer.running && e.state == InProgress
}

// BreakRemaining returns the seconds left of an active break
func (e *Engine) BreakRemaining() int {
	if !e.pause.active {
		return 0
	}
	return e.pause.remaining
}

// BreakTaken reports whether the single break was already used
func (e *Engine) BreakTaken() bool {
	return e.pause.taken
}

// CanBreak reports whether StartBreak would start a break now
func (e *Engine) CanBreak() bool {
	return e.state == InProgress &&
		e.settings.AllowBreaks &&
		e.settings.HasTimer() &&
		!e.pause.taken &&
		!e.pause.active
}

// Tick advances the active countdown by one second.
// Only one of the main countdown and the break countdown runs at a time.
func (e *Engine) Tick() TickResult {
	switch e.state {
	case OnBreak:
		e.pause.remaining--
		if e.pause.remaining <= 0 {
			e.endBreak()
			return TickResult{BreakEnded: true}
		}
	case InProgress:
		if !e.timer.running || e.timer.remaining <= 0 {
			return TickResult{}
		}
		e.timer.remaining--
		if e.timer.remaining <= 0 {
			e.timer.remaining = 0
			e.timer.running = false
			slog.Default().Debug("time is up",
				slog.String("session", e.id),
				slog.Int("question", e.current),
			)
			return TickResult{TimeUp: true, Feedback: e.submit()}
		}
	}
	return TickResult{}
}

// StartBreak pauses the main countdown for BreakSeconds.
// It does nothing and returns false unless breaks are allowed, the timer is on and no break was taken.
func (e *Engine) StartBreak() bool {
	if !e.CanBreak() {
		return false
	}
	e.state = OnBreak
	e.pause.active = true
	e.pause.remaining = BreakSeconds
	return true
}

// EndBreak ends an active break early. Breaks are not available again afterwards.
func (e *Engine) EndBreak() bool {
	if e.state != OnBreak {
		return false
	}
	e.endBreak()
	return true
}

func (e *Engine) endBreak() {
	e.pause.active = false
	e.pause.taken = true
	e.pause.remaining = 0
	e.state = InProgress
}
