package session

import (
	"fmt"
	"strconv"
	"strings"
)

// Settings are the options of one quiz attempt. They are validated before a session is created.
type Settings struct {
	// QuestionCount is the number of questions to ask. 0 asks every item of the bank once.
	QuestionCount int  `mapstructure:"question_count" validate:"gte=0"`
	TimerSeconds  int  `mapstructure:"timer_seconds" validate:"gte=0"`
	AllowRepeats  bool `mapstructure:"allow_repeats"`
	TestMode      bool `mapstructure:"test_mode"`
	AllowBreaks   bool `mapstructure:"allow_breaks"`
}

// HasTimer reports whether the attempt counts down
func (s Settings) HasTimer() bool {
	return s.TimerSeconds > 0
}

// ParseTimer reads a duration written as "mm:ss" or as whole minutes "mm".
// An empty string and "0" mean no timer.
func ParseTimer(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "0" {
		return 0, nil
	}

	if minutes, seconds, found := strings.Cut(text, ":"); found {
		m, err := strconv.Atoi(strings.TrimSpace(minutes))
		if err != nil {
			return 0, fmt.Errorf("invalid minutes %q: %w", minutes, err)
		}
		s, err := strconv.Atoi(strings.TrimSpace(seconds))
		if err != nil {
			return 0, fmt.Errorf("invalid seconds %q: %w", seconds, err)
		}
		if m < 0 || s < 0 {
			return 0, fmt.Errorf("timer cannot be negative: %s", text)
		}
		return m*60 + s, nil
	}

	m, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes %q: %w", text, err)
	}
	if m < 0 {
		return 0, fmt.Errorf("timer cannot be negative: %s", text)
	}
	return m * 60, nil
}

// FormatTimer renders seconds as "mm:ss"
func FormatTimer(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
