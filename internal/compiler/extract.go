// Package compiler turns slides into quiz bank items.
package compiler

import (
	"regexp"
	"strings"

	"github.com/at-ishikawa/deckquiz/internal/deck"
)

var (
	bulletPattern     = regexp.MustCompile(`^[\x{2022}\-–•]\s+`)
	enumeratorPattern = regexp.MustCompile(`^([A-Za-z][\)\.]|\d+\.)\s+`)
)

// ExtractRecord reads the question and the options of one slide.
// The first shape with text is the question and every line of the following text shapes is an option.
// ok is false when the slide has no question or no option.
func ExtractRecord(shapes []deck.Shape) (question string, options []string, ok bool) {
	for _, shape := range shapes {
		text := strings.TrimSpace(shape.Text)
		if text == "" {
			continue
		}
		if question == "" {
			question = text
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			if option := cleanOptionLine(line); option != "" {
				options = append(options, option)
			}
		}
	}
	return question, options, question != "" && len(options) > 0
}

func cleanOptionLine(line string) string {
	s := strings.TrimSpace(line)
	s = bulletPattern.ReplaceAllString(s, "")
	s = enumeratorPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
