package session

import (
	"slices"
	"strings"

	"github.com/at-ishikawa/deckquiz/internal/bank"
)

// NoAnswer is shown for an item that was never answered
const NoAnswer = "(no answer)"

// Response is a saved answer.
// A multi item keeps the sorted set of checked options, which may be empty.
// A single item keeps exactly one option.
// A nil *Response means the item was never answered.
type Response struct {
	Choices []string
}

// IsEmpty reports whether the response counts as unanswered
func (r *Response) IsEmpty() bool {
	return r == nil || len(r.Choices) == 0
}

// String joins the choices in lexicographic order
func (r *Response) String() string {
	if r == nil {
		return NoAnswer
	}
	choices := slices.Clone(r.Choices)
	slices.Sort(choices)
	return strings.Join(choices, ", ")
}

func (r *Response) clone() *Response {
	if r == nil {
		return nil
	}
	return &Response{Choices: slices.Clone(r.Choices)}
}

// IsCorrect grades a response.
// A multi item needs exactly the set of answers and a single item needs one of them.
// An empty response is never correct.
func IsCorrect(item bank.Item, response *Response) bool {
	if response.IsEmpty() {
		return false
	}
	if item.Multi {
		choices := slices.Clone(response.Choices)
		slices.Sort(choices)
		choices = slices.Compact(choices)
		return slices.Equal(choices, item.AnswerSet())
	}
	return item.HasAnswer(response.Choices[0])
}
