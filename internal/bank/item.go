// Package bank holds the compiled quiz bank: its items, record normalization and the exchange files.
package bank

import (
	"slices"
)

// Item is one gradable question.
// Answer is a set. Normalize keeps it sorted so that files and exports are reproducible.
type Item struct {
	Question    string   `yaml:"question" json:"question"`
	Options     []string `yaml:"options" json:"options"`
	Answer      []string `yaml:"answer" json:"answer"`
	Explanation string   `yaml:"explanation" json:"explanation"`
	Image       *string  `yaml:"image" json:"image"`
	Multi       bool     `yaml:"multi" json:"multi"`
}

// Bank is the ordered list of items loaded from one source. Treat it as read-only.
type Bank []Item

// Clone returns a deep copy that shares no slices or pointers with the item
func (item Item) Clone() Item {
	cloned := item
	cloned.Options = slices.Clone(item.Options)
	cloned.Answer = slices.Clone(item.Answer)
	if item.Image != nil {
		image := *item.Image
		cloned.Image = &image
	}
	return cloned
}

// ImagePath returns the image reference or an empty string
func (item Item) ImagePath() string {
	if item.Image == nil {
		return ""
	}
	return *item.Image
}

// HasAnswer reports whether option is one of the correct answers
func (item Item) HasAnswer(option string) bool {
	return slices.Contains(item.Answer, option)
}

// AnswerSet returns the distinct answers in sorted order
func (item Item) AnswerSet() []string {
	answer := slices.Clone(item.Answer)
	slices.Sort(answer)
	return slices.Compact(answer)
}

// Record converts the item into the bank exchange shape
func (item Item) Record() map[string]any {
	var image any
	if item.Image != nil {
		image = *item.Image
	}
	return map[string]any{
		"question":    item.Question,
		"options":     slices.Clone(item.Options),
		"answer":      slices.Clone(item.Answer),
		"explanation": item.Explanation,
		"image":       image,
		"multi":       item.Multi,
	}
}
