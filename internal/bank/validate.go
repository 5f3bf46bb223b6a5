package bank

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidationError represents a single problem found in a bank file
type ValidationError struct {
	File        string
	Location    string
	Message     string
	Severity    string // "error" or "warning"
	Suggestions []string
}

func (e ValidationError) Error() string {
	location := ""
	if e.Location != "" {
		location = fmt.Sprintf(" (%s)", e.Location)
	}
	msg := fmt.Sprintf("%s%s: %s", e.File, location, e.Message)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" [Suggestion: %s]", strings.Join(e.Suggestions, "; "))
	}
	return msg
}

// ValidationResult contains the problems of one bank
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *ValidationResult) AddError(err ValidationError) {
	err.Severity = "error"
	r.Errors = append(r.Errors, err)
}

func (r *ValidationResult) AddWarning(err ValidationError) {
	err.Severity = "warning"
	r.Warnings = append(r.Warnings, err)
}

// Validate checks that every item can be asked and graded.
// An item without an answer is still playable, so it is only a warning.
// Relative image paths are resolved against baseDir.
func Validate(file string, b Bank, baseDir string) *ValidationResult {
	result := &ValidationResult{}
	if len(b) == 0 {
		result.AddError(ValidationError{
			File:    file,
			Message: "bank has no items",
		})
		return result
	}

	for i, item := range b {
		location := fmt.Sprintf("item %d", i+1)
		if item.Question == "" {
			result.AddError(ValidationError{
				File:     file,
				Location: location,
				Message:  "question is empty",
			})
		}
		if len(item.Options) == 0 {
			result.AddError(ValidationError{
				File:     file,
				Location: location,
				Message:  "no options",
			})
		}

		for _, answer := range item.Answer {
			if !contains(item.Options, answer) {
				result.AddError(ValidationError{
					File:        file,
					Location:    location,
					Message:     fmt.Sprintf("answer %q is not one of the options", answer),
					Suggestions: item.Options,
				})
			}
		}
		if len(item.Answer) == 0 {
			result.AddWarning(ValidationError{
				File:     file,
				Location: location,
				Message:  "no answer, this item can never be answered correctly",
			})
		}

		seen := make(map[string]bool, len(item.Options))
		for _, option := range item.Options {
			if seen[option] {
				result.AddWarning(ValidationError{
					File:     file,
					Location: location,
					Message:  fmt.Sprintf("duplicated option %q", option),
				})
			}
			seen[option] = true
		}

		if image := item.ImagePath(); image != "" {
			path := image
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			if _, err := os.Stat(path); err != nil {
				result.AddWarning(ValidationError{
					File:     file,
					Location: location,
					Message:  fmt.Sprintf("image %s is not readable: %v", image, err),
				})
			}
		}
	}
	return result
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
