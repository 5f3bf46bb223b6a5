package assets

import (
	_ "embed"
	"fmt"
	"io"
	"text/template"
	"time"
)

const reviewTemplateName = "review.md.go.tmpl"

//go:embed templates/review.md.go.tmpl
var fallbackReviewTemplate string

// ReviewTemplate is the data of a review document
type ReviewTemplate struct {
	Title        string
	Date         time.Time
	TestMode     bool
	TimerSeconds int
	Correct      int
	Total        int
	Percent      int
	Entries      []ReviewEntry
}

// ReviewEntry is one answered question of a review document
type ReviewEntry struct {
	Index       int
	Question    string
	Correct     string
	Chosen      string
	Explanation string
	Flagged     bool
	IsCorrect   bool
}

func ParseReviewTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, reviewTemplateName, fallbackReviewTemplate)
}

func WriteReview(output io.Writer, templatePath string, templateData ReviewTemplate) error {
	tmpl, err := ParseReviewTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseReviewTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
