package review

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/at-ishikawa/deckquiz/internal/assets"
	"github.com/at-ishikawa/deckquiz/internal/pdf"
)

const (
	correctMarker   = "✓"
	incorrectMarker = "✗"
	flaggedPrefix   = "[FLAGGED] "
)

// WriteText renders the plain text export
func WriteText(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintf(w, "Score: %d/%d (%d%%)\n\n", r.Score.Correct, r.Score.Total, r.Score.Percent); err != nil {
		return fmt.Errorf("fmt.Fprintf() > %w", err)
	}
	for _, entry := range r.Entries {
		marker := incorrectMarker
		if entry.IsCorrect {
			marker = correctMarker
		}
		prefix := ""
		if entry.Flagged {
			prefix = flaggedPrefix
		}
		if _, err := fmt.Fprintf(w, "%s %d. %s%s\ncorrect answer: %s\nyour answer: %s\nexplanation: %s\n\n",
			marker, entry.Index, prefix, entry.Question, entry.Correct, entry.Chosen, entry.Explanation,
		); err != nil {
			return fmt.Errorf("fmt.Fprintf() > %w", err)
		}
	}
	return nil
}

// DefaultFileName names an export after the deck or bank it was taken from and the time of the export
func DefaultFileName(stem string, now time.Time) string {
	if stem == "" {
		stem = "review"
	}
	return fmt.Sprintf("%s_%s.txt", stem, now.Format("20060102_150405"))
}

// Exporter writes reports to files
type Exporter struct {
	title        string
	templatePath string
	now          func() time.Time
}

// NewExporter returns an exporter. templatePath overrides the embedded markdown template when it exists.
func NewExporter(title string, templatePath string) *Exporter {
	return &Exporter{
		title:        title,
		templatePath: templatePath,
		now:          time.Now,
	}
}

// Export writes the report to path as text, markdown or PDF, chosen by the extension.
// A PDF export also leaves its markdown source next to it.
// It returns the path of the written file.
func (e *Exporter) Export(path string, r *Report) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(path), err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		if err := e.writeMarkdownFile(path, r); err != nil {
			return "", err
		}
		return path, nil
	case ".pdf":
		markdownPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".md"
		if err := e.writeMarkdownFile(markdownPath, r); err != nil {
			return "", err
		}
		pdfPath, err := pdf.ConvertMarkdownToPDF(markdownPath, path)
		if err != nil {
			return "", fmt.Errorf("pdf.ConvertMarkdownToPDF(%s) > %w", markdownPath, err)
		}
		return pdfPath, nil
	default:
		if err := writeTextFile(path, r); err != nil {
			return "", err
		}
		return path, nil
	}
}

// WriteMarkdown renders the report with the review template
func (e *Exporter) WriteMarkdown(w io.Writer, r *Report) error {
	data := assets.ReviewTemplate{
		Title:        e.title,
		Date:         e.now(),
		TestMode:     r.Settings.TestMode,
		TimerSeconds: r.Settings.TimerSeconds,
		Correct:      r.Score.Correct,
		Total:        r.Score.Total,
		Percent:      r.Score.Percent,
		Entries:      make([]assets.ReviewEntry, 0, len(r.Entries)),
	}
	for _, entry := range r.Entries {
		data.Entries = append(data.Entries, assets.ReviewEntry{
			Index:       entry.Index,
			Question:    entry.Question,
			Correct:     entry.Correct,
			Chosen:      entry.Chosen,
			Explanation: entry.Explanation,
			Flagged:     entry.Flagged,
			IsCorrect:   entry.IsCorrect,
		})
	}
	if err := assets.WriteReview(w, e.templatePath, data); err != nil {
		return fmt.Errorf("assets.WriteReview() > %w", err)
	}
	return nil
}

func (e *Exporter) writeMarkdownFile(path string, r *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()
	return e.WriteMarkdown(file, r)
}

func writeTextFile(path string, r *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()
	return WriteText(file, r)
}
