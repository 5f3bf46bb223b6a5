package compiler

import (
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/deckquiz/internal/bank"
	"github.com/at-ishikawa/deckquiz/internal/deck"
)

// Compiler builds a bank from the slides of a deck
type Compiler struct {
	imageWriter deck.ImageWriter
}

// NewCompiler returns a compiler that persists slide pictures with imageWriter
func NewCompiler(imageWriter deck.ImageWriter) *Compiler {
	return &Compiler{
		imageWriter: imageWriter,
	}
}

// Compile creates one item per slide that has a question and options.
// Every picture of a compiled slide is written and the first one becomes the item image.
// Slides are numbered from 1 in deck order, including skipped ones.
func (c *Compiler) Compile(d *deck.Deck) (bank.Bank, error) {
	stem := d.Stem()
	result := make(bank.Bank, 0, len(d.Slides))
	for i, slide := range d.Slides {
		slideNumber := i + 1
		question, options, ok := ExtractRecord(slide.Shapes)
		if !ok {
			slog.Default().Debug("skip a slide without a question or options",
				slog.String("deck", d.Path),
				slog.Int("slide", slideNumber),
			)
			continue
		}

		tokens, explanation := ParseNotes(slide.Notes)
		answer := ResolveAnswers(tokens, options)
		if len(tokens) > 0 && len(answer) == 0 {
			slog.Default().Debug("no answer token matched an option",
				slog.Int("slide", slideNumber),
				slog.Any("tokens", tokens),
			)
		}

		image, err := c.writePictures(stem, slideNumber, slide)
		if err != nil {
			return nil, err
		}

		result = append(result, bank.Normalize(map[string]any{
			"question":    question,
			"options":     options,
			"answer":      answer,
			"explanation": explanation,
			"image":       image,
			"multi":       len(tokens) > 1,
		}))
	}
	return result, nil
}

func (c *Compiler) writePictures(stem string, slideNumber int, slide deck.Slide) (any, error) {
	var first any
	pictureNumber := 0
	for _, shape := range slide.Shapes {
		if !shape.IsPicture() {
			continue
		}
		pictureNumber++
		path, err := c.imageWriter.WritePicture(stem, slideNumber, pictureNumber, *shape.Picture)
		if err != nil {
			return nil, fmt.Errorf("imageWriter.WritePicture(%s, %d, %d) > %w", stem, slideNumber, pictureNumber, err)
		}
		if first == nil {
			first = path
		}
	}
	return first, nil
}
