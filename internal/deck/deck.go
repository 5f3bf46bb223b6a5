// Package deck models the slides a quiz bank is compiled from and reads them from PPTX files or YAML deck descriptions.
package deck

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Picture is the binary content of a picture shape
type Picture struct {
	Blob []byte
	// Ext is the file extension without a leading dot, e.g. "png"
	Ext string
}

// pictureExt normalizes a file extension like ".PNG" and sniffs the content when there is none
func pictureExt(ext string, blob []byte) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext != "" {
		return ext
	}
	return strings.TrimPrefix(mimetype.Detect(blob).Extension(), ".")
}

// Shape is a single shape on a slide. A shape carries text, a picture, or neither.
type Shape struct {
	Text    string
	Picture *Picture
}

// IsPicture reports whether the shape is classified as a picture
func (s Shape) IsPicture() bool {
	return s.Picture != nil
}

// Slide holds the shapes of one slide in z-order and its speaker notes
type Slide struct {
	Shapes []Shape
	Notes  string
}

// Deck is a loaded slide deck
type Deck struct {
	Path   string
	Slides []Slide
}

// Stem returns the base name of the deck file without its extension
func (d Deck) Stem() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

//go:generate mockgen -source=deck.go -destination=../mocks/deck/mock_deck.go -package=mock_deck

// Reader loads a deck from a file
type Reader interface {
	Read(path string) (*Deck, error)
}

// ImageWriter persists picture blobs extracted from slides
type ImageWriter interface {
	WritePicture(stem string, slideNumber, pictureNumber int, picture Picture) (string, error)
}

var (
	ErrUnsupportedFormat = errors.New("unsupported deck format")
)

// NewReader returns the reader matching the extension of path
func NewReader(path string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pptx":
		return NewPPTXReader(), nil
	case ".yml", ".yaml":
		return NewYAMLReader(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// IsDeckFile reports whether path has an extension a Reader can load
func IsDeckFile(path string) bool {
	_, err := NewReader(path)
	return err == nil
}

// Open reads the deck at path with the reader matching its extension
func Open(path string) (*Deck, error) {
	reader, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	d, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reader.Read(%s) > %w", path, err)
	}
	return d, nil
}
