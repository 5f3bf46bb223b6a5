package deck

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// YAMLDeck is a hand-written deck description.
//
//	slides:
//	  - shapes:
//	      - text: What color is the sky?
//	      - text: |
//	          A) Blue
//	          B) Red
//	      - picture: images/sky.png
//	    notes: |
//	      Answer is: A
//	      Rayleigh scattering
type YAMLDeck struct {
	Slides []YAMLSlide `yaml:"slides"`
}

type YAMLSlide struct {
	Shapes []YAMLShape `yaml:"shapes"`
	Notes  string      `yaml:"notes,omitempty"`
}

type YAMLShape struct {
	Text string `yaml:"text,omitempty"`
	// Picture is a path relative to the deck file
	Picture string `yaml:"picture,omitempty"`
}

// YAMLReader reads YAMLDeck files
type YAMLReader struct{}

func NewYAMLReader() *YAMLReader {
	return &YAMLReader{}
}

func (r *YAMLReader) Read(path string) (*Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var source YAMLDeck
	if err := yaml.NewDecoder(file).Decode(&source); err != nil {
		return nil, fmt.Errorf("yaml.NewDecoder().Decode() > %w", err)
	}

	baseDir := filepath.Dir(path)
	result := &Deck{Path: path}
	for i, s := range source.Slides {
		slide := Slide{Notes: s.Notes}
		for j, shape := range s.Shapes {
			converted := Shape{Text: shape.Text}
			if shape.Picture != "" {
				picturePath := shape.Picture
				if !filepath.IsAbs(picturePath) {
					picturePath = filepath.Join(baseDir, picturePath)
				}
				blob, err := os.ReadFile(picturePath)
				if err != nil {
					return nil, fmt.Errorf("slide %d shape %d: os.ReadFile(%s) > %w", i+1, j+1, picturePath, err)
				}
				converted.Picture = &Picture{
					Blob: blob,
					Ext:  pictureExt(filepath.Ext(picturePath), blob),
				}
			}
			slide.Shapes = append(slide.Shapes, converted)
		}
		result.Slides = append(result.Slides, slide)
	}
	return result, nil
}
