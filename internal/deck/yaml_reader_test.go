package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/at-ishikawa/deckquiz/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLReader_Read(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "sky.PNG"), testutil.PNG, 0644))

	path := testutil.WriteFile(t, dir, "deck.yml", `slides:
  - shapes:
      - text: What color is the sky?
      - picture: images/sky.PNG
      - text: |
          A) Blue
          B) Red
    notes: |
      Answer is: A
      Rayleigh scattering
  - shapes:
      - text: Empty slide
`)

	got, err := NewYAMLReader().Read(path)
	require.NoError(t, err)

	assert.Equal(t, "deck", got.Stem())
	assert.Equal(t, []Slide{
		{
			Shapes: []Shape{
				{Text: "What color is the sky?"},
				{Picture: &Picture{Blob: testutil.PNG, Ext: "png"}},
				{Text: "A) Blue\nB) Red\n"},
			},
			Notes: "Answer is: A\nRayleigh scattering\n",
		},
		{
			Shapes: []Shape{{Text: "Empty slide"}},
		},
	}, got.Slides)
}

func TestYAMLReader_Read_Error(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			name:     "invalid yaml",
			contents: "slides: [[[",
			wantErr:  "yaml.NewDecoder().Decode()",
		},
		{
			name:     "missing picture",
			contents: "slides:\n  - shapes:\n      - picture: missing.png\n",
			wantErr:  "slide 1 shape 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), "deck.yml", tt.contents)
			_, err := NewYAMLReader().Read(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
