package deck

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultPictureExt = "png"

// PictureFileName returns the file name used for the n-th picture of a slide.
// Both numbers are 1-based.
func PictureFileName(stem string, slideNumber, pictureNumber int, ext string) string {
	if ext == "" {
		ext = defaultPictureExt
	}
	return fmt.Sprintf("%s-slide-%02d-%02d.%s", stem, slideNumber, pictureNumber, ext)
}

// DefaultAssetsDirectory is where pictures of the deck at deckPath are written when no directory is configured
func DefaultAssetsDirectory(deckPath string) string {
	d := Deck{Path: deckPath}
	return filepath.Join(filepath.Dir(deckPath), d.Stem()+"_assets")
}

// FSImageWriter writes pictures into a directory on the local file system
type FSImageWriter struct {
	dir string
}

// NewFSImageWriter creates the directory if needed
func NewFSImageWriter(dir string) (*FSImageWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}
	return &FSImageWriter{dir: dir}, nil
}

func (w *FSImageWriter) WritePicture(stem string, slideNumber, pictureNumber int, picture Picture) (string, error) {
	path := filepath.Join(w.dir, PictureFileName(stem, slideNumber, pictureNumber, picture.Ext))
	if err := os.WriteFile(path, picture.Blob, 0o644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return path, nil
}
