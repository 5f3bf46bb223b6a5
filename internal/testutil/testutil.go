// Package testutil provides shared test helpers for creating config files, decks and bank fixtures.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// PNG is the smallest valid PNG image, used as picture content in deck fixtures
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// SetupTestConfig creates a minimal config file and all required directories for testing.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"assets", "reviews"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`quiz:
  question_count: 0
  timer_seconds: 0
  allow_repeats: true
  test_mode: false
  allow_breaks: true
assets:
  directory: %s
outputs:
  review_directory: %s
`,
		filepath.Join(tmpDir, "assets"),
		filepath.Join(tmpDir, "reviews"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// WriteFile writes contents to dir/name and returns the path
func WriteFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

// ShapeFixture is one shape of a slide fixture. Picture takes precedence over Text.
type ShapeFixture struct {
	Text    string
	Picture []byte
}

// SlideFixture describes one slide of a generated PPTX file
type SlideFixture struct {
	Shapes []ShapeFixture
	Notes  string
}

const (
	pptxNamespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	relsNamespace = `xmlns="http://schemas.openxmlformats.org/package/2006/relationships"`
	relTypePrefix = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
)

// WritePPTX writes a minimal presentation containing the given slides and returns its path
func WritePPTX(t *testing.T, dir, name string, slides []SlideFixture) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, contents string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(contents))
		require.NoError(t, err)
	}

	write("[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`)

	var slideIDs, presentationRels strings.Builder
	for i, slide := range slides {
		n := i + 1
		fmt.Fprintf(&slideIDs, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n)
		fmt.Fprintf(&presentationRels, `<Relationship Id="rId%d" Type="%sslide" Target="slides/slide%d.xml"/>`, n, relTypePrefix, n)

		var shapes, slideRels strings.Builder
		pictureCount := 0
		for j, shape := range slide.Shapes {
			if shape.Picture != nil {
				pictureCount++
				relID := fmt.Sprintf("rIdPic%d", pictureCount)
				mediaName := fmt.Sprintf("image%d-%d.png", n, pictureCount)
				w, err := zw.Create("ppt/media/" + mediaName)
				require.NoError(t, err)
				_, err = w.Write(shape.Picture)
				require.NoError(t, err)
				fmt.Fprintf(&slideRels, `<Relationship Id="%s" Type="%simage" Target="../media/%s"/>`, relID, relTypePrefix, mediaName)
				fmt.Fprintf(&shapes, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
					`<p:blipFill><a:blip r:embed="%s"/></p:blipFill><p:spPr/></p:pic>`, j+2, relID)
				continue
			}
			fmt.Fprintf(&shapes, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Shape"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/>%s</p:sp>`,
				j+2, textBody(t, shape.Text))
		}
		if slide.Notes != "" {
			fmt.Fprintf(&slideRels, `<Relationship Id="rIdNotes" Type="%snotesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, relTypePrefix, n)
			write(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), fmt.Sprintf(
				`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:notes %s><p:cSld><p:spTree>`+
					`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`+
					`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image"/><p:cNvSpPr/><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>`+
					`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>%s</p:sp>`+
					`<p:sp><p:nvSpPr><p:cNvPr id="4" name="Slide Number"/><p:cNvSpPr/><p:nvPr><p:ph type="sldNum" idx="5"/></p:nvPr></p:nvSpPr><p:spPr/>%s</p:sp>`+
					`</p:spTree></p:cSld></p:notes>`,
				pptxNamespaces, textBody(t, slide.Notes), textBody(t, fmt.Sprint(n))))
		}

		write(fmt.Sprintf("ppt/slides/slide%d.xml", n), fmt.Sprintf(
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sld %s><p:cSld><p:spTree>`+
				`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>%s`+
				`</p:spTree></p:cSld></p:sld>`,
			pptxNamespaces, shapes.String()))
		write(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), fmt.Sprintf(
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships %s>%s</Relationships>`,
			relsNamespace, slideRels.String()))
	}

	write("ppt/presentation.xml", fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:presentation %s><p:sldIdLst>%s</p:sldIdLst></p:presentation>`,
		pptxNamespaces, slideIDs.String()))
	write("ppt/_rels/presentation.xml.rels", fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships %s>%s</Relationships>`,
		relsNamespace, presentationRels.String()))
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

// textBody renders each line of text as its own paragraph
func textBody(t *testing.T, text string) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, line := range strings.Split(text, "\n") {
		var escaped bytes.Buffer
		require.NoError(t, xml.EscapeText(&escaped, []byte(line)))
		if line == "" {
			sb.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
			continue
		}
		fmt.Fprintf(&sb, `<a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p>`, escaped.String())
	}
	sb.WriteString(`</p:txBody>`)
	return sb.String()
}
