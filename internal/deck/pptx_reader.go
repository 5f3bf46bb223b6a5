package deck

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	presentationPart = "ppt/presentation.xml"

	relTypeSlide      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeNotesSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
)

// PPTXReader reads the text, pictures and notes of an Office Open XML presentation.
// Group shapes, tables and charts are ignored.
type PPTXReader struct{}

func NewPPTXReader() *PPTXReader {
	return &PPTXReader{}
}

type xmlPresentation struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

type xmlRelationships struct {
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type xmlSlide struct {
	Tree xmlShapeTree `xml:"cSld>spTree"`
}

// xmlShapeTree keeps every child element so that shapes stay in z-order
type xmlShapeTree struct {
	Elements []xmlShape `xml:",any"`
}

type xmlShape struct {
	XMLName     xml.Name
	Placeholder *struct {
		Type string `xml:"type,attr"`
	} `xml:"nvSpPr>nvPr>ph"`
	TextBody *xmlTextBody `xml:"txBody"`
	BlipFill *struct {
		Blip struct {
			Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
}

type xmlTextBody struct {
	Paragraphs []xmlParagraph `xml:"p"`
}

type xmlParagraph struct {
	Runs []xmlRun `xml:",any"`
}

type xmlRun struct {
	XMLName xml.Name
	Text    string `xml:"t"`
}

func (body *xmlTextBody) text() string {
	paragraphs := make([]string, 0, len(body.Paragraphs))
	for _, p := range body.Paragraphs {
		var sb strings.Builder
		for _, run := range p.Runs {
			switch run.XMLName.Local {
			case "r", "fld":
				sb.WriteString(run.Text)
			case "br":
				sb.WriteString("\n")
			}
		}
		paragraphs = append(paragraphs, sb.String())
	}
	return strings.Join(paragraphs, "\n")
}

type pptxPackage struct {
	files map[string]*zip.File
}

func (r *PPTXReader) Read(filePath string) (*Deck, error) {
	zipReader, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("zip.OpenReader(%s) > %w", filePath, err)
	}
	defer func() {
		_ = zipReader.Close()
	}()

	pkg := &pptxPackage{files: make(map[string]*zip.File, len(zipReader.File))}
	for _, f := range zipReader.File {
		pkg.files[f.Name] = f
	}

	var presentation xmlPresentation
	if err := pkg.decode(presentationPart, &presentation); err != nil {
		return nil, err
	}
	presentationRels, err := pkg.relationships(presentationPart)
	if err != nil {
		return nil, err
	}

	result := &Deck{Path: filePath}
	for _, slideID := range presentation.SlideIDs {
		rel, ok := presentationRels[slideID.RelID]
		if !ok || rel.Type != relTypeSlide {
			continue
		}
		slide, err := pkg.readSlide(resolveTarget(presentationPart, rel.Target))
		if err != nil {
			return nil, err
		}
		result.Slides = append(result.Slides, slide)
	}
	return result, nil
}

func (pkg *pptxPackage) readSlide(partName string) (Slide, error) {
	var source xmlSlide
	if err := pkg.decode(partName, &source); err != nil {
		return Slide{}, err
	}
	rels, err := pkg.relationships(partName)
	if err != nil {
		return Slide{}, err
	}

	var slide Slide
	for _, element := range source.Tree.Elements {
		switch element.XMLName.Local {
		case "sp":
			if element.TextBody == nil {
				continue
			}
			slide.Shapes = append(slide.Shapes, Shape{Text: element.TextBody.text()})
		case "pic":
			if element.BlipFill == nil {
				continue
			}
			rel, ok := rels[element.BlipFill.Blip.Embed]
			if !ok || rel.TargetMode == "External" {
				continue
			}
			target := resolveTarget(partName, rel.Target)
			blob, err := pkg.read(target)
			if err != nil {
				return Slide{}, err
			}
			slide.Shapes = append(slide.Shapes, Shape{Picture: &Picture{
				Blob: blob,
				Ext:  pictureExt(path.Ext(target), blob),
			}})
		}
	}

	for _, rel := range rels {
		if rel.Type != relTypeNotesSlide {
			continue
		}
		notes, err := pkg.readNotes(resolveTarget(partName, rel.Target))
		if err != nil {
			return Slide{}, err
		}
		slide.Notes = notes
		break
	}
	return slide, nil
}

// readNotes returns the text of the body placeholder of a notes slide
func (pkg *pptxPackage) readNotes(partName string) (string, error) {
	var source xmlSlide
	if err := pkg.decode(partName, &source); err != nil {
		return "", err
	}
	for _, element := range source.Tree.Elements {
		if element.Placeholder == nil || element.Placeholder.Type != "body" || element.TextBody == nil {
			continue
		}
		return element.TextBody.text(), nil
	}
	return "", nil
}

func (pkg *pptxPackage) relationships(partName string) (map[string]xmlRelationship, error) {
	relsPart := path.Join(path.Dir(partName), "_rels", path.Base(partName)+".rels")
	result := make(map[string]xmlRelationship)
	if _, ok := pkg.files[relsPart]; !ok {
		return result, nil
	}
	var rels xmlRelationships
	if err := pkg.decode(relsPart, &rels); err != nil {
		return nil, err
	}
	for _, rel := range rels.Relationships {
		result[rel.ID] = rel
	}
	return result, nil
}

func (pkg *pptxPackage) open(partName string) (io.ReadCloser, error) {
	f, ok := pkg.files[partName]
	if !ok {
		return nil, fmt.Errorf("part %s is not found", partName)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("zip.File.Open(%s) > %w", partName, err)
	}
	return rc, nil
}

func (pkg *pptxPackage) decode(partName string, v any) error {
	rc, err := pkg.open(partName)
	if err != nil {
		return err
	}
	defer func() {
		_ = rc.Close()
	}()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("xml.NewDecoder(%s).Decode() > %w", partName, err)
	}
	return nil
}

func (pkg *pptxPackage) read(partName string) ([]byte, error) {
	rc, err := pkg.open(partName)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()
	blob, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll(%s) > %w", partName, err)
	}
	return blob, nil
}

// resolveTarget resolves a relationship target against the part that owns it
func resolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(path.Dir(sourcePart), target))
}
