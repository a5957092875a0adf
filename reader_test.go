package pptxhtml

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VantageDataChat/pptxhtml/internal/pptxtest"
)

// helper: build a package and read it back
func readDeck(t *testing.T, d *pptxtest.Deck) *Presentation {
	t.Helper()
	data, err := d.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	p, err := ReadFrom(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	return p
}

func sampleDeck() *pptxtest.Deck {
	return &pptxtest.Deck{
		Title:  "Quarterly Review",
		Width:  12192000,
		Height: 6858000,
		Slides: []pptxtest.Slide{
			{
				Shapes: []string{
					pptxtest.Title("Results"),
					pptxtest.Shape("Body", pptxtest.Rect{X: 914400, Y: 1828800, CX: 3657600, CY: 914400}, "",
						pptxtest.Paragraph("ctr", pptxtest.Run{Text: "Revenue", Size: 2400, Bold: true, Color: "FF0000", Font: "Arial"})+
							`<a:p><a:r><a:rPr lang="en-US"/><a:t>up</a:t></a:r>`+pptxtest.LineBreak+`<a:r><a:rPr lang="en-US"/><a:t>12%</a:t></a:r></a:p>`),
					pptxtest.RoundRect("Badge", pptxtest.Rect{X: 0, Y: 0, CX: 914400, CY: 914400}, "accent1", 25000),
					pptxtest.Picture("Logo", "rId2", "Company logo", pptxtest.Rect{X: 100, Y: 200, CX: 300, CY: 400}),
					pptxtest.Table("Numbers", pptxtest.Rect{X: 914400, Y: 3657600, CX: 3657600, CY: 914400},
						[][]string{{"Q1", "Q2"}, {"10", "12"}}),
				},
				Images: []pptxtest.Image{{RelID: "rId2", Name: "image1.png", Data: testPNG(2, 2)}},
			},
			{
				Background: "FF0000",
				Shapes: []string{
					pptxtest.Group(pptxtest.Rect{X: 1000, Y: 2000, CX: 2000, CY: 2000}, pptxtest.Rect{X: 0, Y: 0, CX: 1000, CY: 1000},
						pptxtest.Shape("a", pptxtest.Rect{X: 0, Y: 0, CX: 500, CY: 500}, "00FF00", ""),
						pptxtest.TextBox("b", pptxtest.Rect{X: 500, Y: 500, CX: 500, CY: 500}, "inside"),
					),
				},
			},
		},
	}
}

func TestReaderDeckStructure(t *testing.T) {
	p := readDeck(t, sampleDeck())

	if p.GetSlideCount() != 2 {
		t.Fatalf("expected 2 slides, got %d", p.GetSlideCount())
	}
	if p.GetLayout().CX != 12192000 || p.GetLayout().CY != 6858000 {
		t.Errorf("unexpected slide size %dx%d", p.GetLayout().CX, p.GetLayout().CY)
	}
	if got := p.GetDocumentProperties().Title; got != "Quarterly Review" {
		t.Errorf("expected title 'Quarterly Review', got %q", got)
	}

	slide, _ := p.GetSlide(0)
	shapes := slide.GetShapes()
	want := []ShapeType{ShapeTypeText, ShapeTypeText, ShapeTypeGeneric, ShapeTypePicture, ShapeTypeTable}
	if len(shapes) != len(want) {
		t.Fatalf("expected %d shapes, got %d", len(want), len(shapes))
	}
	for i, s := range shapes {
		if s.GetType() != want[i] {
			t.Errorf("shape %d: expected %v, got %v", i, want[i], s.GetType())
		}
	}
}

func TestReaderPlaceholderInheritance(t *testing.T) {
	p := readDeck(t, sampleDeck())
	slide, _ := p.GetSlide(0)

	title, ok := slide.GetShapes()[0].(*TextShape)
	if !ok {
		t.Fatalf("expected title to be a text shape")
	}
	if title.GetOffsetX() != pptxtest.TitleX || title.GetOffsetY() != pptxtest.TitleY ||
		title.GetWidth() != pptxtest.TitleCX || title.GetHeight() != pptxtest.TitleCY {
		t.Errorf("title geometry not inherited from layout: %d,%d %dx%d",
			title.GetOffsetX(), title.GetOffsetY(), title.GetWidth(), title.GetHeight())
	}
	if title.GetAnchor() != AnchorMiddle {
		t.Errorf("expected layout anchor middle, got %v", title.GetAnchor())
	}
	run := title.GetParagraphs()[0].GetElements()[0].(*TextRun)
	if run.GetFont().Size != 44 {
		t.Errorf("expected master title size 44, got %v", run.GetFont().Size)
	}
	if run.GetFont().Name != "+mj-lt" {
		t.Errorf("expected theme font reference, got %q", run.GetFont().Name)
	}
}

func TestReaderTextProperties(t *testing.T) {
	p := readDeck(t, sampleDeck())
	slide, _ := p.GetSlide(0)
	body := slide.GetShapes()[1].(*TextShape)

	paras := body.GetParagraphs()
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if paras[0].GetAlignment() != AlignCenter {
		t.Errorf("expected center alignment, got %v", paras[0].GetAlignment())
	}
	font := paras[0].GetElements()[0].(*TextRun).GetFont()
	if font.Size != 24 || !font.Bold || font.Name != "Arial" {
		t.Errorf("unexpected font %+v", font)
	}
	if font.Color == nil || font.Color.RGB != "FF0000" {
		t.Errorf("expected red run color, got %+v", font.Color)
	}
	if got := paras[1].Text(); got != "up\n12%" {
		t.Errorf("expected break between runs, got %q", got)
	}
}

func TestReaderGenericPictureTable(t *testing.T) {
	p := readDeck(t, sampleDeck())
	slide, _ := p.GetSlide(0)
	shapes := slide.GetShapes()

	badge := shapes[2].(*GenericShape)
	if badge.GetGeometry() != "roundRect" {
		t.Errorf("expected roundRect, got %q", badge.GetGeometry())
	}
	if badge.GetAdjustValues()["adj"] != 25000 {
		t.Errorf("expected adj 25000, got %v", badge.GetAdjustValues())
	}
	if badge.GetFill() == nil || badge.GetFill().Color.Scheme != "accent1" {
		t.Errorf("expected accent1 fill, got %+v", badge.GetFill())
	}
	if badge.GetBorder() == nil || badge.GetBorder().Width != 12700 {
		t.Errorf("expected 1pt border, got %+v", badge.GetBorder())
	}

	pic := shapes[3].(*PictureShape)
	if len(pic.GetImageData()) == 0 || pic.GetContentType() != "image/png" {
		t.Errorf("expected png data, got %d bytes of %q", len(pic.GetImageData()), pic.GetContentType())
	}
	if pic.GetDescription() != "Company logo" {
		t.Errorf("expected description, got %q", pic.GetDescription())
	}

	table := shapes[4].(*TableShape)
	rows := table.GetRows()
	if len(rows) != 2 || len(rows[0]) != 2 {
		t.Fatalf("expected 2x2 table, got %d rows", len(rows))
	}
	header := table.GetCell(0, 0)
	if header.GetFill() == nil || header.GetFill().Color.Scheme != "accent1" {
		t.Errorf("expected header fill, got %+v", header.GetFill())
	}
	if header.GetAnchor() != AnchorMiddle {
		t.Errorf("expected middle anchor, got %v", header.GetAnchor())
	}
	if header.GetBorders().Bottom == nil || header.GetBorders().Top != nil {
		t.Errorf("expected only a bottom border, got %+v", header.GetBorders())
	}
	if got := table.GetCell(1, 1).GetParagraphs()[0].Text(); got != "12" {
		t.Errorf("expected cell text 12, got %q", got)
	}
}

func TestReaderGroupFlattening(t *testing.T) {
	p := readDeck(t, sampleDeck())
	slide, _ := p.GetSlide(1)
	shapes := slide.GetShapes()
	if len(shapes) != 2 {
		t.Fatalf("expected group children flattened to 2 shapes, got %d", len(shapes))
	}

	// child space 1000x1000 maps onto 2000x2000 at (1000, 2000)
	a, b := shapes[0], shapes[1]
	if a.GetOffsetX() != 1000 || a.GetOffsetY() != 2000 || a.GetWidth() != 1000 || a.GetHeight() != 1000 {
		t.Errorf("unexpected first child geometry %d,%d %dx%d", a.GetOffsetX(), a.GetOffsetY(), a.GetWidth(), a.GetHeight())
	}
	if b.GetOffsetX() != 2000 || b.GetOffsetY() != 3000 || b.GetWidth() != 1000 {
		t.Errorf("unexpected second child geometry %d,%d %dx%d", b.GetOffsetX(), b.GetOffsetY(), b.GetWidth(), b.GetHeight())
	}
	if b.GetType() != ShapeTypeText {
		t.Errorf("expected text child, got %v", b.GetType())
	}
}

func TestReaderBackgrounds(t *testing.T) {
	p := readDeck(t, sampleDeck())

	first, _ := p.GetSlide(0)
	if bg := first.GetBackground(); bg == nil || bg.Color.Scheme != "bg1" {
		t.Errorf("expected master background bg1, got %+v", bg)
	}
	second, _ := p.GetSlide(1)
	if bg := second.GetBackground(); bg == nil || bg.Color.RGB != "FF0000" {
		t.Errorf("expected slide background red, got %+v", bg)
	}
}

func TestReaderTheme(t *testing.T) {
	d := sampleDeck()
	d.Accent1 = "112233"
	d.MajorFont = "Georgia"
	p := readDeck(t, d)

	theme := p.GetTheme()
	if theme.Colors["accent1"].RGB != "112233" {
		t.Errorf("expected accent1 112233, got %+v", theme.Colors["accent1"])
	}
	if theme.Colors["lt1"].RGB != "FFFFFF" {
		t.Errorf("expected lt1 from sysClr lastClr, got %+v", theme.Colors["lt1"])
	}
	if theme.MajorFont != "Georgia" {
		t.Errorf("expected major font Georgia, got %q", theme.MajorFont)
	}
}

func TestReaderOpenFile(t *testing.T) {
	data, err := sampleDeck().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if p.GetSlideCount() != 2 {
		t.Errorf("expected 2 slides, got %d", p.GetSlideCount())
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pptx")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderRejectsInvalidInput(t *testing.T) {
	if _, err := ReadFrom(bytes.NewReader(nil), 0); err == nil {
		t.Error("expected error for empty input")
	}
	junk := []byte("this is not a zip archive")
	if _, err := ReadFrom(bytes.NewReader(junk), int64(len(junk))); err == nil {
		t.Error("expected error for non-zip input")
	}
}

func TestReaderLimits(t *testing.T) {
	data, err := sampleDeck().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	size := int64(len(data))
	tests := []struct {
		name   string
		limits readLimits
	}{
		{"archive", readLimits{partSize: 1 << 20, totalSize: size - 1, entries: 100}},
		{"entries", readLimits{partSize: 1 << 20, totalSize: 1 << 20, entries: 2}},
		{"part", readLimits{partSize: 16, totalSize: 1 << 20, entries: 100}},
	}
	for _, tt := range tests {
		_, err := readPresentationPackage(bytes.NewReader(data), size, tt.limits)
		if !errors.Is(err, ErrPackageLimit) {
			t.Errorf("%s: expected ErrPackageLimit, got %v", tt.name, err)
		}
	}
	if _, err := readPresentationPackage(bytes.NewReader(data), size, defaultReadLimits); err != nil {
		t.Errorf("default limits rejected the deck: %v", err)
	}
}

func TestResolveRelativePath(t *testing.T) {
	tests := []struct {
		base, rel, want string
	}{
		{"ppt/slides", "../media/image1.png", "ppt/media/image1.png"},
		{"ppt", "slides/slide1.xml", "ppt/slides/slide1.xml"},
		{"ppt/slides", "/ppt/media/a.png", "ppt/media/a.png"},
		{"ppt/slides", "../../../../etc/passwd", "ppt/etc/passwd"},
	}
	for _, tt := range tests {
		if got := resolveRelativePath(tt.base, tt.rel); got != tt.want {
			t.Errorf("resolveRelativePath(%q, %q) = %q, want %q", tt.base, tt.rel, got, tt.want)
		}
	}
}

func TestConvertFileEndToEnd(t *testing.T) {
	data, err := sampleDeck().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := ConvertFile(path, nil)
	if err != nil {
		t.Fatalf("ConvertFile failed: %v", err)
	}
	if res.SlideCount != 2 || len(res.Failures) != 0 {
		t.Fatalf("expected 2 slides without failures, got %d / %v", res.SlideCount, res.Failures)
	}
	for _, want := range []string{"<title>Quarterly Review</title>", "data:image/png;base64,", "Revenue", `class="pptx-table"`} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("expected document to contain %q", want)
		}
	}
}
