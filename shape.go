package pptxhtml

import "strings"

// Shape is the closed set of renderable slide elements:
// *TextShape, *PictureShape, *TableShape and *GenericShape.
type Shape interface {
	GetType() ShapeType
	GetOffsetX() int64
	GetOffsetY() int64
	GetWidth() int64
	GetHeight() int64
	GetName() string
	// base returns the underlying BaseShape (unexported, seals the interface).
	base() *BaseShape
}

// ShapeType represents the variant of a shape.
type ShapeType int

const (
	ShapeTypeText ShapeType = iota
	ShapeTypePicture
	ShapeTypeTable
	ShapeTypeGeneric
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeText:
		return "text"
	case ShapeTypePicture:
		return "picture"
	case ShapeTypeTable:
		return "table"
	case ShapeTypeGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// BaseShape contains common shape properties.
type BaseShape struct {
	name    string
	offsetX int64 // in EMU
	offsetY int64 // in EMU
	width   int64 // in EMU
	height  int64 // in EMU
	fill    *Fill
	border  *Border
}

func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetName() string   { return b.name }
func (b *BaseShape) base() *BaseShape  { return b }

func (b *BaseShape) SetName(n string) *BaseShape { b.name = n; return b }

// SetPosition sets both offset X and Y in EMU.
func (b *BaseShape) SetPosition(x, y int64) *BaseShape {
	b.offsetX = x
	b.offsetY = y
	return b
}

// SetSize sets both width and height in EMU.
func (b *BaseShape) SetSize(w, h int64) *BaseShape {
	b.width = w
	b.height = h
	return b
}

// GetFill returns the explicit fill, or nil when none was set.
func (b *BaseShape) GetFill() *Fill { return b.fill }

func (b *BaseShape) SetFill(f *Fill) { b.fill = f }

// GetBorder returns the outline, or nil when none was set.
func (b *BaseShape) GetBorder() *Border { return b.border }

func (b *BaseShape) SetBorder(border *Border) { b.border = border }

// TextShape is a shape whose content is a text frame.
type TextShape struct {
	BaseShape
	paragraphs []*Paragraph
	anchor     VerticalAnchor
}

func (t *TextShape) GetType() ShapeType { return ShapeTypeText }

// NewTextShape creates an empty text shape.
func NewTextShape() *TextShape {
	return &TextShape{}
}

// CreateParagraph appends a new paragraph.
func (t *TextShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	t.paragraphs = append(t.paragraphs, p)
	return p
}

// AddParagraph appends an existing paragraph.
func (t *TextShape) AddParagraph(p *Paragraph) *TextShape {
	t.paragraphs = append(t.paragraphs, p)
	return t
}

// CreateTextRun creates a text run in the last paragraph, creating one if needed.
func (t *TextShape) CreateTextRun(text string) *TextRun {
	if len(t.paragraphs) == 0 {
		t.CreateParagraph()
	}
	return t.paragraphs[len(t.paragraphs)-1].CreateTextRun(text)
}

// GetParagraphs returns all paragraphs.
func (t *TextShape) GetParagraphs() []*Paragraph { return t.paragraphs }

// SetAnchor sets the vertical text anchor.
func (t *TextShape) SetAnchor(a VerticalAnchor) *TextShape {
	t.anchor = a
	return t
}

// GetAnchor returns the vertical text anchor.
func (t *TextShape) GetAnchor() VerticalAnchor { return t.anchor }

// HasText reports whether any run carries non-whitespace text.
func (t *TextShape) HasText() bool {
	return paragraphsHaveText(t.paragraphs)
}

func paragraphsHaveText(paragraphs []*Paragraph) bool {
	for _, p := range paragraphs {
		if p == nil {
			continue
		}
		for _, e := range p.elements {
			if tr, ok := e.(*TextRun); ok && strings.TrimSpace(tr.text) != "" {
				return true
			}
		}
	}
	return false
}

// Spacing is a line spacing value, either a multiple of the single line height or absolute points.
type Spacing struct {
	Percent float64 // 1.0 = single spacing; used when Points is zero
	Points  float64
}

// Paragraph represents a text paragraph.
type Paragraph struct {
	elements    []ParagraphElement
	alignment   Alignment
	lineSpacing *Spacing
	spaceBefore float64 // in points
	spaceAfter  float64 // in points
}

// ParagraphElement is the interface for paragraph content.
type ParagraphElement interface {
	GetElementType() string
}

// NewParagraph creates a new paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{}
}

// GetAlignment returns the paragraph alignment.
func (p *Paragraph) GetAlignment() Alignment { return p.alignment }

// SetAlignment sets the paragraph alignment.
func (p *Paragraph) SetAlignment(a Alignment) *Paragraph {
	p.alignment = a
	return p
}

// GetLineSpacing returns the line spacing, or nil when unset.
func (p *Paragraph) GetLineSpacing() *Spacing { return p.lineSpacing }

// SetLineSpacing sets the line spacing.
func (p *Paragraph) SetLineSpacing(s Spacing) *Paragraph {
	p.lineSpacing = &s
	return p
}

// GetSpaceBefore returns the space before the paragraph in points.
func (p *Paragraph) GetSpaceBefore() float64 { return p.spaceBefore }

// SetSpaceBefore sets the space before the paragraph in points.
func (p *Paragraph) SetSpaceBefore(v float64) *Paragraph { p.spaceBefore = v; return p }

// GetSpaceAfter returns the space after the paragraph in points.
func (p *Paragraph) GetSpaceAfter() float64 { return p.spaceAfter }

// SetSpaceAfter sets the space after the paragraph in points.
func (p *Paragraph) SetSpaceAfter(v float64) *Paragraph { p.spaceAfter = v; return p }

// GetElements returns all paragraph elements.
func (p *Paragraph) GetElements() []ParagraphElement { return p.elements }

// CreateTextRun creates a new text run.
func (p *Paragraph) CreateTextRun(text string) *TextRun {
	tr := &TextRun{
		text: text,
		font: NewFont(),
	}
	p.elements = append(p.elements, tr)
	return tr
}

// CreateBreak creates a line break element.
func (p *Paragraph) CreateBreak() *BreakElement {
	br := &BreakElement{}
	p.elements = append(p.elements, br)
	return br
}

// Text returns the concatenated run text; breaks become newlines.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, e := range p.elements {
		switch el := e.(type) {
		case *TextRun:
			sb.WriteString(el.text)
		case *BreakElement:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// TextRun represents a run of text with formatting.
type TextRun struct {
	text string
	font *Font
}

func (tr *TextRun) GetElementType() string { return "textrun" }

// GetText returns the text content.
func (tr *TextRun) GetText() string { return tr.text }

// GetFont returns the font properties.
func (tr *TextRun) GetFont() *Font { return tr.font }

// SetFont sets the font properties.
func (tr *TextRun) SetFont(f *Font) { tr.font = f }

// BreakElement represents a line break.
type BreakElement struct{}

func (br *BreakElement) GetElementType() string { return "break" }

// PictureShape represents an embedded image.
type PictureShape struct {
	BaseShape
	data        []byte
	contentType string
	description string
}

func (d *PictureShape) GetType() ShapeType { return ShapeTypePicture }

// NewPictureShape creates a new picture shape.
func NewPictureShape() *PictureShape {
	return &PictureShape{}
}

// SetImageData sets the raw image data and its declared content type.
func (d *PictureShape) SetImageData(data []byte, contentType string) *PictureShape {
	d.data = data
	d.contentType = contentType
	return d
}

// GetImageData returns the raw image data.
func (d *PictureShape) GetImageData() []byte { return d.data }

// GetContentType returns the declared content type.
func (d *PictureShape) GetContentType() string { return d.contentType }

// SetDescription sets the alternative text.
func (d *PictureShape) SetDescription(s string) *PictureShape {
	d.description = s
	return d
}

// GetDescription returns the alternative text.
func (d *PictureShape) GetDescription() string { return d.description }

// GenericShape is a preset-geometry shape carrying only fill and line (rectangles, ellipses, ...).
type GenericShape struct {
	BaseShape
	geometry     string
	adjustValues map[string]int
}

func (g *GenericShape) GetType() ShapeType { return ShapeTypeGeneric }

// NewGenericShape creates a generic shape with the given preset geometry (e.g. "rect", "roundRect").
func NewGenericShape(geometry string) *GenericShape {
	return &GenericShape{geometry: geometry}
}

// GetGeometry returns the preset geometry name.
func (g *GenericShape) GetGeometry() string { return g.geometry }

// SetAdjustValue sets a geometry adjustment value (e.g. "adj" -> 16667).
func (g *GenericShape) SetAdjustValue(name string, v int) *GenericShape {
	if g.adjustValues == nil {
		g.adjustValues = make(map[string]int)
	}
	g.adjustValues[name] = v
	return g
}

// GetAdjustValues returns the adjustment values map.
func (g *GenericShape) GetAdjustValues() map[string]int { return g.adjustValues }

// TableShape represents a table shape.
type TableShape struct {
	BaseShape
	rows [][]*TableCell
}

func (t *TableShape) GetType() ShapeType { return ShapeTypeTable }

// NewTableShape creates a new table shape with rows x cols empty cells.
func NewTableShape(rows, cols int) *TableShape {
	table := &TableShape{
		rows: make([][]*TableCell, rows),
	}
	for i := 0; i < rows; i++ {
		table.rows[i] = make([]*TableCell, cols)
		for j := 0; j < cols; j++ {
			table.rows[i][j] = NewTableCell()
		}
	}
	return table
}

// GetCell returns a cell at the given row and column.
func (t *TableShape) GetCell(row, col int) *TableCell {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.rows[row]) {
		return nil
	}
	return t.rows[row][col]
}

// AddRow appends a row of cells.
func (t *TableShape) AddRow(cells ...*TableCell) *TableShape {
	t.rows = append(t.rows, cells)
	return t
}

// GetRows returns all rows.
func (t *TableShape) GetRows() [][]*TableCell { return t.rows }

// TableCell represents a table cell.
type TableCell struct {
	paragraphs []*Paragraph
	fill       *Fill
	border     CellBorders
	anchor     VerticalAnchor
}

// CellBorders holds the four independent edges of a table cell. Nil edges are not drawn.
type CellBorders struct {
	Top    *Border
	Right  *Border
	Bottom *Border
	Left   *Border
}

// NewTableCell creates a new empty table cell.
func NewTableCell() *TableCell {
	return &TableCell{}
}

// SetText replaces the cell content with a single run (convenience method).
func (tc *TableCell) SetText(text string) *TextRun {
	p := NewParagraph()
	tc.paragraphs = []*Paragraph{p}
	return p.CreateTextRun(text)
}

// AddParagraph appends a paragraph.
func (tc *TableCell) AddParagraph(p *Paragraph) *TableCell {
	tc.paragraphs = append(tc.paragraphs, p)
	return tc
}

// GetParagraphs returns the cell paragraphs.
func (tc *TableCell) GetParagraphs() []*Paragraph { return tc.paragraphs }

// GetFill returns the cell fill.
func (tc *TableCell) GetFill() *Fill { return tc.fill }

// SetFill sets the cell fill.
func (tc *TableCell) SetFill(f *Fill) *TableCell { tc.fill = f; return tc }

// GetBorders returns the cell borders.
func (tc *TableCell) GetBorders() *CellBorders { return &tc.border }

// GetAnchor returns the vertical anchor.
func (tc *TableCell) GetAnchor() VerticalAnchor { return tc.anchor }

// SetAnchor sets the vertical anchor.
func (tc *TableCell) SetAnchor(a VerticalAnchor) *TableCell { tc.anchor = a; return tc }
