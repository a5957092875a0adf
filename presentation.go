// Package pptxhtml renders slide-deck presentations into self-contained
// HTML documents with a small client runtime for navigation, theming and
// staged reveal animations, plus an embeddable iframe variant.
//
// A presentation can be built in memory with the model types of this package
// or read from an Office Open XML (.pptx) file with Open and ReadFrom.
package pptxhtml

import (
	"errors"
	"strings"
)

// Presentation represents an in-memory slide deck.
type Presentation struct {
	properties *DocumentProperties
	slides     []*Slide
	layout     *DocumentLayout
	theme      *Theme
}

// New creates an empty Presentation with a 4:3 layout and the default theme.
func New() *Presentation {
	return &Presentation{
		properties: &DocumentProperties{},
		slides:     make([]*Slide, 0),
		layout:     NewDocumentLayout(),
		theme:      DefaultTheme(),
	}
}

// GetDocumentProperties returns the document properties.
func (p *Presentation) GetDocumentProperties() *DocumentProperties {
	return p.properties
}

// SetDocumentProperties sets the document properties.
func (p *Presentation) SetDocumentProperties(props *DocumentProperties) {
	p.properties = props
}

// GetLayout returns the document layout.
func (p *Presentation) GetLayout() *DocumentLayout {
	return p.layout
}

// SetLayout sets the document layout.
func (p *Presentation) SetLayout(layout *DocumentLayout) {
	p.layout = layout
}

// GetTheme returns the presentation theme.
func (p *Presentation) GetTheme() *Theme {
	return p.theme
}

// SetTheme sets the presentation theme.
func (p *Presentation) SetTheme(t *Theme) {
	p.theme = t
}

// CreateSlide creates a new slide and adds it to the presentation.
func (p *Presentation) CreateSlide() *Slide {
	slide := NewSlide()
	p.slides = append(p.slides, slide)
	return slide
}

// AddSlide adds an existing slide to the presentation.
func (p *Presentation) AddSlide(slide *Slide) *Slide {
	p.slides = append(p.slides, slide)
	return slide
}

// GetSlide returns a slide by index.
func (p *Presentation) GetSlide(index int) (*Slide, error) {
	if index < 0 || index >= len(p.slides) {
		return nil, errors.New("slide index out of range")
	}
	return p.slides[index], nil
}

// GetAllSlides returns all slides.
func (p *Presentation) GetAllSlides() []*Slide {
	return p.slides
}

// GetSlideCount returns the number of slides.
func (p *Presentation) GetSlideCount() int {
	return len(p.slides)
}

// DocumentProperties holds the document metadata used by the renderer.
type DocumentProperties struct {
	Title   string
	Creator string
	Subject string
}

// DocumentLayout represents the slide dimensions.
type DocumentLayout struct {
	CX   int64 // width in EMU (English Metric Units)
	CY   int64 // height in EMU
	Name string
}

// Standard layout names.
const (
	LayoutScreen4x3   = "screen4x3"
	LayoutScreen16x9  = "screen16x9"
	LayoutScreen16x10 = "screen16x10"
	LayoutA4          = "A4"
	LayoutCustom      = "custom"
)

// NewDocumentLayout creates a default 4:3 layout.
func NewDocumentLayout() *DocumentLayout {
	return &DocumentLayout{
		CX:   9144000, // 10 inches
		CY:   6858000, // 7.5 inches
		Name: LayoutScreen4x3,
	}
}

// SetLayout sets a predefined layout.
func (dl *DocumentLayout) SetLayout(name string) {
	dl.Name = name
	switch name {
	case LayoutScreen4x3:
		dl.CX = 9144000
		dl.CY = 6858000
	case LayoutScreen16x9:
		dl.CX = 12192000
		dl.CY = 6858000
	case LayoutScreen16x10:
		dl.CX = 10972800
		dl.CY = 6858000
	case LayoutA4:
		dl.CX = 9906000
		dl.CY = 6858000
	}
}

// SetCustomLayout sets custom dimensions in EMU. Non-positive values fall back to 4:3.
func (dl *DocumentLayout) SetCustomLayout(cx, cy int64) {
	if cx <= 0 {
		cx = 9144000
	}
	if cy <= 0 {
		cy = 6858000
	}
	dl.CX = cx
	dl.CY = cy
	dl.Name = LayoutCustom
}

// Slide is one page of the deck: a background and shapes in z-order.
type Slide struct {
	name       string
	shapes     []Shape
	background *Fill
}

// NewSlide creates an empty slide.
func NewSlide() *Slide {
	return &Slide{shapes: make([]Shape, 0)}
}

// GetName returns the slide name.
func (s *Slide) GetName() string { return s.name }

// SetName sets the slide name.
func (s *Slide) SetName(name string) *Slide {
	s.name = name
	return s
}

// GetBackground returns the slide background, or nil when unset.
func (s *Slide) GetBackground() *Fill { return s.background }

// SetBackground sets the slide background fill.
func (s *Slide) SetBackground(f *Fill) *Slide {
	s.background = f
	return s
}

// GetShapes returns the shapes in z-order.
func (s *Slide) GetShapes() []Shape { return s.shapes }

// AddShape appends a shape on top of the existing ones.
func (s *Slide) AddShape(shape Shape) *Slide {
	s.shapes = append(s.shapes, shape)
	return s
}

// CreateTextShape creates a text shape and adds it to the slide.
func (s *Slide) CreateTextShape() *TextShape {
	t := NewTextShape()
	s.shapes = append(s.shapes, t)
	return t
}

// CreatePictureShape creates a picture shape and adds it to the slide.
func (s *Slide) CreatePictureShape() *PictureShape {
	pic := NewPictureShape()
	s.shapes = append(s.shapes, pic)
	return pic
}

// CreateTableShape creates a table shape and adds it to the slide.
func (s *Slide) CreateTableShape(rows, cols int) *TableShape {
	t := NewTableShape(rows, cols)
	s.shapes = append(s.shapes, t)
	return t
}

// CreateGenericShape creates a preset-geometry shape and adds it to the slide.
func (s *Slide) CreateGenericShape(geometry string) *GenericShape {
	g := NewGenericShape(geometry)
	s.shapes = append(s.shapes, g)
	return g
}

// ExtractText returns the slide text, one line per paragraph, in shape order.
func (s *Slide) ExtractText() string {
	var lines []string
	add := func(paragraphs []*Paragraph) {
		for _, p := range paragraphs {
			if p == nil {
				continue
			}
			if t := strings.TrimSpace(p.Text()); t != "" {
				lines = append(lines, t)
			}
		}
	}
	for _, shape := range s.shapes {
		switch sh := shape.(type) {
		case *TextShape:
			if sh != nil {
				add(sh.paragraphs)
			}
		case *TableShape:
			if sh == nil {
				continue
			}
			for _, row := range sh.rows {
				for _, cell := range row {
					if cell != nil {
						add(cell.paragraphs)
					}
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}
