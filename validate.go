package pptxhtml

import (
	"errors"
	"fmt"
)

// Validate reports structural problems in the model as one joined error, or
// nil. Each problem is prefixed with its 1-based location and wraps the
// matching sentinel (ErrNilSlide, ErrNilShape, ErrNegativeSize, ErrEmptyImage)
// where one exists.
//
// Rendering never requires a valid presentation: the same problems become
// contained failures or omitted declarations there.
func (p *Presentation) Validate() error {
	v := &validator{theme: p.theme}
	if p.layout == nil || p.layout.CX <= 0 || p.layout.CY <= 0 {
		v.add("layout", errors.New("slide size must be positive"))
	}
	for i, s := range p.slides {
		v.slide(fmt.Sprintf("slide %d", i+1), s)
	}
	return errors.Join(v.problems...)
}

type validator struct {
	theme    *Theme
	problems []error
}

func (v *validator) add(where string, err error) {
	v.problems = append(v.problems, fmt.Errorf("%s: %w", where, err))
}

func (v *validator) slide(where string, s *Slide) {
	if s == nil {
		v.add(where, ErrNilSlide)
		return
	}
	v.fill(where+": background", s.background)
	for j, shape := range s.shapes {
		v.shape(fmt.Sprintf("%s: shape %d", where, j+1), shape)
	}
}

func (v *validator) shape(where string, shape Shape) {
	if shape == nil {
		v.add(where, ErrNilShape)
		return
	}
	if shape.GetWidth() < 0 || shape.GetHeight() < 0 {
		v.add(where, ErrNegativeSize)
	}
	v.fill(where+": fill", shape.base().fill)

	switch sh := shape.(type) {
	case *PictureShape:
		if len(sh.data) == 0 {
			v.add(where, ErrEmptyImage)
		}
	case *TextShape:
		v.paragraphs(where, sh.paragraphs)
	case *TableShape:
		if len(sh.rows) == 0 {
			v.add(where, errors.New("table has no rows"))
		}
		for r, row := range sh.rows {
			for c, cell := range row {
				cellAt := fmt.Sprintf("%s: cell (%d,%d)", where, r+1, c+1)
				if cell == nil {
					v.add(cellAt, errors.New("cell is nil"))
					continue
				}
				v.paragraphs(cellAt, cell.paragraphs)
			}
		}
	}
}

// fill checks that solid and pattern colors resolve against the theme.
func (v *validator) fill(where string, f *Fill) {
	if f == nil || (f.Type != FillSolid && f.Type != FillPattern) {
		return
	}
	if _, err := f.Color.Resolve(v.theme); err != nil {
		v.add(where, err)
	}
	if f.Type == FillPattern && f.BgColor != nil {
		if _, err := f.BgColor.Resolve(v.theme); err != nil {
			v.add(where+" background", err)
		}
	}
}

func (v *validator) paragraphs(where string, paragraphs []*Paragraph) {
	for i, para := range paragraphs {
		at := fmt.Sprintf("%s: paragraph %d", where, i+1)
		if para == nil {
			v.add(at, errors.New("paragraph is nil"))
			continue
		}
		for k, elem := range para.elements {
			switch e := elem.(type) {
			case nil:
				v.add(fmt.Sprintf("%s element %d", at, k+1), errors.New("element is nil"))
			case *TextRun:
				if e.font == nil {
					v.add(fmt.Sprintf("%s run %d", at, k+1), errors.New("run has no font"))
				}
			}
		}
	}
}
