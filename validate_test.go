package pptxhtml

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	if err := helloDeck().Validate(); err != nil {
		t.Errorf("hello deck should be valid: %v", err)
	}

	p := New()
	s := p.CreateSlide()
	s.SetBackground(NewSolidFill(NewSchemeColor("accent9")))
	s.CreateGenericShape("rect").SetSize(-1, 10)
	s.CreatePictureShape()
	s.AddShape(nil)
	p.AddSlide(nil)

	err := p.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{
		"slide 1: background: ",
		"slide 1: shape 1: negative shape size",
		"slide 1: shape 2: image data is empty",
		"slide 1: shape 3: shape is nil",
		"slide 2: slide is nil",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error missing %q:\n%v", want, err)
		}
	}
	for _, sentinel := range []error{ErrNilSlide, ErrNilShape, ErrNegativeSize, ErrEmptyImage} {
		if !errors.Is(err, sentinel) {
			t.Errorf("validation error does not wrap %v", sentinel)
		}
	}
}

func TestValidatePatternBackground(t *testing.T) {
	p := New()
	g := p.CreateSlide().CreateGenericShape("rect")
	g.SetSize(Inch(1), Inch(1))
	g.SetFill(NewPatternFill(NewColor("FF0000"), NewSchemeColor("accent9"), "dkDnDiag"))

	err := p.Validate()
	if err == nil || !strings.Contains(err.Error(), "slide 1: shape 1: fill background: ") {
		t.Errorf("unresolvable pattern background not reported: %v", err)
	}

	g.SetFill(NewPatternFill(NewColor("FF0000"), NewSchemeColor("accent2"), "dkDnDiag"))
	if err := p.Validate(); err != nil {
		t.Errorf("resolvable pattern fill reported: %v", err)
	}
}
