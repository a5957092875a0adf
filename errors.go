package pptxhtml

import (
	"errors"
	"fmt"
)

var (
	// ErrNilPresentation is returned by Render when there is no presentation to render.
	ErrNilPresentation = errors.New("presentation is nil")
	// ErrNilSlide marks a slide entry that is absent.
	ErrNilSlide = errors.New("slide is nil")
	// ErrNilShape marks a shape entry that is absent.
	ErrNilShape = errors.New("shape is nil")
	// ErrNegativeSize marks a shape whose width or height is negative.
	ErrNegativeSize = errors.New("negative shape size")
	// ErrEmptyImage marks a picture without image data.
	ErrEmptyImage = errors.New("image data is empty")
	// ErrPackageLimit is returned when a package exceeds the read limits.
	ErrPackageLimit = errors.New("package exceeds read limits")
)

// FailureKind classifies a contained rendering failure.
type FailureKind string

const (
	// ShapeRenderFailure: one shape could not be rendered and contributes no markup.
	ShapeRenderFailure FailureKind = "shape"
	// SlideRenderFailure: one slide could not be rendered and is replaced by an error placeholder.
	SlideRenderFailure FailureKind = "slide"
)

// RenderFailure describes a failure that was contained during rendering.
// ShapeIndex is -1 for slide failures.
type RenderFailure struct {
	Kind       FailureKind
	SlideIndex int
	ShapeIndex int
	ElementID  string
	Err        error
}

func (f *RenderFailure) Error() string {
	if f.Kind == SlideRenderFailure {
		return fmt.Sprintf("slide %d: %v", f.SlideIndex+1, f.Err)
	}
	return fmt.Sprintf("slide %d shape %d (%s): %v", f.SlideIndex+1, f.ShapeIndex+1, f.ElementID, f.Err)
}

func (f *RenderFailure) Unwrap() error { return f.Err }

// panicError converts a recovered value into an error.
func panicError(v interface{}) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}
