package pptxhtml

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Profile selects the document template and control set.
type Profile string

const (
	// ProfileRich emits navigation, theme toggle, font scale, fullscreen, thumbnails and export controls.
	ProfileRich Profile = "rich"
	// ProfileSimple emits slides with previous/next buttons and the slide counter only.
	ProfileSimple Profile = "simple"
)

// Direction is the base writing direction of the document.
type Direction string

const (
	DirectionAuto Direction = "auto"
	DirectionLTR  Direction = "ltr"
	DirectionRTL  Direction = "rtl"
)

// RenderOptions configures HTML rendering.
type RenderOptions struct {
	// Profile selects the output template. Default: ProfileRich.
	Profile Profile
	// Direction is the base writing direction. Default: DirectionAuto, which
	// picks the direction of the first strongly directional character in the deck.
	Direction Direction
	// Language is a BCP 47 tag for the html lang attribute. Default: "en".
	Language string
	// Title overrides the document title. Empty means the document properties title.
	Title string
	// TextAlignDefaults is the text-align used for paragraphs without an
	// explicit alignment, per resolved direction. Default: "start" for both.
	TextAlignDefaults map[Direction]string
	// MaxImageDimension downsizes raster images whose width or height exceeds it. 0 disables.
	MaxImageDimension int
	// Workers is the number of slides rendered concurrently. Values below 2 render sequentially.
	Workers int
	// StorageNamespace prefixes the client runtime's localStorage keys. Default:
	// "pptxhtml:" plus a hash of the deck title and slides, so each deck keeps
	// its own position, theme and font scale.
	StorageNamespace string
	// Logger receives contained failures. Default: the logrus standard logger.
	Logger logrus.FieldLogger
}

// DefaultRenderOptions returns default rendering options.
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Profile:   ProfileRich,
		Direction: DirectionAuto,
		Language:  "en",
		TextAlignDefaults: map[Direction]string{
			DirectionLTR: defaultTextAlign,
			DirectionRTL: defaultTextAlign,
		},
		Logger:           logrus.StandardLogger(),
	}
}

// withDefaults returns a copy of opts with zero values replaced by defaults.
func (opts *RenderOptions) withDefaults() *RenderOptions {
	d := DefaultRenderOptions()
	if opts == nil {
		return d
	}
	o := *opts
	if o.Profile != ProfileSimple {
		o.Profile = ProfileRich
	}
	if o.Direction != DirectionLTR && o.Direction != DirectionRTL {
		o.Direction = DirectionAuto
	}
	if o.Language == "" {
		o.Language = d.Language
	}
	if o.TextAlignDefaults == nil {
		o.TextAlignDefaults = d.TextAlignDefaults
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	if o.MaxImageDimension < 0 {
		o.MaxImageDimension = 0
	}
	return &o
}

// RenderResult is the outcome of a render: the document text plus the
// failures that were contained while producing it.
type RenderResult struct {
	HTML       string
	Title      string
	SlideCount int
	Direction  Direction
	Failures   []*RenderFailure
	// Slides holds the per-slide fragments in slide order.
	Slides []*RenderedSlide
}

// renderer holds the per-render state shared read-only by all slides.
type renderer struct {
	opts      *RenderOptions
	styles    *styleResolver
	log       logrus.FieldLogger
	direction Direction
}

// Render converts the presentation into a standalone HTML document. Shape and
// slide failures are contained and reported in the result; only a missing
// presentation or a template failure returns an error.
func Render(p *Presentation, opts *RenderOptions) (*RenderResult, error) {
	if p == nil {
		return nil, fmt.Errorf("render: %w", ErrNilPresentation)
	}
	opts = opts.withDefaults()

	dir := opts.Direction
	if dir == DirectionAuto {
		dir = detectDirection(p)
	}
	r := &renderer{
		opts:      opts,
		styles:    newStyleResolver(p.theme, opts.Logger, opts.TextAlignDefaults[dir]),
		log:       opts.Logger,
		direction: dir,
	}

	slides := r.renderSlides(p.slides)

	var failures []*RenderFailure
	for _, s := range slides {
		for _, f := range s.Failures {
			r.log.WithFields(logrus.Fields{
				"kind":    f.Kind,
				"slide":   f.SlideIndex,
				"shape":   f.ShapeIndex,
				"element": f.ElementID,
			}).WithError(f.Err).Warn("render failure contained")
		}
		failures = append(failures, s.Failures...)
	}

	doc, err := r.assembleDocument(p, slides)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return &RenderResult{
		HTML:       doc,
		Title:      r.documentTitle(p),
		SlideCount: len(p.slides),
		Direction:  dir,
		Failures:   failures,
		Slides:     slides,
	}, nil
}

// renderSlides renders every slide, on a bounded pool when Workers > 1.
// Results are index-addressed so output order matches slide order.
func (r *renderer) renderSlides(slides []*Slide) []*RenderedSlide {
	out := make([]*RenderedSlide, len(slides))
	if r.opts.Workers < 2 || len(slides) < 2 {
		for i, s := range slides {
			out[i] = r.renderSlide(i, s)
		}
		return out
	}
	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for i, s := range slides {
		i, s := i, s
		g.Go(func() error {
			out[i] = r.renderSlide(i, s)
			return nil
		})
	}
	_ = g.Wait() // renderSlide contains its own failures
	return out
}

// ToHTML renders the presentation with the given options.
func (p *Presentation) ToHTML(opts *RenderOptions) (*RenderResult, error) {
	return Render(p, opts)
}

// SaveAsHTML renders the presentation and writes the document to path.
func (p *Presentation) SaveAsHTML(path string, opts *RenderOptions) (*RenderResult, error) {
	res, err := Render(p, opts)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(res.HTML), 0o644); err != nil {
		return nil, fmt.Errorf("write html: %w", err)
	}
	return res, nil
}

// elementID returns the DOM id of a shape.
func elementID(slideIndex, shapeIndex int) string {
	return fmt.Sprintf("slide-%d-shape-%d", slideIndex, shapeIndex)
}

// joinStyle joins a declaration list and an optional trailing snippet.
func joinStyle(decls []string, extra string) string {
	s := css(decls)
	if extra == "" {
		return s
	}
	if s == "" {
		return extra
	}
	return s + " " + strings.TrimSpace(extra)
}
