package pptxhtml

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// excerptLength bounds the slide text shown in thumbnails.
const excerptLength = 80

// RenderedSlide is the markup of one slide plus the data the document
// assembler needs about it.
type RenderedSlide struct {
	Index      int
	HTML       string
	Background string // inline style of the slide container
	Schedule   Schedule
	Excerpt    string
	Failures   []*RenderFailure
}

// renderSlide renders one slide. A slide-level failure yields the error
// placeholder and a SlideRenderFailure; shape failures are contained inside.
func (r *renderer) renderSlide(index int, s *Slide) (out *RenderedSlide) {
	defer func() {
		if rec := recover(); rec != nil {
			out = r.slideError(index, panicError(rec))
		}
	}()
	if s == nil {
		return r.slideError(index, ErrNilSlide)
	}

	out = &RenderedSlide{
		Index:      index,
		Background: css(r.styles.fillOr(s.background, defaultSlideFill)),
		Excerpt:    excerpt(s.ExtractText()),
	}

	var body strings.Builder
	for j, shape := range s.shapes {
		id := elementID(index, j)
		anim := newAnimationEntry(id, j)
		out.Schedule = append(out.Schedule, anim)
		frag, err := r.renderShape(id, shape, anim)
		if err != nil {
			out.Failures = append(out.Failures, &RenderFailure{
				Kind:       ShapeRenderFailure,
				SlideIndex: index,
				ShapeIndex: j,
				ElementID:  id,
				Err:        err,
			})
			continue
		}
		body.WriteString(frag)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<section class="%s" id="slide-%d" data-index="%d" data-animations="%s" style="%s">`,
		slideClass(index, false), index, index,
		html.EscapeString(out.Schedule.JSON()), html.EscapeString(out.Background))
	sb.WriteString("\n")
	sb.WriteString(body.String())
	sb.WriteString("</section>\n")
	out.HTML = sb.String()
	return out
}

// slideError returns the visible placeholder for a slide that could not be rendered.
func (r *renderer) slideError(index int, err error) *RenderedSlide {
	background := css([]string{"background-color: " + defaultSlideFill})
	return &RenderedSlide{
		Index:      index,
		Background: background,
		HTML: fmt.Sprintf(`<section class="%s" id="slide-%d" data-index="%d" data-animations="[]" style="%s">`+
			"\n"+`<div class="slide-error-message">Error rendering slide %d</div>`+"\n</section>\n",
			slideClass(index, true), index, index, html.EscapeString(background), index+1),
		Failures: []*RenderFailure{{
			Kind:       SlideRenderFailure,
			SlideIndex: index,
			ShapeIndex: -1,
			ElementID:  fmt.Sprintf("slide-%d", index),
			Err:        err,
		}},
	}
}

func slideClass(index int, failed bool) string {
	c := "slide"
	if failed {
		c += " slide-error"
	}
	if index == 0 {
		c += " active"
	}
	return c
}

// excerpt returns the first line of the slide text, shortened for thumbnails.
func excerpt(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	if len(runes) > excerptLength {
		return strings.TrimSpace(string(runes[:excerptLength])) + "…"
	}
	return text
}
