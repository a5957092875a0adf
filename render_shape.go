package pptxhtml

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/net/html"
)

// Rounded-rectangle presets and the default adjustment applied when the shape carries none.
// flowChartAlternateProcess has no adjustment handle; its corners are fixed at the roundRect default.
var roundedPresets = map[string]int{
	"roundRect":                 16667,
	"round1Rect":                16667,
	"round2SameRect":            16667,
	"round2DiagRect":            16667,
	"flowChartAlternateProcess": 16667,
}

// renderShape renders one shape into at most one top-level fragment. Panics
// are converted into errors so a bad shape never aborts its slide.
func (r *renderer) renderShape(id string, s Shape, anim AnimationEntry) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = "", panicError(rec)
		}
	}()
	if s == nil {
		return "", ErrNilShape
	}
	if s.GetWidth() < 0 || s.GetHeight() < 0 {
		return "", fmt.Errorf("%w: %dx%d", ErrNegativeSize, s.GetWidth(), s.GetHeight())
	}

	var sb strings.Builder
	switch sh := s.(type) {
	case *TextShape:
		if sh.HasText() {
			r.writeTextShape(&sb, id, sh, anim)
			break
		}
		if sh.fill == nil && sh.border == nil {
			return "", nil
		}
		r.writeGenericBox(&sb, id, &sh.BaseShape, "", nil, anim)
	case *PictureShape:
		if err := r.writePicture(&sb, id, sh, anim); err != nil {
			return "", err
		}
	case *TableShape:
		r.writeTable(&sb, id, sh, anim)
	case *GenericShape:
		r.writeGenericBox(&sb, id, &sh.BaseShape, sh.geometry, sh.adjustValues, anim)
	default:
		return "", fmt.Errorf("unsupported shape type %T", s)
	}
	return sb.String(), nil
}

func (r *renderer) writeTextShape(sb *strings.Builder, id string, t *TextShape, anim AnimationEntry) {
	decls := box(&t.BaseShape)
	if fill, ok := r.styles.fill(t.fill); ok {
		decls = append(decls, fill...)
	}
	if t.border != nil {
		decls = append(decls, r.styles.border(t.border))
	}
	if t.anchor != AnchorUnset {
		decls = append(decls, "justify-content: "+anchorValue(t.anchor))
	}
	writeOpenTag(sb, "div", "text-box shape", id, joinStyle(decls, anim.Style()))
	r.writeParagraphs(sb, t.paragraphs)
	sb.WriteString("</div>\n")
}

// writeParagraphs renders paragraphs as <p> blocks with one span per run.
func (r *renderer) writeParagraphs(sb *strings.Builder, paragraphs []*Paragraph) {
	for _, p := range paragraphs {
		if p == nil {
			continue
		}
		sb.WriteString(`<p style="`)
		sb.WriteString(html.EscapeString(r.styles.paragraph(p)))
		sb.WriteString(`">`)
		if len(p.elements) == 0 {
			sb.WriteString("<br>")
		}
		for _, e := range p.elements {
			switch el := e.(type) {
			case *TextRun:
				sb.WriteString(`<span class="run"`)
				if style := r.styles.run(el.font); style != "" {
					sb.WriteString(` style="`)
					sb.WriteString(html.EscapeString(style))
					sb.WriteString(`"`)
				}
				sb.WriteString(">")
				sb.WriteString(html.EscapeString(el.text))
				sb.WriteString("</span>")
			case *BreakElement:
				sb.WriteString("<br>")
			}
		}
		sb.WriteString("</p>\n")
	}
}

// writeGenericBox renders a positioned block with fill, border and corner radius.
func (r *renderer) writeGenericBox(sb *strings.Builder, id string, b *BaseShape, geometry string, adjust map[string]int, anim AnimationEntry) {
	decls := box(b)
	decls = append(decls, r.styles.fillOr(b.fill, defaultGenericFill)...)
	decls = append(decls, r.styles.border(b.border))
	decls = append(decls, "border-radius: "+formatPx(cornerRadius(b, geometry, adjust)))
	writeOpenTag(sb, "div", "generic-shape shape", id, joinStyle(decls, anim.Style()))
	sb.WriteString("</div>\n")
}

// cornerRadius returns min(width, height) * adj / 100000 in pixels for rounded
// rectangles, and 0 for every other geometry.
func cornerRadius(b *BaseShape, geometry string, adjust map[string]int) float64 {
	def, ok := roundedPresets[geometry]
	if !ok {
		return 0
	}
	adj := def
	if v, ok := adjust["adj"]; ok {
		adj = v
	} else if v, ok := adjust["adj1"]; ok {
		adj = v
	}
	if adj <= 0 {
		return 0
	}
	side := math.Min(EMUToPixels(b.width), EMUToPixels(b.height))
	return side * float64(adj) / 100000
}

func writeOpenTag(sb *strings.Builder, tag, class, id, style string) {
	sb.WriteString("<")
	sb.WriteString(tag)
	sb.WriteString(` class="`)
	sb.WriteString(class)
	sb.WriteString(`" id="`)
	sb.WriteString(html.EscapeString(id))
	sb.WriteString(`" style="`)
	sb.WriteString(html.EscapeString(style))
	sb.WriteString(`">`)
	sb.WriteString("\n")
}
