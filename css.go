package pptxhtml

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Context defaults for fills that are absent or cannot be resolved.
const (
	defaultGenericFill    = "transparent"
	defaultSlideFill      = "white"
	defaultPatternBgColor = "rgb(255, 255, 255)"
	defaultTextAlign      = "start"
	defaultCellAnchor     = "center"
	patternTileSize       = "10px 10px"
)

var alignmentCSS = map[Alignment]string{
	AlignStart:   "start",
	AlignCenter:  "center",
	AlignEnd:     "end",
	AlignJustify: "justify",
}

var anchorCSS = map[VerticalAnchor]string{
	AnchorTop:    "flex-start",
	AnchorMiddle: "center",
	AnchorBottom: "flex-end",
}

// styleResolver maps model attributes to CSS declarations. Attributes that
// cannot be read are left out and logged at debug level.
type styleResolver struct {
	theme        *Theme
	log          logrus.FieldLogger
	alignDefault string
}

func newStyleResolver(theme *Theme, log logrus.FieldLogger, alignDefault string) *styleResolver {
	if theme == nil {
		theme = DefaultTheme()
	}
	if alignDefault == "" {
		alignDefault = defaultTextAlign
	}
	return &styleResolver{theme: theme, log: log, alignDefault: alignDefault}
}

// css joins declarations into an inline style value.
func css(decls []string) string {
	if len(decls) == 0 {
		return ""
	}
	return strings.Join(decls, "; ") + ";"
}

func (r *styleResolver) color(c *Color, attr string) (string, bool) {
	if c == nil {
		return "", false
	}
	rgb, err := c.Resolve(r.theme)
	if err != nil {
		r.log.WithError(err).WithField("attribute", attr).Debug("attribute omitted")
		return "", false
	}
	return rgb.CSS(), true
}

// box returns the absolute positioning declarations for a shape.
func box(b *BaseShape) []string {
	return []string{
		"position: absolute",
		"left: " + formatPx(EMUToPixels(b.offsetX)),
		"top: " + formatPx(EMUToPixels(b.offsetY)),
		"width: " + formatPx(EMUToPixels(b.width)),
		"height: " + formatPx(EMUToPixels(b.height)),
	}
}

func (r *styleResolver) paragraph(p *Paragraph) string {
	align, ok := alignmentCSS[p.alignment]
	if !ok {
		align = r.alignDefault
	}
	decls := []string{"margin: 0", "text-align: " + align}
	if ls := p.lineSpacing; ls != nil {
		switch {
		case ls.Points > 0:
			decls = append(decls, "line-height: "+formatNum(ls.Points)+"pt")
		case ls.Percent > 0:
			decls = append(decls, "line-height: "+formatNum(ls.Percent))
		}
	}
	if p.spaceBefore > 0 {
		decls = append(decls, "margin-top: "+formatNum(p.spaceBefore)+"pt")
	}
	if p.spaceAfter > 0 {
		decls = append(decls, "margin-bottom: "+formatNum(p.spaceAfter)+"pt")
	}
	return css(decls)
}

func (r *styleResolver) run(f *Font) string {
	if f == nil {
		return ""
	}
	var decls []string
	if f.Name != "" {
		if name := r.theme.resolveFont(f.Name); name != "" {
			decls = append(decls, "font-family: '"+strings.ReplaceAll(name, "'", "")+"'")
		}
	}
	if f.Size > 0 {
		decls = append(decls, "font-size: "+formatNum(f.Size)+"pt")
	}
	if c, ok := r.color(f.Color, "font color"); ok {
		decls = append(decls, "color: "+c)
	}
	if f.Bold {
		decls = append(decls, "font-weight: bold")
	}
	if f.Italic {
		decls = append(decls, "font-style: italic")
	}
	if f.Underline {
		decls = append(decls, "text-decoration: underline")
	}
	return css(decls)
}

// fill returns the declarations of an explicit solid or pattern fill, or
// false when the fill is absent, none, or unreadable.
func (r *styleResolver) fill(f *Fill) ([]string, bool) {
	if f == nil {
		return nil, false
	}
	switch f.Type {
	case FillSolid:
		if c, ok := r.color(&f.Color, "fill color"); ok {
			return []string{"background-color: " + c}, true
		}
	case FillPattern:
		fg, ok := r.color(&f.Color, "pattern foreground")
		if !ok {
			return nil, false
		}
		bg, ok := r.color(f.BgColor, "pattern background")
		if !ok {
			bg = defaultPatternBgColor
		}
		return []string{
			"background-color: " + bg,
			"background-image: " + patternGradient(fg),
			"background-size: " + patternTileSize,
		}, true
	}
	return nil, false
}

// fillOr resolves a fill, falling back to the context default color.
func (r *styleResolver) fillOr(f *Fill, def string) []string {
	if decls, ok := r.fill(f); ok {
		return decls
	}
	return []string{"background-color: " + def}
}

func patternGradient(fg string) string {
	return "linear-gradient(45deg, " + fg + " 25%, transparent 25%, transparent 50%, " +
		fg + " 50%, " + fg + " 75%, transparent 75%, transparent)"
}

// borderValue returns "<w>px solid <color>" when both color and a positive width are readable.
func (r *styleResolver) borderValue(b *Border) (string, bool) {
	if b == nil || b.Width <= 0 {
		return "", false
	}
	c, ok := r.color(b.Color, "line color")
	if !ok {
		return "", false
	}
	return formatPx(EMUToPixels(b.Width)) + " solid " + c, true
}

func (r *styleResolver) border(b *Border) string {
	if v, ok := r.borderValue(b); ok {
		return "border: " + v
	}
	return "border: none"
}

func (r *styleResolver) cell(c *TableCell) string {
	decls, _ := r.fill(c.fill)
	edges := []struct {
		name string
		b    *Border
	}{
		{"border-top", c.border.Top},
		{"border-right", c.border.Right},
		{"border-bottom", c.border.Bottom},
		{"border-left", c.border.Left},
	}
	for _, e := range edges {
		if v, ok := r.borderValue(e.b); ok {
			decls = append(decls, e.name+": "+v)
		}
	}
	return css(decls)
}

func anchorValue(a VerticalAnchor) string {
	if v, ok := anchorCSS[a]; ok {
		return v
	}
	return defaultCellAnchor
}
