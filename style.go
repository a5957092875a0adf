package pptxhtml

import (
	"errors"
	"fmt"
	"strings"
)

// Color is either a literal RGB color or a reference into the theme's color scheme.
type Color struct {
	RGB    string // 6-character hex string, e.g. "FF0000"
	Scheme string // scheme color name, e.g. "accent1"
}

// Predefined colors.
var (
	ColorBlack = Color{RGB: "000000"}
	ColorWhite = Color{RGB: "FFFFFF"}
	ColorRed   = Color{RGB: "FF0000"}
	ColorGreen = Color{RGB: "00FF00"}
	ColorBlue  = Color{RGB: "0000FF"}
)

var (
	// ErrInvalidColor is returned when a color value is not a valid hex triple.
	ErrInvalidColor = errors.New("invalid color")
	// ErrUnresolvedColor is returned when a scheme color has no entry in the theme.
	ErrUnresolvedColor = errors.New("unresolved scheme color")
)

// NewColor creates a Color from an RGB hex string.
// Accepts 6-char RGB (e.g. "FF0000") or 8-char ARGB (e.g. "FFFF0000"); the alpha byte is dropped.
// A leading "#" is stripped automatically. Invalid input is kept as-is and fails at resolution.
func NewColor(hex string) Color {
	hex = strings.ToUpper(strings.TrimPrefix(hex, "#"))
	if len(hex) == 8 {
		hex = hex[2:]
	}
	return Color{RGB: hex}
}

// NewSchemeColor creates a Color that refers to a theme scheme color.
func NewSchemeColor(name string) Color {
	return Color{Scheme: name}
}

// RGBA is a resolved color with three 0-255 channels.
type RGBA struct {
	R, G, B uint8
}

// CSS returns the color as an rgb() function.
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Resolve returns the RGB channels of the color, looking up scheme colors in theme.
func (c Color) Resolve(theme *Theme) (RGBA, error) {
	if c.Scheme != "" && c.RGB == "" {
		if theme == nil {
			theme = DefaultTheme()
		}
		ref, ok := theme.lookup(c.Scheme)
		if !ok {
			return RGBA{}, fmt.Errorf("%w: %q", ErrUnresolvedColor, c.Scheme)
		}
		if ref.Scheme != "" && ref.RGB == "" {
			// Scheme entries must be literal colors.
			return RGBA{}, fmt.Errorf("%w: %q refers to %q", ErrUnresolvedColor, c.Scheme, ref.Scheme)
		}
		return ref.Resolve(nil)
	}
	if len(c.RGB) != 6 {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, c.RGB)
	}
	var out [3]uint8
	for i := range out {
		h, l := hexVal(c.RGB[i*2]), hexVal(c.RGB[i*2+1])
		if h < 0 || l < 0 {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, c.RGB)
		}
		out[i] = uint8(h<<4 | l)
	}
	return RGBA{R: out[0], G: out[1], B: out[2]}, nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// Font represents text run properties. Zero values mean "not set".
type Font struct {
	Name      string
	Size      float64 // in points
	Bold      bool
	Italic    bool
	Underline bool
	Color     *Color
}

// NewFont creates a new Font with nothing set.
func NewFont() *Font {
	return &Font{}
}

// SetBold sets the bold property and returns the font for chaining.
func (f *Font) SetBold(bold bool) *Font {
	f.Bold = bold
	return f
}

// SetItalic sets the italic property.
func (f *Font) SetItalic(italic bool) *Font {
	f.Italic = italic
	return f
}

// SetUnderline sets the underline property.
func (f *Font) SetUnderline(u bool) *Font {
	f.Underline = u
	return f
}

// SetSize sets the font size in points.
func (f *Font) SetSize(size float64) *Font {
	f.Size = size
	return f
}

// SetColor sets the font color.
func (f *Font) SetColor(color Color) *Font {
	f.Color = &color
	return f
}

// SetName sets the font name.
func (f *Font) SetName(name string) *Font {
	f.Name = name
	return f
}

// Alignment is the horizontal alignment of a paragraph, relative to the writing direction.
type Alignment int

const (
	AlignUnset Alignment = iota
	AlignStart
	AlignCenter
	AlignEnd
	AlignJustify
)

// VerticalAnchor is the vertical placement of text inside a shape or cell.
type VerticalAnchor int

const (
	AnchorUnset VerticalAnchor = iota
	AnchorTop
	AnchorMiddle
	AnchorBottom
)

// FillType represents the type of fill.
type FillType int

const (
	FillNone FillType = iota
	FillSolid
	FillPattern
)

// Fill represents a shape, cell or slide background fill.
type Fill struct {
	Type    FillType
	Color   Color  // solid color, or pattern foreground
	BgColor *Color // pattern background
	Preset  string // pattern preset name (e.g. "dkDnDiag"), informational
}

// NewFill creates a new Fill with no fill.
func NewFill() *Fill {
	return &Fill{Type: FillNone}
}

// NewSolidFill creates a solid fill.
func NewSolidFill(c Color) *Fill {
	return &Fill{Type: FillSolid, Color: c}
}

// NewPatternFill creates a two-color pattern fill.
func NewPatternFill(fg, bg Color, preset string) *Fill {
	return &Fill{Type: FillPattern, Color: fg, BgColor: &bg, Preset: preset}
}

// SetSolid sets a solid fill.
func (f *Fill) SetSolid(color Color) *Fill {
	f.Type = FillSolid
	f.Color = color
	f.BgColor = nil
	return f
}

// SetPattern sets a pattern fill.
func (f *Fill) SetPattern(fg, bg Color, preset string) *Fill {
	f.Type = FillPattern
	f.Color = fg
	f.BgColor = &bg
	f.Preset = preset
	return f
}

// Border represents a line: a shape outline or one table cell edge.
type Border struct {
	Color *Color
	Width int64 // in EMU
}

// NewBorder creates a border with the given color and width in EMU.
func NewBorder(c Color, width int64) *Border {
	return &Border{Color: &c, Width: width}
}
