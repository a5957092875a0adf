package pptxhtml

import "strings"

// Theme holds the color scheme and font scheme a presentation's scheme references resolve against.
type Theme struct {
	Name      string
	Colors    map[string]Color // keyed by scheme name: dk1, lt1, dk2, lt2, accent1..6, hlink, folHlink
	MajorFont string           // latin heading face
	MinorFont string           // latin body face
}

// DefaultTheme returns the stock Office theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "Office Theme",
		Colors: map[string]Color{
			"dk1":      NewColor("000000"),
			"lt1":      NewColor("FFFFFF"),
			"dk2":      NewColor("44546A"),
			"lt2":      NewColor("E7E6E6"),
			"accent1":  NewColor("4472C4"),
			"accent2":  NewColor("ED7D31"),
			"accent3":  NewColor("A5A5A5"),
			"accent4":  NewColor("FFC000"),
			"accent5":  NewColor("5B9BD5"),
			"accent6":  NewColor("70AD47"),
			"hlink":    NewColor("0563C1"),
			"folHlink": NewColor("954F72"),
		},
		MajorFont: "Calibri Light",
		MinorFont: "Calibri",
	}
}

// schemeAliases maps the mapped names used in slide XML to the theme's scheme slots.
var schemeAliases = map[string]string{
	"tx1": "dk1",
	"bg1": "lt1",
	"tx2": "dk2",
	"bg2": "lt2",
}

func (t *Theme) lookup(name string) (Color, bool) {
	if alias, ok := schemeAliases[name]; ok {
		name = alias
	}
	c, ok := t.Colors[name]
	return c, ok
}

// resolveFont maps theme font references (+mj-lt, +mn-ea, ...) to concrete face names.
func (t *Theme) resolveFont(name string) string {
	if !strings.HasPrefix(name, "+") {
		return name
	}
	if t == nil {
		t = DefaultTheme()
	}
	switch {
	case strings.HasPrefix(name, "+mj-"):
		return t.MajorFont
	case strings.HasPrefix(name, "+mn-"):
		return t.MinorFont
	}
	return ""
}
