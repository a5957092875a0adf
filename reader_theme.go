package pptxhtml

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// xmlColorScheme keeps every a:clrScheme child keyed by its element name.
type xmlColorScheme struct {
	Name   string
	Colors map[string]xmlColorChoice
}

func (s *xmlColorScheme) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "name" {
			s.Name = a.Value
		}
	}
	s.Colors = make(map[string]xmlColorChoice)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			var c xmlColorChoice
			if err := d.DecodeElement(&c, &el); err != nil {
				return err
			}
			s.Colors[el.Name.Local] = c
		case xml.EndElement:
			return nil
		}
	}
}

type xmlTheme struct {
	Name          string `xml:"name,attr"`
	ThemeElements struct {
		ClrScheme  xmlColorScheme `xml:"clrScheme"`
		FontScheme struct {
			MajorFont struct {
				Latin xmlLatin `xml:"latin"`
			} `xml:"majorFont"`
			MinorFont struct {
				Latin xmlLatin `xml:"latin"`
			} `xml:"minorFont"`
		} `xml:"fontScheme"`
	} `xml:"themeElements"`
}

// readTheme parses a theme part. Scheme slots or fonts the part leaves out
// keep their DefaultTheme values.
func (pkg *pptxPackage) readTheme(path string) (*Theme, error) {
	data, err := pkg.readFile(path)
	if err != nil {
		return nil, err
	}
	var doc xmlTheme
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse theme %s: %w", path, err)
	}

	theme := DefaultTheme()
	if doc.Name != "" {
		theme.Name = doc.Name
	}
	for slot, choice := range doc.ThemeElements.ClrScheme.Colors {
		c, ok := colorFromChoice(&choice)
		if !ok || c.RGB == "" {
			continue
		}
		theme.Colors[slot] = c
	}
	if face := strings.TrimSpace(doc.ThemeElements.FontScheme.MajorFont.Latin.Typeface); face != "" {
		theme.MajorFont = face
	}
	if face := strings.TrimSpace(doc.ThemeElements.FontScheme.MinorFont.Latin.Typeface); face != "" {
		theme.MinorFont = face
	}
	return theme, nil
}

// presetColors covers the a:prstClr names seen in practice.
var presetColors = map[string]string{
	"black":  "000000",
	"white":  "FFFFFF",
	"red":    "FF0000",
	"green":  "008000",
	"blue":   "0000FF",
	"yellow": "FFFF00",
	"gray":   "808080",
	"orange": "FFA500",
}

// colorFromChoice converts a color element. Modifiers such as lumMod are ignored.
func colorFromChoice(c *xmlColorChoice) (Color, bool) {
	if c == nil {
		return Color{}, false
	}
	switch {
	case c.SrgbClr != nil:
		return NewColor(c.SrgbClr.Val), true
	case c.SchemeClr != nil:
		return NewSchemeColor(c.SchemeClr.Val), true
	case c.SysClr != nil:
		if c.SysClr.LastClr != "" {
			return NewColor(c.SysClr.LastClr), true
		}
		switch c.SysClr.Val {
		case "windowText":
			return NewColor("000000"), true
		case "window":
			return NewColor("FFFFFF"), true
		}
	case c.PrstClr != nil:
		if rgb, ok := presetColors[c.PrstClr.Val]; ok {
			return NewColor(rgb), true
		}
	}
	return Color{}, false
}
