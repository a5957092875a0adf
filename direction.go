package pptxhtml

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// detectDirection returns the direction of the first strongly directional
// character in the deck's text, or LTR when there is none.
func detectDirection(p *Presentation) Direction {
	for _, s := range p.slides {
		if s == nil {
			continue
		}
		if d, ok := textDirection(s.ExtractText()); ok {
			return d
		}
	}
	return DirectionLTR
}

func textDirection(text string) (Direction, bool) {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return DirectionLTR, true
		case bidi.R, bidi.AL:
			return DirectionRTL, true
		}
	}
	return "", false
}

// normalizeLanguage canonicalizes a BCP 47 tag; invalid tags become "und".
func normalizeLanguage(tag string) string {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return language.Und.String()
	}
	return t.String()
}
