package pptxhtml

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testResolver() *styleResolver {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return newStyleResolver(DefaultTheme(), log, "")
}

func TestColorResolve(t *testing.T) {
	theme := DefaultTheme()
	tests := []struct {
		c    Color
		want string
	}{
		{NewColor("FF0000"), "rgb(255, 0, 0)"},
		{NewColor("4472c4"), "rgb(68, 114, 196)"},
		{NewSchemeColor("accent1"), "rgb(68, 114, 196)"},
		{NewSchemeColor("tx1"), "rgb(0, 0, 0)"},
		{NewSchemeColor("bg1"), "rgb(255, 255, 255)"},
	}
	for _, tt := range tests {
		rgb, err := tt.c.Resolve(theme)
		if err != nil {
			t.Errorf("Resolve(%+v) failed: %v", tt.c, err)
			continue
		}
		if rgb.CSS() != tt.want {
			t.Errorf("Resolve(%+v) = %s, want %s", tt.c, rgb.CSS(), tt.want)
		}
	}

	if _, err := NewColor("XYZ").Resolve(theme); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
	if _, err := NewSchemeColor("accent9").Resolve(theme); !errors.Is(err, ErrUnresolvedColor) {
		t.Errorf("expected ErrUnresolvedColor, got %v", err)
	}
	if _, err := NewSchemeColor("accent2").Resolve(nil); err != nil {
		t.Errorf("nil theme should fall back to the default theme: %v", err)
	}
}

func TestRunStyleOmissionLaw(t *testing.T) {
	r := testResolver()

	plain := r.run(NewFont().SetSize(18))
	if strings.Contains(plain, "color:") {
		t.Errorf("run without color must not emit color: %q", plain)
	}
	if plain != "font-size: 18pt;" {
		t.Errorf("unexpected style %q", plain)
	}

	bold := r.run(NewFont().SetBold(true).SetColor(NewColor("00FF00")))
	if strings.Count(bold, "font-weight: bold") != 1 {
		t.Errorf("expected font-weight: bold exactly once in %q", bold)
	}
	if !strings.Contains(bold, "color: rgb(0, 255, 0)") {
		t.Errorf("expected resolved color in %q", bold)
	}

	unresolved := r.run(NewFont().SetColor(NewSchemeColor("nope")).SetItalic(true))
	if strings.Contains(unresolved, "color:") {
		t.Errorf("unresolvable color must be omitted: %q", unresolved)
	}
	if !strings.Contains(unresolved, "font-style: italic") {
		t.Errorf("other declarations must survive an omitted color: %q", unresolved)
	}

	if got := r.run(NewFont().SetName("+mj-lt")); got != "font-family: 'Calibri Light';" {
		t.Errorf("theme font reference not resolved: %q", got)
	}
	if got := r.run(NewFont().SetUnderline(true)); got != "text-decoration: underline;" {
		t.Errorf("unexpected underline style %q", got)
	}
}

func TestParagraphStyle(t *testing.T) {
	r := testResolver()

	p := NewParagraph()
	if got := r.paragraph(p); got != "margin: 0; text-align: start;" {
		t.Errorf("default paragraph style = %q", got)
	}

	p.SetAlignment(AlignCenter).SetLineSpacing(Spacing{Percent: 1.5}).SetSpaceBefore(6).SetSpaceAfter(3)
	want := "margin: 0; text-align: center; line-height: 1.5; margin-top: 6pt; margin-bottom: 3pt;"
	if got := r.paragraph(p); got != want {
		t.Errorf("paragraph style = %q, want %q", got, want)
	}

	p.SetLineSpacing(Spacing{Points: 20})
	if got := r.paragraph(p); !strings.Contains(got, "line-height: 20pt") {
		t.Errorf("expected absolute line height in %q", got)
	}

	rtl := newStyleResolver(nil, r.log, "right")
	if got := rtl.paragraph(NewParagraph()); !strings.Contains(got, "text-align: right") {
		t.Errorf("configured default alignment not applied: %q", got)
	}
}

func TestFillFallbackLaw(t *testing.T) {
	r := testResolver()

	if got := css(r.fillOr(nil, defaultGenericFill)); got != "background-color: transparent;" {
		t.Errorf("generic fallback = %q", got)
	}
	if got := css(r.fillOr(nil, defaultSlideFill)); got != "background-color: white;" {
		t.Errorf("slide fallback = %q", got)
	}
	if got := css(r.fillOr(NewFill(), defaultSlideFill)); got != "background-color: white;" {
		t.Errorf("none fill should fall back: %q", got)
	}
	if got := css(r.fillOr(NewSolidFill(NewSchemeColor("missing")), defaultGenericFill)); got != "background-color: transparent;" {
		t.Errorf("unresolvable fill should fall back: %q", got)
	}
	if got := css(r.fillOr(NewSolidFill(NewColor("000080")), defaultGenericFill)); got != "background-color: rgb(0, 0, 128);" {
		t.Errorf("solid fill = %q", got)
	}
}

func TestPatternFill(t *testing.T) {
	r := testResolver()

	decls, ok := r.fill(NewPatternFill(NewColor("FF0000"), NewColor("0000FF"), "dkDnDiag"))
	if !ok || len(decls) != 3 {
		t.Fatalf("expected 3 pattern declarations, got %v", decls)
	}
	if decls[0] != "background-color: rgb(0, 0, 255)" {
		t.Errorf("unexpected pattern background %q", decls[0])
	}
	if !strings.HasPrefix(decls[1], "background-image: linear-gradient(45deg, rgb(255, 0, 0) 25%") {
		t.Errorf("unexpected pattern image %q", decls[1])
	}
	if decls[2] != "background-size: 10px 10px" {
		t.Errorf("unexpected tile size %q", decls[2])
	}

	f := NewPatternFill(NewColor("FF0000"), NewSchemeColor("missing"), "")
	decls, _ = r.fill(f)
	if decls[0] != "background-color: "+defaultPatternBgColor {
		t.Errorf("unresolvable pattern background should fall back: %q", decls[0])
	}
}

func TestCellBordersAreIndependent(t *testing.T) {
	r := testResolver()

	cell := NewTableCell()
	cell.GetBorders().Top = NewBorder(NewColor("000000"), 12700)
	style := r.cell(cell)
	if !strings.Contains(style, "border-top: 1.33px solid rgb(0, 0, 0)") {
		t.Errorf("expected top border in %q", style)
	}
	for _, edge := range []string{"border-right", "border-bottom", "border-left"} {
		if strings.Contains(style, edge) {
			t.Errorf("unexpected %s in %q", edge, style)
		}
	}

	if got := r.cell(NewTableCell()); got != "" {
		t.Errorf("empty cell should have no style, got %q", got)
	}
}

func TestBorder(t *testing.T) {
	r := testResolver()
	if got := r.border(nil); got != "border: none" {
		t.Errorf("nil border = %q", got)
	}
	if got := r.border(NewBorder(NewColor("FF0000"), 0)); got != "border: none" {
		t.Errorf("zero width border = %q", got)
	}
	if got := r.border(NewBorder(NewColor("FF0000"), 9525)); got != "border: 1.00px solid rgb(255, 0, 0)" {
		t.Errorf("border = %q", got)
	}
}

func TestCornerRadius(t *testing.T) {
	b := &BaseShape{width: Inch(2), height: Inch(1)}
	if got := cornerRadius(b, "rect", nil); got != 0 {
		t.Errorf("rect radius = %v", got)
	}
	if got := cornerRadius(b, "roundRect", map[string]int{"adj": 50000}); got != 48 {
		t.Errorf("roundRect adj 50000 radius = %v, want 48", got)
	}
	if got := cornerRadius(b, "roundRect", map[string]int{"adj1": 25000}); got != 24 {
		t.Errorf("roundRect adj1 25000 radius = %v, want 24", got)
	}
	want := 96 * 16667 / 100000.0
	if got := cornerRadius(b, "roundRect", nil); got != want {
		t.Errorf("default roundRect radius = %v, want %v", got, want)
	}
}
