package pptxtest

import (
	"fmt"
	"strings"
)

// Rect is a shape position and size in EMU.
type Rect struct {
	X, Y, CX, CY int64
}

func (r Rect) xfrm() string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, r.X, r.Y, r.CX, r.CY)
}

// Run is a text run with optional properties.
type Run struct {
	Text  string
	Size  int    // hundredths of a point, 0 for inherited
	Bold  bool
	Color string // hex, empty for inherited
	Font  string
}

func (r Run) xml() string {
	var attrs strings.Builder
	attrs.WriteString(` lang="en-US"`)
	if r.Size > 0 {
		fmt.Fprintf(&attrs, ` sz="%d"`, r.Size)
	}
	if r.Bold {
		attrs.WriteString(` b="1"`)
	}
	var inner strings.Builder
	if r.Color != "" {
		fmt.Fprintf(&inner, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, r.Color)
	}
	if r.Font != "" {
		fmt.Fprintf(&inner, `<a:latin typeface="%s"/>`, Escape(r.Font))
	}
	return fmt.Sprintf(`<a:r><a:rPr%s>%s</a:rPr><a:t>%s</a:t></a:r>`, attrs.String(), inner.String(), Escape(r.Text))
}

// Paragraph builds an a:p element. algn is "", "l", "ctr", "r" or "just".
func Paragraph(algn string, runs ...Run) string {
	ppr := ""
	if algn != "" {
		ppr = `<a:pPr algn="` + algn + `"/>`
	}
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.xml())
	}
	return `<a:p>` + ppr + sb.String() + `</a:p>`
}

// LineBreak is an a:br element for use between runs of a raw paragraph.
const LineBreak = `<a:br><a:rPr lang="en-US"/></a:br>`

// TextBox builds a p:sp text box with one paragraph per line.
func TextBox(name string, r Rect, lines ...string) string {
	paras := make([]string, 0, len(lines))
	for _, l := range lines {
		paras = append(paras, Paragraph("", Run{Text: l}))
	}
	return Shape(name, r, "", strings.Join(paras, ""))
}

// Shape builds a p:sp with preset rect geometry, an optional solid fill and
// raw paragraph XML (empty for a shape without text).
func Shape(name string, r Rect, fillHex, paragraphs string) string {
	fill := ""
	if fillHex != "" {
		fill = `<a:solidFill><a:srgbClr val="` + fillHex + `"/></a:solidFill>`
	}
	body := ""
	if paragraphs != "" {
		body = `<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/>` + paragraphs + `</p:txBody>`
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>%s</p:spPr>%s</p:sp>`,
		Escape(name), r.xfrm(), fill, body)
}

// RoundRect builds a filled roundRect with an adj guide and a scheme-colored outline.
func RoundRect(name string, r Rect, fillScheme string, adj int) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="roundRect"><a:avLst><a:gd name="adj" fmla="val %d"/></a:avLst></a:prstGeom>`+
		`<a:solidFill><a:schemeClr val="%s"/></a:solidFill>`+
		`<a:ln w="12700"><a:solidFill><a:srgbClr val="000000"/></a:solidFill></a:ln></p:spPr></p:sp>`,
		Escape(name), r.xfrm(), adj, fillScheme)
}

// Title builds a title placeholder without its own geometry, so position and
// size come from the layout.
func Title(text string) string {
	return `<p:sp><p:nvSpPr><p:cNvPr id="4" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>` + Paragraph("", Run{Text: text}) + `</p:txBody></p:sp>`
}

// Picture builds a p:pic referencing an image relationship.
func Picture(name, relID, descr string, r Rect) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="5" name="%s" descr="%s"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		Escape(name), Escape(descr), relID, r.xfrm())
}

// Table builds a graphicFrame table with one text paragraph per cell.
// The first row gets a solid header fill.
func Table(name string, r Rect, rows [][]string) string {
	var sb strings.Builder
	for i, row := range rows {
		fmt.Fprintf(&sb, `<a:tr h="%d">`, r.CY/int64(max(len(rows), 1)))
		for _, text := range row {
			tcPr := `<a:tcPr anchor="ctr"><a:lnB w="12700"><a:solidFill><a:srgbClr val="000000"/></a:solidFill></a:lnB></a:tcPr>`
			if i == 0 {
				tcPr = `<a:tcPr anchor="ctr"><a:lnB w="12700"><a:solidFill><a:srgbClr val="000000"/></a:solidFill></a:lnB>` +
					`<a:solidFill><a:schemeClr val="accent1"/></a:solidFill></a:tcPr>`
			}
			fmt.Fprintf(&sb, `<a:tc><a:txBody><a:bodyPr/><a:lstStyle/>%s</a:txBody>%s</a:tc>`,
				Paragraph("", Run{Text: text}), tcPr)
		}
		sb.WriteString(`</a:tr>`)
	}
	return fmt.Sprintf(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="6" name="%s"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`+
		`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblPr/><a:tblGrid/>%s</a:tbl></a:graphicData></a:graphic>`+
		`</p:graphicFrame>`, Escape(name), r.X, r.Y, r.CX, r.CY, sb.String())
}

// Group wraps children in a p:grpSp whose child space chOff/chExt maps onto r.
func Group(r Rect, child Rect, children ...string) string {
	return fmt.Sprintf(`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="7" name="Group"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`+
		`<p:grpSpPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/><a:chOff x="%d" y="%d"/><a:chExt cx="%d" cy="%d"/></a:xfrm></p:grpSpPr>`+
		`%s</p:grpSp>`, r.X, r.Y, r.CX, r.CY, child.X, child.Y, child.CX, child.CY, strings.Join(children, ""))
}
