package pptxhtml

import (
	"strings"

	"golang.org/x/net/html"
)

// writeTable renders a table shape. Every cell is rendered independently;
// row and column spans are not applied.
func (r *renderer) writeTable(sb *strings.Builder, id string, t *TableShape, anim AnimationEntry) {
	writeOpenTag(sb, "div", "table-container shape", id, joinStyle(box(&t.BaseShape), anim.Style()))
	sb.WriteString(`<table class="pptx-table">`)
	sb.WriteString("\n")
	for _, row := range t.rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			if cell == nil {
				sb.WriteString("<td></td>")
				continue
			}
			sb.WriteString("<td")
			if style := r.styles.cell(cell); style != "" {
				sb.WriteString(` style="`)
				sb.WriteString(html.EscapeString(style))
				sb.WriteString(`"`)
			}
			sb.WriteString(`><div class="cell-content" style="justify-content: `)
			sb.WriteString(anchorValue(cell.anchor))
			sb.WriteString(`;">`)
			r.writeParagraphs(sb, cell.paragraphs)
			sb.WriteString("</div></td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n</div>\n")
}
