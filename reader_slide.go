package pptxhtml

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// defaultLineWidth is used for a:ln elements without a w attribute (0.75 pt).
const defaultLineWidth = 9525

// templatePart is a parsed slide layout or slide master.
type templatePart struct {
	placeholders []templatePlaceholder
	background   *Fill
	textStyles   *xmlTextStyles
	master       *templatePart
}

// templatePlaceholder is the geometry and text defaults a placeholder passes down.
type templatePlaceholder struct {
	phType   string
	idx      string
	xfrm     *xmlXfrm
	anchor   string
	defaults *xmlRPr
}

// slideContext carries what shape conversion needs while walking one slide.
type slideContext struct {
	pkg    *pptxPackage
	rels   []relationship
	dir    string
	layout *templatePart
}

func (pkg *pptxPackage) readSlide(slidePath string) (*Slide, error) {
	data, err := pkg.readFile(slidePath)
	if err != nil {
		return nil, err
	}

	var doc xmlSlidePart
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse slide XML: %w", err)
	}

	rels, err := pkg.readRelationships(relsPath(slidePath))
	if err != nil {
		return nil, err
	}

	sc := &slideContext{pkg: pkg, rels: rels, dir: path.Dir(slidePath)}
	// Layout and master are optional: a slide without them keeps its own geometry.
	if target := relTarget(rels, sc.dir, relTypeSlideLayout); target != "" {
		sc.layout, _ = pkg.readTemplate(target, true)
	}

	slide := NewSlide()
	slide.SetName(doc.CSld.Name)
	if doc.CSld.Bg != nil && doc.CSld.Bg.BgPr != nil {
		slide.background = fillFromProps(&doc.CSld.Bg.BgPr.xmlFillProps, nil)
	}
	for tpl := sc.layout; slide.background == nil && tpl != nil; tpl = tpl.master {
		slide.background = tpl.background
	}

	sc.walk(slide, &doc.CSld.SpTree, identityTransform, nil)
	return slide, nil
}

// readTemplate parses a layout (withMaster) or master part. Parsed parts are
// shared between slides.
func (pkg *pptxPackage) readTemplate(partPath string, withMaster bool) (*templatePart, error) {
	if tpl, ok := pkg.templates[partPath]; ok {
		return tpl, nil
	}

	data, err := pkg.readFile(partPath)
	if err != nil {
		return nil, err
	}
	var doc xmlSlidePart
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", partPath, err)
	}

	tpl := &templatePart{textStyles: doc.TxStyles}
	if doc.CSld.Bg != nil && doc.CSld.Bg.BgPr != nil {
		tpl.background = fillFromProps(&doc.CSld.Bg.BgPr.xmlFillProps, nil)
	}
	for _, node := range doc.CSld.SpTree.Nodes {
		if node.Sp == nil {
			continue
		}
		nv := node.Sp.nv()
		if nv.NvPr.Ph == nil {
			continue
		}
		ph := templatePlaceholder{
			phType: nv.NvPr.Ph.Type,
			idx:    nv.NvPr.Ph.Idx,
			xfrm:   node.Sp.SpPr.Xfrm,
		}
		if body := node.Sp.TxBody; body != nil {
			ph.anchor = body.BodyPr.Anchor
			if body.LstStyle != nil && body.LstStyle.Lvl1PPr != nil {
				ph.defaults = body.LstStyle.Lvl1PPr.DefRPr
			}
		}
		tpl.placeholders = append(tpl.placeholders, ph)
	}
	pkg.templates[partPath] = tpl

	if withMaster {
		rels, err := pkg.readRelationships(relsPath(partPath))
		if err != nil {
			return tpl, nil
		}
		if target := relTarget(rels, path.Dir(partPath), relTypeSlideMaster); target != "" {
			tpl.master, _ = pkg.readTemplate(target, false)
		}
	}
	return tpl, nil
}

// masterPlaceholderType folds placeholder types onto the kinds a master defines.
func masterPlaceholderType(t string) string {
	switch t {
	case "ctrTitle", "title":
		return "title"
	case "", "obj", "subTitle", "body":
		return "body"
	}
	return t
}

// find matches a slide placeholder by idx, then by type.
func (t *templatePart) find(ph *xmlPh, master bool) *templatePlaceholder {
	if t == nil || ph == nil {
		return nil
	}
	if !master && ph.Idx != "" {
		for i := range t.placeholders {
			if t.placeholders[i].idx == ph.Idx {
				return &t.placeholders[i]
			}
		}
	}
	for i := range t.placeholders {
		p := &t.placeholders[i]
		if master && masterPlaceholderType(p.phType) == masterPlaceholderType(ph.Type) {
			return p
		}
		if !master && p.phType == ph.Type && (ph.Type != "" || ph.Idx == "") {
			return p
		}
	}
	return nil
}

// inherited returns the layout match and the master match for a placeholder.
func (sc *slideContext) inherited(ph *xmlPh) (layout, master *templatePlaceholder) {
	if ph == nil || sc.layout == nil {
		return nil, nil
	}
	layout = sc.layout.find(ph, false)
	master = sc.layout.master.find(ph, true)
	return layout, master
}

// masterTextDefaults returns the master's txStyles level-1 run defaults for a placeholder.
func (sc *slideContext) masterTextDefaults(ph *xmlPh) *xmlRPr {
	if ph == nil || sc.layout == nil || sc.layout.master == nil || sc.layout.master.textStyles == nil {
		return nil
	}
	styles := sc.layout.master.textStyles
	var lst *xmlLstStyle
	switch masterPlaceholderType(ph.Type) {
	case "title":
		lst = styles.TitleStyle
	case "body":
		lst = styles.BodyStyle
	default:
		lst = styles.OtherStyle
	}
	if lst == nil || lst.Lvl1PPr == nil {
		return nil
	}
	return lst.Lvl1PPr.DefRPr
}

// walk converts a shape tree in document order, flattening groups.
func (sc *slideContext) walk(slide *Slide, tree *xmlShapeTree, tf groupTransform, groupFill *xmlFillProps) {
	for _, node := range tree.Nodes {
		switch {
		case node.Sp != nil:
			slide.AddShape(sc.shapeFromSp(node.Sp, tf, groupFill))
		case node.Pic != nil:
			slide.AddShape(sc.pictureFromPic(node.Pic, tf))
		case node.Frame != nil:
			slide.AddShape(sc.shapeFromFrame(node.Frame, tf))
		case node.Group != nil:
			inner := groupFill
			var xfrm *xmlXfrm
			if gp := node.Group.GrpSpPr; gp != nil {
				xfrm = gp.Xfrm
				if gp.GrpFill == nil && (gp.NoFill != nil || gp.SolidFill != nil || gp.PattFill != nil) {
					inner = &gp.xmlFillProps
				}
			}
			sc.walk(slide, node.Group, tf.nest(xfrm), inner)
		}
	}
}

// place sets a shape's slide geometry from its xfrm, or the inherited one.
func place(b *BaseShape, xfrm *xmlXfrm, inherited []*templatePlaceholder, tf groupTransform) {
	if xfrm == nil || xfrm.Off == nil || xfrm.Ext == nil {
		xfrm = nil
		for _, p := range inherited {
			if p != nil && p.xfrm != nil && p.xfrm.Off != nil && p.xfrm.Ext != nil {
				xfrm = p.xfrm
				break
			}
		}
	}
	if xfrm == nil {
		return
	}
	x, y, w, h := tf.apply(xfrm.Off.X, xfrm.Off.Y, xfrm.Ext.CX, xfrm.Ext.CY)
	b.offsetX, b.offsetY, b.width, b.height = x, y, w, h
}

func (sc *slideContext) shapeFromSp(sp *xmlSp, tf groupTransform, groupFill *xmlFillProps) Shape {
	nv := sp.nv()
	ph := nv.NvPr.Ph
	layoutPh, masterPh := sc.inherited(ph)

	fill := fillFromProps(&sp.SpPr.xmlFillProps, groupFill)
	border := borderFromLine(sp.SpPr.Ln)

	var paragraphs []*Paragraph
	anchor := ""
	if sp.TxBody != nil {
		defaults := []*xmlRPr{sc.masterTextDefaults(ph)}
		for _, p := range []*templatePlaceholder{masterPh, layoutPh} {
			if p != nil {
				defaults = append(defaults, p.defaults)
				if p.anchor != "" {
					anchor = p.anchor
				}
			}
		}
		if sp.TxBody.LstStyle != nil && sp.TxBody.LstStyle.Lvl1PPr != nil {
			defaults = append(defaults, sp.TxBody.LstStyle.Lvl1PPr.DefRPr)
		}
		if sp.TxBody.BodyPr.Anchor != "" {
			anchor = sp.TxBody.BodyPr.Anchor
		}
		paragraphs = paragraphsFromBody(sp.TxBody, defaults)
	}

	if paragraphsHaveText(paragraphs) {
		shape := NewTextShape()
		shape.paragraphs = paragraphs
		shape.anchor = anchorFromXML(anchor)
		shape.name = nv.CNvPr.Name
		shape.fill = fill
		shape.border = border
		place(&shape.BaseShape, sp.SpPr.Xfrm, []*templatePlaceholder{layoutPh, masterPh}, tf)
		return shape
	}

	geometry := "rect"
	if sp.SpPr.PrstGeom != nil && sp.SpPr.PrstGeom.Prst != "" {
		geometry = sp.SpPr.PrstGeom.Prst
	}
	shape := NewGenericShape(geometry)
	if sp.SpPr.PrstGeom != nil {
		for _, gd := range sp.SpPr.PrstGeom.AvLst.Gd {
			if v, ok := guideValue(gd.Fmla); ok {
				shape.SetAdjustValue(gd.Name, v)
			}
		}
	}
	shape.name = nv.CNvPr.Name
	shape.fill = fill
	shape.border = border
	place(&shape.BaseShape, sp.SpPr.Xfrm, []*templatePlaceholder{layoutPh, masterPh}, tf)
	return shape
}

// guideValue parses a constant shape guide of the form "val 16667".
func guideValue(fmla string) (int, bool) {
	fields := strings.Fields(fmla)
	if len(fields) != 2 || fields[0] != "val" {
		return 0, false
	}
	v, err := strconv.Atoi(fields[1])
	return v, err == nil
}

func (sc *slideContext) pictureFromPic(pic *xmlPic, tf groupTransform) Shape {
	shape := NewPictureShape()
	shape.name = pic.NvPicPr.CNvPr.Name
	shape.description = pic.NvPicPr.CNvPr.Descr
	shape.border = borderFromLine(pic.SpPr.Ln)
	layoutPh, masterPh := sc.inherited(pic.NvPicPr.NvPr.Ph)
	place(&shape.BaseShape, pic.SpPr.Xfrm, []*templatePlaceholder{layoutPh, masterPh}, tf)

	// A missing image part leaves the picture empty; rendering reports it.
	if target := relTargetByID(sc.rels, sc.dir, pic.BlipFill.Blip.Embed); target != "" {
		if data, err := sc.pkg.readFile(target); err == nil {
			shape.SetImageData(data, guessMimeType(target))
		}
	}
	return shape
}

func (sc *slideContext) shapeFromFrame(frame *xmlGraphicFrame, tf groupTransform) Shape {
	tbl := frame.Graphic.GraphicData.Tbl
	if tbl == nil {
		// Charts, diagrams and OLE objects keep their slot as a transparent box.
		shape := NewGenericShape("rect")
		shape.name = frame.NvGraphicFramePr.CNvPr.Name
		place(&shape.BaseShape, &frame.Xfrm, nil, tf)
		return shape
	}

	table := &TableShape{}
	table.name = frame.NvGraphicFramePr.CNvPr.Name
	place(&table.BaseShape, &frame.Xfrm, nil, tf)
	for _, tr := range tbl.Tr {
		row := make([]*TableCell, 0, len(tr.Tc))
		for i := range tr.Tc {
			row = append(row, cellFromXML(&tr.Tc[i]))
		}
		table.AddRow(row...)
	}
	return table
}

func cellFromXML(tc *xmlTc) *TableCell {
	cell := NewTableCell()
	if tc.TxBody != nil {
		cell.paragraphs = paragraphsFromBody(tc.TxBody, nil)
	}
	if pr := tc.TcPr; pr != nil {
		cell.fill = fillFromProps(&pr.xmlFillProps, nil)
		cell.anchor = anchorFromXML(pr.Anchor)
		cell.border = CellBorders{
			Top:    borderFromLine(pr.LnT),
			Right:  borderFromLine(pr.LnR),
			Bottom: borderFromLine(pr.LnB),
			Left:   borderFromLine(pr.LnL),
		}
	}
	return cell
}

// paragraphsFromBody converts a text body. defaults are run property layers
// applied in order before each run's own properties.
func paragraphsFromBody(body *xmlTxBody, defaults []*xmlRPr) []*Paragraph {
	paragraphs := make([]*Paragraph, 0, len(body.P))
	for i := range body.P {
		xp := &body.P[i]
		p := NewParagraph()
		layers := defaults
		if xp.PPr != nil {
			p.alignment = alignmentFromXML(xp.PPr.Algn)
			if s, ok := spacingFromXML(xp.PPr.LnSpc); ok {
				p.lineSpacing = &s
			}
			if s, ok := spacingFromXML(xp.PPr.SpcBef); ok && s.Points > 0 {
				p.spaceBefore = s.Points
			}
			if s, ok := spacingFromXML(xp.PPr.SpcAft); ok && s.Points > 0 {
				p.spaceAfter = s.Points
			}
			if xp.PPr.DefRPr != nil {
				layers = append(append([]*xmlRPr(nil), defaults...), xp.PPr.DefRPr)
			}
		}
		for _, node := range xp.Nodes {
			if node.Break {
				p.CreateBreak()
				continue
			}
			run := p.CreateTextRun(node.Text)
			run.font = fontFromLayers(append(append([]*xmlRPr(nil), layers...), node.RPr))
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs
}

// fontFromLayers folds run property layers; later layers override earlier ones.
func fontFromLayers(layers []*xmlRPr) *Font {
	f := NewFont()
	for _, rpr := range layers {
		if rpr == nil {
			continue
		}
		if rpr.Sz > 0 {
			f.Size = float64(rpr.Sz) / 100
		}
		if rpr.B != "" {
			f.Bold = xmlBool(rpr.B)
		}
		if rpr.I != "" {
			f.Italic = xmlBool(rpr.I)
		}
		if rpr.U != "" {
			f.Underline = rpr.U != "none"
		}
		if rpr.Latin != nil && rpr.Latin.Typeface != "" {
			f.Name = rpr.Latin.Typeface
		}
		if c, ok := colorFromChoice(rpr.SolidFill); ok {
			f.SetColor(c)
		}
	}
	return f
}

func xmlBool(v string) bool {
	return v == "1" || v == "true" || v == "on"
}

func alignmentFromXML(algn string) Alignment {
	switch algn {
	case "l":
		return AlignStart
	case "ctr":
		return AlignCenter
	case "r":
		return AlignEnd
	case "just", "dist", "justLow", "thaiDist":
		return AlignJustify
	}
	return AlignUnset
}

func anchorFromXML(anchor string) VerticalAnchor {
	switch anchor {
	case "t":
		return AnchorTop
	case "ctr":
		return AnchorMiddle
	case "b":
		return AnchorBottom
	}
	return AnchorUnset
}

// spacingFromXML converts spcPct (1000ths of a percent) and spcPts (100ths of a point).
func spacingFromXML(s *xmlSpacing) (Spacing, bool) {
	switch {
	case s == nil:
		return Spacing{}, false
	case s.SpcPts != nil:
		return Spacing{Points: float64(s.SpcPts.Val) / 100}, true
	case s.SpcPct != nil:
		return Spacing{Percent: float64(s.SpcPct.Val) / 100000}, true
	}
	return Spacing{}, false
}

// fillFromProps converts a fill choice; grpFill takes the enclosing group's fill.
func fillFromProps(fp *xmlFillProps, groupFill *xmlFillProps) *Fill {
	if fp == nil {
		return nil
	}
	switch {
	case fp.NoFill != nil:
		return nil
	case fp.SolidFill != nil:
		if c, ok := colorFromChoice(fp.SolidFill); ok {
			return NewSolidFill(c)
		}
	case fp.PattFill != nil:
		fg, okFg := colorFromChoice(fp.PattFill.FgClr)
		bg, okBg := colorFromChoice(fp.PattFill.BgClr)
		if !okFg {
			return nil
		}
		fill := NewPatternFill(fg, bg, fp.PattFill.Prst)
		if !okBg {
			fill.BgColor = nil
		}
		return fill
	case fp.GrpFill != nil && groupFill != nil:
		return fillFromProps(groupFill, nil)
	}
	return nil
}

func borderFromLine(ln *xmlLn) *Border {
	if ln == nil || ln.NoFill != nil || ln.SolidFill == nil {
		return nil
	}
	c, ok := colorFromChoice(ln.SolidFill)
	if !ok {
		return nil
	}
	width := int64(defaultLineWidth)
	if ln.W != nil {
		width = *ln.W
	}
	return NewBorder(c, width)
}
