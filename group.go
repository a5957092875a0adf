package pptxhtml

import "math"

// groupTransform maps a group's child coordinate space (chOff/chExt) onto
// slide coordinates. Nested groups compose, so shapes inside groups are
// flattened onto the slide with absolute positions.
type groupTransform struct {
	scaleX, scaleY float64
	dx, dy         float64
}

var identityTransform = groupTransform{scaleX: 1, scaleY: 1}

// nest returns the transform for the children of a group whose grpSpPr
// carries xfrm, placed inside g.
func (g groupTransform) nest(xfrm *xmlXfrm) groupTransform {
	if xfrm == nil || xfrm.Off == nil || xfrm.Ext == nil {
		return g
	}
	child := groupTransform{scaleX: 1, scaleY: 1}
	var chOffX, chOffY float64
	if xfrm.ChOff != nil {
		chOffX, chOffY = float64(xfrm.ChOff.X), float64(xfrm.ChOff.Y)
	}
	if xfrm.ChExt != nil && xfrm.ChExt.CX > 0 {
		child.scaleX = float64(xfrm.Ext.CX) / float64(xfrm.ChExt.CX)
	}
	if xfrm.ChExt != nil && xfrm.ChExt.CY > 0 {
		child.scaleY = float64(xfrm.Ext.CY) / float64(xfrm.ChExt.CY)
	}
	child.dx = float64(xfrm.Off.X) - chOffX*child.scaleX
	child.dy = float64(xfrm.Off.Y) - chOffY*child.scaleY

	return groupTransform{
		scaleX: g.scaleX * child.scaleX,
		scaleY: g.scaleY * child.scaleY,
		dx:     g.scaleX*child.dx + g.dx,
		dy:     g.scaleY*child.dy + g.dy,
	}
}

// apply maps a child rectangle to slide coordinates.
func (g groupTransform) apply(x, y, w, h int64) (int64, int64, int64, int64) {
	return int64(math.Round(float64(x)*g.scaleX + g.dx)),
		int64(math.Round(float64(y)*g.scaleY + g.dy)),
		int64(math.Round(float64(w) * g.scaleX)),
		int64(math.Round(float64(h) * g.scaleY))
}
