package pptxhtml

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

var (
	errNotEMF   = errors.New("not an EMF stream")
	errEMFBlank = errors.New("EMF has no drawable content")
)

const (
	emfSignature   = 0x464D4520 // " EMF"
	emfMinSide     = 300
	emfMaxSide     = 2000
	emfBezierSteps = 16
)

// EMF record types replayed by emfPlayer.
const (
	emrHeader              = 0x01
	emrPolyBezier          = 0x02
	emrPolygon             = 0x03
	emrPolyline            = 0x04
	emrPolyBezierTo        = 0x05
	emrPolylineTo          = 0x06
	emrSetWindowExtEx      = 0x09
	emrSetWindowOrgEx      = 0x0A
	emrSetViewportExtEx    = 0x0B
	emrSetViewportOrgEx    = 0x0C
	emrEOF                 = 0x0E
	emrMoveToEx            = 0x1B
	emrSelectObject        = 0x25
	emrCreatePen           = 0x26
	emrCreateBrushIndirect = 0x27
	emrDeleteObject        = 0x28
	emrEllipse             = 0x2A
	emrRectangle           = 0x2B
	emrLineTo              = 0x36
	emrBeginPath           = 0x3A
	emrEndPath             = 0x3B
	emrCloseFigure         = 0x3C
	emrFillPath            = 0x3D
	emrStrokeAndFillPath   = 0x3E
	emrStrokePath          = 0x3F
	emrAbortPath           = 0x40
	emrSelectClipPath      = 0x43
	emrPolyBezier16        = 0x55
	emrPolygon16           = 0x56
	emrPolyline16          = 0x57
	emrPolyBezierTo16      = 0x58
	emrPolylineTo16        = 0x59
	emrPolyPolyline16      = 0x5A
	emrPolyPolygon16       = 0x5B
	emrPolyDraw16          = 0x5C
)

// Stock object handles.
const (
	stockWhiteBrush = 0x80000000
	stockBlackBrush = 0x80000004
	stockNullBrush  = 0x80000005
	stockWhitePen   = 0x80000006
	stockBlackPen   = 0x80000007
	stockNullPen    = 0x80000008
)

const (
	penStyleNull   = 5
	brushStyleNull = 1
)

type emfPoint struct{ x, y float64 }

type emfPen struct {
	color color.RGBA
	width float64 // logical units
	null  bool
}

type emfBrush struct {
	color color.RGBA
	null  bool
}

// emfPlayer replays the vector records of an EMF stream onto an RGBA
// canvas. Text, bitmaps, clipping and hatches are not drawn.
type emfPlayer struct {
	dst        *image.RGBA
	scale      float64
	offX, offY float64

	winOrg, winExt emfPoint
	vpOrg, vpExt   emfPoint

	objects map[uint32]interface{}
	pen     emfPen
	brush   emfBrush

	inPath  bool
	figures [][]emfPoint
	cur     emfPoint
	drawn   bool
}

// rasterizeEMF renders an EMF picture. The canvas covers the header bounds,
// scaled so the longer side lies between emfMinSide and emfMaxSide pixels.
func rasterizeEMF(data []byte) (*image.RGBA, error) {
	if len(data) < 88 || le32(data, 0) != emrHeader || le32(data, 40) != emfSignature {
		return nil, errNotEMF
	}
	left, top := float64(int32(le32(data, 8))), float64(int32(le32(data, 12)))
	w := float64(int32(le32(data, 16))) - left + 1
	h := float64(int32(le32(data, 20))) - top + 1
	if w <= 0 || h <= 0 {
		return nil, errEMFBlank
	}
	longest := math.Max(w, h)
	scale := 1.0
	if longest < emfMinSide {
		scale = emfMinSide / longest
	} else if longest > emfMaxSide {
		scale = emfMaxSide / longest
	}

	p := &emfPlayer{
		dst:     image.NewRGBA(image.Rect(0, 0, int(math.Ceil(w*scale)), int(math.Ceil(h*scale)))),
		scale:   scale,
		offX:    -left * scale,
		offY:    -top * scale,
		winExt:  emfPoint{1, 1},
		vpExt:   emfPoint{1, 1},
		objects: make(map[uint32]interface{}),
		pen:     emfPen{color: color.RGBA{A: 0xFF}, width: 1},
		brush:   emfBrush{color: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
	}
	for pos := 0; pos+8 <= len(data); {
		typ, size := le32(data, pos), int(le32(data, pos+4))
		if size < 8 || pos+size > len(data) || typ == emrEOF {
			break
		}
		p.play(typ, data[pos:pos+size])
		pos += size
	}
	if !p.drawn {
		return nil, errEMFBlank
	}
	return p.dst, nil
}

func (p *emfPlayer) play(typ uint32, rec []byte) {
	switch typ {
	case emrSetWindowExtEx:
		p.winExt = p.pair(rec)
	case emrSetWindowOrgEx:
		p.winOrg = p.pair(rec)
	case emrSetViewportExtEx:
		p.vpExt = p.pair(rec)
	case emrSetViewportOrgEx:
		p.vpOrg = p.pair(rec)

	case emrCreatePen:
		if len(rec) >= 28 {
			p.objects[le32(rec, 8)] = emfPen{
				color: colorRef(rec[24:]),
				width: float64(int32(le32(rec, 16))),
				null:  le32(rec, 12)&0x0F == penStyleNull,
			}
		}
	case emrCreateBrushIndirect:
		if len(rec) >= 20 {
			p.objects[le32(rec, 8)] = emfBrush{color: colorRef(rec[16:]), null: le32(rec, 12) == brushStyleNull}
		}
	case emrSelectObject:
		if len(rec) >= 12 {
			p.selectObject(le32(rec, 8))
		}
	case emrDeleteObject:
		if len(rec) >= 12 {
			delete(p.objects, le32(rec, 8))
		}

	case emrMoveToEx:
		if len(rec) >= 16 {
			p.moveTo(p.device(int32(le32(rec, 8)), int32(le32(rec, 12))))
		}
	case emrLineTo:
		if len(rec) >= 16 {
			p.lineTo(p.device(int32(le32(rec, 8)), int32(le32(rec, 12))))
		}

	case emrBeginPath:
		p.inPath, p.figures = true, nil
	case emrEndPath:
		p.inPath = false
	case emrCloseFigure:
		if n := len(p.figures); n > 0 && len(p.figures[n-1]) > 1 {
			p.figures[n-1] = append(p.figures[n-1], p.figures[n-1][0])
		}
	case emrAbortPath, emrSelectClipPath:
		p.inPath, p.figures = false, nil
	case emrFillPath:
		p.fill(p.figures)
		p.figures = nil
	case emrStrokePath:
		p.stroke(p.figures, false)
		p.figures = nil
	case emrStrokeAndFillPath:
		p.fill(p.figures)
		p.stroke(p.figures, true)
		p.figures = nil

	case emrRectangle, emrEllipse:
		if len(rec) >= 24 {
			a := p.device(int32(le32(rec, 8)), int32(le32(rec, 12)))
			b := p.device(int32(le32(rec, 16)), int32(le32(rec, 20)))
			shape := []emfPoint{a, {b.x, a.y}, b, {a.x, b.y}}
			if typ == emrEllipse {
				shape = ellipse(a, b)
			}
			p.emit([][]emfPoint{shape}, true)
		}

	case emrPolygon, emrPolygon16:
		p.emit([][]emfPoint{p.points(rec, typ == emrPolygon)}, true)
	case emrPolyline, emrPolyline16:
		p.emit([][]emfPoint{p.points(rec, typ == emrPolyline)}, false)
	case emrPolylineTo, emrPolylineTo16:
		for _, pt := range p.points(rec, typ == emrPolylineTo) {
			p.lineTo(pt)
		}
	case emrPolyBezier, emrPolyBezier16:
		if pts := p.points(rec, typ == emrPolyBezier); len(pts) > 0 {
			p.emit([][]emfPoint{flattenBeziers(pts[0], pts[1:])}, false)
		}
	case emrPolyBezierTo, emrPolyBezierTo16:
		for _, pt := range flattenBeziers(p.cur, p.points(rec, typ == emrPolyBezierTo))[1:] {
			p.lineTo(pt)
		}
	case emrPolyPolygon16, emrPolyPolyline16:
		p.emit(p.polyPoints(rec), typ == emrPolyPolygon16)
	case emrPolyDraw16:
		p.polyDraw(rec)
	}
}

func (p *emfPlayer) selectObject(handle uint32) {
	switch handle {
	case stockWhiteBrush:
		p.brush = emfBrush{color: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}}
	case stockBlackBrush:
		p.brush = emfBrush{color: color.RGBA{A: 0xFF}}
	case stockNullBrush:
		p.brush = emfBrush{null: true}
	case stockWhitePen:
		p.pen = emfPen{color: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, width: 1}
	case stockBlackPen:
		p.pen = emfPen{color: color.RGBA{A: 0xFF}, width: 1}
	case stockNullPen:
		p.pen = emfPen{null: true}
	default:
		switch obj := p.objects[handle].(type) {
		case emfPen:
			p.pen = obj
		case emfBrush:
			p.brush = obj
		}
	}
}

// device maps a logical point through the window/viewport transform onto the canvas.
func (p *emfPlayer) device(x, y int32) emfPoint {
	return emfPoint{
		x: ((float64(x)-p.winOrg.x)*ratio(p.vpExt.x, p.winExt.x)+p.vpOrg.x)*p.scale + p.offX,
		y: ((float64(y)-p.winOrg.y)*ratio(p.vpExt.y, p.winExt.y)+p.vpOrg.y)*p.scale + p.offY,
	}
}

func (p *emfPlayer) pair(rec []byte) emfPoint {
	if len(rec) < 16 {
		return emfPoint{1, 1}
	}
	return emfPoint{float64(int32(le32(rec, 8))), float64(int32(le32(rec, 12)))}
}

// points decodes the point array of a poly record: bounds, count, then
// 32-bit or 16-bit coordinate pairs.
func (p *emfPlayer) points(rec []byte, wide bool) []emfPoint {
	if len(rec) < 28 {
		return nil
	}
	return p.pointArray(rec, 28, int(le32(rec, 24)), wide)
}

func (p *emfPlayer) pointArray(rec []byte, off, count int, wide bool) []emfPoint {
	step := 4
	if wide {
		step = 8
	}
	if count < 0 || off+count*step > len(rec) {
		return nil
	}
	pts := make([]emfPoint, count)
	for i := range pts {
		at := off + i*step
		if wide {
			pts[i] = p.device(int32(le32(rec, at)), int32(le32(rec, at+4)))
		} else {
			pts[i] = p.device(int32(int16(le16(rec, at))), int32(int16(le16(rec, at+2))))
		}
	}
	return pts
}

// polyPoints decodes a PolyPolygon16 or PolyPolyline16 record into figures.
func (p *emfPlayer) polyPoints(rec []byte) [][]emfPoint {
	if len(rec) < 32 {
		return nil
	}
	n, total := int(le32(rec, 24)), int(le32(rec, 28))
	if n <= 0 || 32+n*4 > len(rec) {
		return nil
	}
	all := p.pointArray(rec, 32+n*4, total, false)
	var figures [][]emfPoint
	for i := 0; i < n; i++ {
		c := int(le32(rec, 32+i*4))
		if c < 0 || c > len(all) {
			return figures
		}
		figures = append(figures, all[:c])
		all = all[c:]
	}
	return figures
}

// polyDraw replays a PolyDraw16 record: each point carries a moveto,
// lineto or bezierto type, optionally closing the figure.
func (p *emfPlayer) polyDraw(rec []byte) {
	if len(rec) < 28 {
		return
	}
	count := int(le32(rec, 24))
	pts := p.pointArray(rec, 28, count, false)
	types := 28 + count*4
	if pts == nil || types+count > len(rec) {
		return
	}
	for i := 0; i < count; i++ {
		t := rec[types+i]
		switch t &^ 0x01 {
		case 0x06:
			p.moveTo(pts[i])
		case 0x04:
			if i+2 < count {
				for _, pt := range flattenBeziers(p.cur, pts[i:i+3])[1:] {
					p.lineTo(pt)
				}
				i += 2
				t = rec[types+i]
			}
		default:
			p.lineTo(pts[i])
		}
		if t&0x01 != 0 && p.inPath {
			p.play(emrCloseFigure, nil)
		}
	}
}

func (p *emfPlayer) moveTo(pt emfPoint) {
	p.cur = pt
	if p.inPath {
		p.figures = append(p.figures, []emfPoint{pt})
	}
}

func (p *emfPlayer) lineTo(pt emfPoint) {
	if p.inPath {
		if len(p.figures) == 0 {
			p.figures = append(p.figures, []emfPoint{p.cur})
		}
		n := len(p.figures) - 1
		p.figures[n] = append(p.figures[n], pt)
	} else {
		p.stroke([][]emfPoint{{p.cur, pt}}, false)
	}
	p.cur = pt
}

// emit adds figures to the open path, or draws them: closed figures are
// filled and outlined, open ones only outlined.
func (p *emfPlayer) emit(figures [][]emfPoint, closed bool) {
	if p.inPath {
		for _, f := range figures {
			if closed && len(f) > 1 {
				f = append(f[:len(f):len(f)], f[0])
			}
			p.figures = append(p.figures, f)
		}
		return
	}
	if closed {
		p.fill(figures)
	}
	p.stroke(figures, closed)
}

func (p *emfPlayer) fill(figures [][]emfPoint) {
	if p.brush.null || p.brush.color.A == 0 {
		return
	}
	z, ok := p.rasterizer()
	for _, f := range figures {
		if len(f) < 3 {
			continue
		}
		p.polygon(z, f)
		ok = true
	}
	if ok {
		p.paint(z, p.brush.color)
	}
}

// stroke outlines each figure with the current pen as one quad per segment.
func (p *emfPlayer) stroke(figures [][]emfPoint, closed bool) {
	if p.pen.null || p.pen.color.A == 0 {
		return
	}
	half := math.Max(1, math.Abs(p.pen.width*ratio(p.vpExt.x, p.winExt.x))*p.scale) / 2
	z, ok := p.rasterizer()
	for _, f := range figures {
		if closed && len(f) > 2 {
			f = append(f[:len(f):len(f)], f[0])
		}
		for i := 0; i+1 < len(f); i++ {
			a, b := f[i], f[i+1]
			l := math.Hypot(b.x-a.x, b.y-a.y)
			if l == 0 {
				continue
			}
			nx, ny := -(b.y-a.y)/l*half, (b.x-a.x)/l*half
			p.polygon(z, []emfPoint{{a.x + nx, a.y + ny}, {b.x + nx, b.y + ny}, {b.x - nx, b.y - ny}, {a.x - nx, a.y - ny}})
			ok = true
		}
	}
	if ok {
		p.paint(z, p.pen.color)
	}
}

func (p *emfPlayer) rasterizer() (*vector.Rasterizer, bool) {
	b := p.dst.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy()), false
}

func (p *emfPlayer) polygon(z *vector.Rasterizer, pts []emfPoint) {
	w, h := float64(p.dst.Bounds().Dx()), float64(p.dst.Bounds().Dy())
	clamp := func(pt emfPoint) (float32, float32) {
		return float32(math.Min(math.Max(pt.x, 0), w)), float32(math.Min(math.Max(pt.y, 0), h))
	}
	z.MoveTo(clamp(pts[0]))
	for _, pt := range pts[1:] {
		z.LineTo(clamp(pt))
	}
	z.ClosePath()
}

func (p *emfPlayer) paint(z *vector.Rasterizer, c color.RGBA) {
	z.Draw(p.dst, p.dst.Bounds(), image.NewUniform(c), image.Point{})
	p.drawn = true
}

// flattenBeziers approximates the cubic segments (c1, c2, end triples)
// starting at start by line segments. The result begins with start.
func flattenBeziers(start emfPoint, ctrl []emfPoint) []emfPoint {
	out := []emfPoint{start}
	p0 := start
	for i := 0; i+2 < len(ctrl); i += 3 {
		p1, p2, p3 := ctrl[i], ctrl[i+1], ctrl[i+2]
		for s := 1; s <= emfBezierSteps; s++ {
			t := float64(s) / emfBezierSteps
			u := 1 - t
			out = append(out, emfPoint{
				x: u*u*u*p0.x + 3*u*u*t*p1.x + 3*u*t*t*p2.x + t*t*t*p3.x,
				y: u*u*u*p0.y + 3*u*u*t*p1.y + 3*u*t*t*p2.y + t*t*t*p3.y,
			})
		}
		p0 = p3
	}
	return out
}

// ellipse approximates the ellipse inscribed in the box a-b.
func ellipse(a, b emfPoint) []emfPoint {
	const steps = 64
	cx, cy := (a.x+b.x)/2, (a.y+b.y)/2
	rx, ry := math.Abs(b.x-a.x)/2, math.Abs(b.y-a.y)/2
	pts := make([]emfPoint, steps)
	for i := range pts {
		angle := 2 * math.Pi * float64(i) / steps
		pts[i] = emfPoint{cx + rx*math.Cos(angle), cy + ry*math.Sin(angle)}
	}
	return pts
}

// colorRef decodes a COLORREF (0x00BBGGRR).
func colorRef(b []byte) color.RGBA {
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xFF}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 1
	}
	return num / den
}

func le32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
func le16(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off:]) }
