package pptxhtml

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"
)

// emfBuilder assembles an EMF stream record by record.
type emfBuilder struct{ buf bytes.Buffer }

func newEMF(right, bottom int32) *emfBuilder {
	b := &emfBuilder{}
	hdr := make([]int32, 22) // 88 bytes
	hdr[0], hdr[1] = emrHeader, 88
	hdr[4], hdr[5] = right, bottom
	hdr[10] = emfSignature
	binary.Write(&b.buf, binary.LittleEndian, hdr)
	return b
}

func (b *emfBuilder) record(typ uint32, params ...uint32) *emfBuilder {
	binary.Write(&b.buf, binary.LittleEndian, []uint32{typ, uint32(8 + 4*len(params))})
	binary.Write(&b.buf, binary.LittleEndian, params)
	return b
}

func (b *emfBuilder) bytes() []byte {
	b.record(emrEOF, 0, 0, 0)
	return b.buf.Bytes()
}

func rgba(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestRasterizeEMFRectangle(t *testing.T) {
	data := newEMF(99, 49).
		record(emrCreateBrushIndirect, 1, 0, 0x000000FF, 0).
		record(emrSelectObject, 1).
		record(emrSelectObject, stockNullPen).
		record(emrRectangle, 10, 10, 90, 40).
		bytes()

	img, err := rasterizeEMF(data)
	if err != nil {
		t.Fatalf("rasterizeEMF: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 150 {
		t.Fatalf("canvas = %v, want 300x150", b)
	}
	if got := rgba(img, 150, 75); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Errorf("inside the rectangle = %v, want red", got)
	}
	if got := rgba(img, 5, 5); got.A != 0 {
		t.Errorf("outside the rectangle = %v, want transparent", got)
	}
}

func TestRasterizeEMFPathWithMapping(t *testing.T) {
	// Logical 0..1000 maps onto device 0..100.
	data := newEMF(99, 99).
		record(emrSetWindowExtEx, 1000, 1000).
		record(emrSetViewportExtEx, 100, 100).
		record(emrSelectObject, stockBlackBrush).
		record(emrBeginPath).
		record(emrMoveToEx, 0, 0).
		record(emrLineTo, 500, 0).
		record(emrLineTo, 500, 500).
		record(emrLineTo, 0, 500).
		record(emrCloseFigure).
		record(emrEndPath).
		record(emrFillPath, 0, 0, 0, 0).
		bytes()

	img, err := rasterizeEMF(data)
	if err != nil {
		t.Fatalf("rasterizeEMF: %v", err)
	}
	// 100 device units scale to 300 pixels, so the filled square covers 0..150.
	if got := rgba(img, 75, 75); got != (color.RGBA{A: 0xFF}) {
		t.Errorf("inside the path = %v, want black", got)
	}
	if got := rgba(img, 225, 225); got.A != 0 {
		t.Errorf("outside the path = %v, want transparent", got)
	}
}

func TestRasterizeEMFErrors(t *testing.T) {
	if _, err := rasterizeEMF([]byte("not an emf")); !errors.Is(err, errNotEMF) {
		t.Errorf("expected errNotEMF, got %v", err)
	}
	if _, err := rasterizeEMF(newEMF(99, 49).bytes()); !errors.Is(err, errEMFBlank) {
		t.Errorf("expected errEMFBlank, got %v", err)
	}
}

func TestPreparePictureEMF(t *testing.T) {
	r := &renderer{opts: (&RenderOptions{MaxImageDimension: 100}).withDefaults()}

	vector := newEMF(99, 49).record(emrRectangle, 10, 10, 90, 40).bytes()
	data, ct, err := r.preparePicture(NewPictureShape().SetImageData(vector, "image/x-emf"))
	if err != nil || ct != "image/png" {
		t.Fatalf("preparePicture = %q, %v", ct, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("rasterized EMF does not decode: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("rasterized EMF is %dx%d, want 100x50", cfg.Width, cfg.Height)
	}

	blank := newEMF(99, 49).bytes()
	data, ct, err = r.preparePicture(NewPictureShape().SetImageData(blank, "image/x-emf"))
	if err != nil || ct != "image/x-emf" || !bytes.Equal(data, blank) {
		t.Errorf("undrawable EMF should embed unchanged, got %q %v", ct, err)
	}
}
