package pptxhtml

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
	"golang.org/x/net/html"
)

const defaultImageType = "image/png"

// decodable lists the raster types validated with image.DecodeConfig.
// EMF is rasterized to PNG; other types (svg, wmf, ico) are embedded unchecked.
var decodable = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
	"image/webp": true,
}

func (r *renderer) writePicture(sb *strings.Builder, id string, p *PictureShape, anim AnimationEntry) error {
	data, contentType, err := r.preparePicture(p)
	if err != nil {
		return err
	}
	decls := box(&p.BaseShape)
	decls = append(decls, "object-fit: contain")
	if p.border != nil {
		decls = append(decls, r.styles.border(p.border))
	}
	sb.WriteString(`<img class="image shape" id="`)
	sb.WriteString(html.EscapeString(id))
	sb.WriteString(`" src="data:`)
	sb.WriteString(contentType)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	sb.WriteString(`" style="`)
	sb.WriteString(html.EscapeString(joinStyle(decls, anim.Style())))
	sb.WriteString(`" alt="`)
	sb.WriteString(html.EscapeString(p.description))
	sb.WriteString(`">`)
	sb.WriteString("\n")
	return nil
}

// preparePicture returns the payload and content type to embed: the declared
// type when it is an image type, else the sniffed type, else image/png.
func (r *renderer) preparePicture(p *PictureShape) ([]byte, string, error) {
	if len(p.data) == 0 {
		return nil, "", ErrEmptyImage
	}
	contentType := imageContentType(p.contentType, p.data)
	if contentType == "image/x-emf" || contentType == "image/emf" {
		return r.prepareEMF(p.data, contentType)
	}
	if !decodable[contentType] {
		return p.data, contentType, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(p.data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", contentType, err)
	}
	limit := r.opts.MaxImageDimension
	if limit <= 0 || (cfg.Width <= limit && cfg.Height <= limit) {
		return p.data, contentType, nil
	}
	return downscale(p.data, contentType, limit)
}

// prepareEMF rasterizes a vector EMF picture to PNG. Streams the player
// cannot draw are embedded as they are.
func (r *renderer) prepareEMF(data []byte, contentType string) ([]byte, string, error) {
	img, err := rasterizeEMF(data)
	if err != nil {
		r.opts.Logger.WithError(err).Debug("embedding EMF picture unconverted")
		return data, contentType, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("encode image/png: %w", err)
	}
	if limit := r.opts.MaxImageDimension; limit > 0 && (img.Bounds().Dx() > limit || img.Bounds().Dy() > limit) {
		return downscale(buf.Bytes(), "image/png", limit)
	}
	return buf.Bytes(), "image/png", nil
}

func imageContentType(declared string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mt, "image/") {
		if mt == "image/jpg" {
			return "image/jpeg"
		}
		return mt
	}
	if mt := mimetype.Detect(data); strings.HasPrefix(mt.String(), "image/") {
		t, _, _ := mime.ParseMediaType(mt.String())
		return t
	}
	return defaultImageType
}

// downscale resizes the image so its longest side equals limit and re-encodes
// it: JPEG input stays JPEG, everything else becomes PNG.
func downscale(data []byte, contentType string, limit int) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", contentType, err)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = limit * h / w
		w = limit
	} else {
		w = limit * w / h
		h = limit
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if contentType == "image/jpeg" {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90})
	} else {
		contentType = "image/png"
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", contentType, err)
	}
	return buf.Bytes(), contentType, nil
}
