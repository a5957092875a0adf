package pptxhtml

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/cespare/xxhash/v2"
)

//go:embed templates/*.tmpl assets/*.css assets/*.js
var content embed.FS

// stylesheetFiles are concatenated in this order into the document's <style> block.
var stylesheetFiles = []string{
	"assets/theme.css",
	"assets/layout.css",
	"assets/controls.css",
	"assets/table.css",
	"assets/animation.css",
}

var (
	documentTemplate = template.Must(template.ParseFS(content, "templates/document.html.tmpl"))
	stylesheet       = template.CSS(mustReadAll(stylesheetFiles...))
	runtimeScript    = template.JS(mustReadAll("assets/runtime.js"))
)

func mustReadAll(names ...string) string {
	var sb strings.Builder
	for _, name := range names {
		b, err := content.ReadFile(name)
		if err != nil {
			panic(err)
		}
		sb.Write(b)
		sb.WriteString("\n")
	}
	return sb.String()
}

type documentData struct {
	Lang        string
	Dir         Direction
	Title       string
	Generator   string
	Profile     Profile
	Rich        bool
	SlideWidth  string
	SlideHeight string
	Stylesheet  template.CSS
	Script      template.JS
	Runtime     runtimeConfig
	Slides      []slideView
	Total       int
}

type slideView struct {
	Index   int
	Number  int
	HTML    template.HTML
	Excerpt string
}

// runtimeConfig is serialized into the document for the client runtime.
type runtimeConfig struct {
	Total       int     `json:"total"`
	Namespace   string  `json:"namespace"`
	Direction   string  `json:"direction"`
	Profile     string  `json:"profile"`
	Title       string  `json:"title"`
	SlideWidth  float64 `json:"slideWidth"`
	SlideHeight float64 `json:"slideHeight"`
}

// assembleDocument wraps the rendered slides into the standalone HTML document.
func (r *renderer) assembleDocument(p *Presentation, slides []*RenderedSlide) (string, error) {
	layout := p.layout
	if layout == nil || layout.CX <= 0 || layout.CY <= 0 {
		layout = NewDocumentLayout()
	}
	width, height := EMUToPixels(layout.CX), EMUToPixels(layout.CY)

	title := r.documentTitle(p)
	data := documentData{
		Lang:        normalizeLanguage(r.opts.Language),
		Dir:         r.direction,
		Title:       title,
		Generator:   Generator,
		Profile:     r.opts.Profile,
		Rich:        r.opts.Profile == ProfileRich,
		SlideWidth:  formatPx(width),
		SlideHeight: formatPx(height),
		Stylesheet:  stylesheet,
		Script:      runtimeScript,
		Runtime: runtimeConfig{
			Total:       len(slides),
			Namespace:   r.storageNamespace(title, slides),
			Direction:   string(r.direction),
			Profile:     string(r.opts.Profile),
			Title:       title,
			SlideWidth:  width,
			SlideHeight: height,
		},
		Total: len(slides),
	}
	for i, s := range slides {
		data.Slides = append(data.Slides, slideView{
			Index:   i,
			Number:  i + 1,
			HTML:    template.HTML(s.HTML),
			Excerpt: s.Excerpt,
		})
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// storageNamespace returns the configured namespace, or one derived from the
// document title and slide markup.
func (r *renderer) storageNamespace(title string, slides []*RenderedSlide) string {
	if r.opts.StorageNamespace != "" {
		return r.opts.StorageNamespace
	}
	d := xxhash.New()
	d.WriteString(title)
	for _, s := range slides {
		d.WriteString("\x00")
		d.WriteString(s.HTML)
	}
	return fmt.Sprintf("pptxhtml:%016x", d.Sum64())
}

// documentTitle returns the title option, else the document properties title,
// else "Presentation".
func (r *renderer) documentTitle(p *Presentation) string {
	title := r.opts.Title
	if title == "" && p.properties != nil {
		title = p.properties.Title
	}
	if title == "" {
		title = "Presentation"
	}
	return title
}
