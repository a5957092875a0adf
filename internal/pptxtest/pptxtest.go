// Package pptxtest builds small PPTX packages in memory for reader and
// end-to-end tests. Shapes are supplied as spTree child XML built with the
// helpers in this package.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// XML namespace constants
const (
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"

	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
)

// Image is a media part related from a slide under the given relationship id.
type Image struct {
	RelID string
	Name  string // file name under ppt/media/
	Data  []byte
}

// Slide describes one slide part.
type Slide struct {
	Background string // solid fill hex, empty for none
	Shapes     []string
	Images     []Image
}

// Deck describes a whole package.
type Deck struct {
	Title  string
	Width  int64 // EMU, 0 for 9144000
	Height int64 // EMU, 0 for 6858000
	// Accent1 overrides the theme's accent1 color when set.
	Accent1 string
	// MajorFont overrides the theme's heading face when set.
	MajorFont string
	Slides    []Slide
}

// Bytes returns the package as a zip archive.
func (d *Deck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the package to w.
func (d *Deck) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		path    string
		content string
	}{
		{"[Content_Types].xml", d.contentTypes()},
		{"_rels/.rels", rels(
			rel{"rId1", relTypeOfficeDoc, "ppt/presentation.xml"},
			rel{"rId2", relTypeCoreProps, "docProps/core.xml"},
		)},
		{"docProps/core.xml", d.coreProperties()},
		{"ppt/presentation.xml", d.presentation()},
		{"ppt/_rels/presentation.xml.rels", d.presentationRels()},
		{"ppt/theme/theme1.xml", d.theme()},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", rels(
			rel{"rId1", relTypeSlideLayout, "../slideLayouts/slideLayout1.xml"},
			rel{"rId2", relTypeTheme, "../theme/theme1.xml"},
		)},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", rels(
			rel{"rId1", relTypeSlideMaster, "../slideMasters/slideMaster1.xml"},
		)},
	}
	for i, s := range d.Slides {
		n := i + 1
		slideRels := []rel{{"rId1", relTypeSlideLayout, "../slideLayouts/slideLayout1.xml"}}
		for _, img := range s.Images {
			slideRels = append(slideRels, rel{img.RelID, relTypeImage, "../media/" + img.Name})
		}
		parts = append(parts,
			struct{ path, content string }{fmt.Sprintf("ppt/slides/slide%d.xml", n), s.xml()},
			struct{ path, content string }{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), rels(slideRels...)},
		)
	}

	for _, p := range parts {
		if err := writeRawXMLToZip(zw, p.path, p.content); err != nil {
			return err
		}
	}
	for _, s := range d.Slides {
		for _, img := range s.Images {
			fw, err := zw.Create("ppt/media/" + img.Name)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", img.Name, err)
			}
			if _, err := fw.Write(img.Data); err != nil {
				return err
			}
		}
	}
	return zw.Close()
}

func writeRawXMLToZip(zw *zip.Writer, path string, content string) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	_, err = io.WriteString(fw, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+content)
	return err
}

type rel struct {
	id, typ, target string
}

func rels(rs ...rel) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<Relationships xmlns="%s">`, nsPackageRels)
	for _, r := range rs {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, Escape(r.target))
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func (d *Deck) contentTypes() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<Types xmlns="%s">`, nsContentTypes)
	fmt.Fprintf(&sb, `<Default Extension="rels" ContentType="%s"/>`, ctRels)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	sb.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	fmt.Fprintf(&sb, `<Override PartName="/ppt/presentation.xml" ContentType="%s"/>`, ctPresentation)
	fmt.Fprintf(&sb, `<Override PartName="/ppt/theme/theme1.xml" ContentType="%s"/>`, ctTheme)
	fmt.Fprintf(&sb, `<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="%s"/>`, ctSlideMaster)
	fmt.Fprintf(&sb, `<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="%s"/>`, ctSlideLayout)
	fmt.Fprintf(&sb, `<Override PartName="/docProps/core.xml" ContentType="%s"/>`, ctCoreProps)
	for i := range d.Slides {
		fmt.Fprintf(&sb, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="%s"/>`, i+1, ctSlide)
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

func (d *Deck) coreProperties() string {
	return `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>` + Escape(d.Title) +
		`</dc:title><dc:creator>pptxtest</dc:creator></cp:coreProperties>`
}

func (d *Deck) presentation() string {
	cx, cy := d.Width, d.Height
	if cx <= 0 || cy <= 0 {
		cx, cy = 9144000, 6858000
	}
	var ids strings.Builder
	for i := range d.Slides {
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+10)
	}
	return fmt.Sprintf(`<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`+
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`+
		`<p:sldIdLst>%s</p:sldIdLst><p:sldSz cx="%d" cy="%d"/><p:notesSz cx="6858000" cy="9144000"/>`+
		`</p:presentation>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, ids.String(), cx, cy)
}

func (d *Deck) presentationRels() string {
	rs := []rel{
		{"rId1", relTypeSlideMaster, "slideMasters/slideMaster1.xml"},
		{"rId2", relTypeTheme, "theme/theme1.xml"},
	}
	for i := range d.Slides {
		rs = append(rs, rel{fmt.Sprintf("rId%d", i+10), relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1)})
	}
	return rels(rs...)
}

func (d *Deck) theme() string {
	accent1 := d.Accent1
	if accent1 == "" {
		accent1 = "4472C4"
	}
	major := d.MajorFont
	if major == "" {
		major = "Calibri Light"
	}
	return fmt.Sprintf(`<a:theme xmlns:a="%s" name="Test Theme"><a:themeElements>`+
		`<a:clrScheme name="Test">`+
		`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>`+
		`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>`+
		`<a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>`+
		`<a:accent1><a:srgbClr val="%s"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2>`+
		`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4>`+
		`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>`+
		`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>`+
		`</a:clrScheme>`+
		`<a:fontScheme name="Test"><a:majorFont><a:latin typeface="%s"/></a:majorFont>`+
		`<a:minorFont><a:latin typeface="Calibri"/></a:minorFont></a:fontScheme>`+
		`</a:themeElements></a:theme>`, nsDrawingML, accent1, Escape(major))
}

func (s Slide) xml() string {
	bg := ""
	if s.Background != "" {
		bg = `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="` + s.Background + `"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`
	}
	return fmt.Sprintf(`<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld>%s<p:spTree>`+
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`+
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`+
		`%s</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`,
		nsDrawingML, nsOfficeDocRels, nsPresentationML, bg, strings.Join(s.Shapes, ""))
}

// Layout and master geometry: the title placeholder sits at (457200, 274638)
// sized 8229600x1143000 and titles default to 44 pt.
const (
	TitleX  = 457200
	TitleY  = 274638
	TitleCX = 8229600
	TitleCY = 1143000
)

var slideLayoutXML = fmt.Sprintf(`<p:sldLayout xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" type="title"><p:cSld name="Title Slide"><p:spTree>`+
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`+
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>`+
	`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr>`+
	`<p:txBody><a:bodyPr anchor="ctr"/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>`+
	`</p:spTree></p:cSld></p:sldLayout>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, TitleX, TitleY, TitleCX, TitleCY)

var slideMasterXML = fmt.Sprintf(`<p:sldMaster xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld>`+
	`<p:bg><p:bgPr><a:solidFill><a:schemeClr val="bg1"/></a:solidFill><a:effectLst/></p:bgPr></p:bg><p:spTree>`+
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`+
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Body Placeholder 1"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>`+
	`<p:spPr><a:xfrm><a:off x="457200" y="1600200"/><a:ext cx="8229600" cy="4525963"/></a:xfrm></p:spPr>`+
	`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>`+
	`</p:spTree></p:cSld>`+
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>`+
	`<p:txStyles><p:titleStyle><a:lvl1pPr><a:defRPr sz="4400"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mj-lt"/></a:defRPr></a:lvl1pPr></p:titleStyle>`+
	`<p:bodyStyle><a:lvl1pPr><a:defRPr sz="3200"><a:latin typeface="+mn-lt"/></a:defRPr></a:lvl1pPr></p:bodyStyle></p:txStyles>`+
	`</p:sldMaster>`, nsDrawingML, nsOfficeDocRels, nsPresentationML)

// Escape escapes text for XML content and attributes.
func Escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
