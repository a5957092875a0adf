package pptxhtml

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

const relNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

const (
	relTypeSlideLayout = relNS + "slideLayout"
	relTypeSlideMaster = relNS + "slideMaster"
	relTypeTheme       = relNS + "theme"
	relTypeImage       = relNS + "image"
)

// readLimits bounds what a single package may extract.
type readLimits struct {
	partSize  int64 // one decompressed part
	totalSize int64 // all decompressed parts, and the archive itself
	entries   int
}

var defaultReadLimits = readLimits{
	partSize:  50 << 20,
	totalSize: 200 << 20,
	entries:   10000,
}

// pptxPackage is the state of one read: the archive index, the cumulative
// extracted size, and the parsed layouts and masters shared by slides.
type pptxPackage struct {
	files     map[string]*zip.File
	limits    readLimits
	extracted int64
	pres      *Presentation
	templates map[string]*templatePart
}

func openPackage(r io.ReaderAt, size int64, limits readLimits) (*pptxPackage, error) {
	if size <= 0 {
		return nil, fmt.Errorf("empty package (%d bytes)", size)
	}
	if size > limits.totalSize {
		return nil, fmt.Errorf("%w: archive is %d bytes", ErrPackageLimit, size)
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	if len(zr.File) > limits.entries {
		return nil, fmt.Errorf("%w: %d entries", ErrPackageLimit, len(zr.File))
	}
	pkg := &pptxPackage{
		files:     make(map[string]*zip.File, len(zr.File)),
		limits:    limits,
		pres:      New(),
		templates: make(map[string]*templatePart),
	}
	for _, f := range zr.File {
		pkg.files[f.Name] = f
	}
	return pkg, nil
}

// readPresentationPackage parses the whole package: properties, slide list,
// theme, then every slide in presentation order.
func readPresentationPackage(r io.ReaderAt, size int64, limits readLimits) (*Presentation, error) {
	pkg, err := openPackage(r, size, limits)
	if err != nil {
		return nil, err
	}
	// Missing or malformed core properties leave the title empty.
	_ = pkg.readCoreProperties()

	slideIDs, err := pkg.readPresentation()
	if err != nil {
		return nil, err
	}
	rels, err := pkg.readRelationships("ppt/_rels/presentation.xml.rels")
	if err != nil {
		return nil, err
	}
	if target := relTarget(rels, "ppt", relTypeTheme); target != "" {
		if theme, err := pkg.readTheme(target); err == nil {
			pkg.pres.theme = theme
		}
	}
	for _, id := range slideIDs {
		target := relTargetByID(rels, "ppt", id)
		if target == "" {
			continue
		}
		slide, err := pkg.readSlide(target)
		if err != nil {
			return nil, fmt.Errorf("slide %s: %w", target, err)
		}
		pkg.pres.slides = append(pkg.pres.slides, slide)
	}
	return pkg.pres, nil
}

// readFile extracts one part, enforcing the per-part and cumulative limits
// against the bytes actually decompressed.
func (pkg *pptxPackage) readFile(name string) ([]byte, error) {
	f, ok := pkg.files[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}
	if f.UncompressedSize64 > uint64(pkg.limits.partSize) {
		return nil, fmt.Errorf("%w: part %s declares %d bytes", ErrPackageLimit, name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, pkg.limits.partSize+1))
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", name, err)
	}
	if int64(len(data)) > pkg.limits.partSize {
		return nil, fmt.Errorf("%w: part %s", ErrPackageLimit, name)
	}
	pkg.extracted += int64(len(data))
	if pkg.extracted > pkg.limits.totalSize {
		return nil, fmt.Errorf("%w: %d bytes extracted", ErrPackageLimit, pkg.extracted)
	}
	return data, nil
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// readRelationships parses a .rels part. A missing part means no relationships.
func (pkg *pptxPackage) readRelationships(name string) ([]relationship, error) {
	if _, ok := pkg.files[name]; !ok {
		return nil, nil
	}
	data, err := pkg.readFile(name)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Relationships []relationship `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return doc.Relationships, nil
}

// relsPath returns the relationships part of a package part.
func relsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// relTarget returns the resolved internal target of the first relationship of relType.
func relTarget(rels []relationship, baseDir, relType string) string {
	return findRel(rels, baseDir, func(r relationship) bool { return r.Type == relType })
}

// relTargetByID returns the resolved internal target of relationship id.
func relTargetByID(rels []relationship, baseDir, id string) string {
	return findRel(rels, baseDir, func(r relationship) bool { return r.ID == id })
}

func findRel(rels []relationship, baseDir string, match func(relationship) bool) string {
	for _, r := range rels {
		if r.TargetMode != "External" && match(r) {
			return resolveRelativePath(baseDir, r.Target)
		}
	}
	return ""
}

// --- presentation.xml and core properties ---

type xmlPresentation struct {
	SldIDLst struct {
		SldID []struct {
			RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldId"`
	} `xml:"sldIdLst"`
	SldSz *xmlSize `xml:"sldSz"`
}

// readPresentation reads the slide size and returns the slide relationship ids in order.
func (pkg *pptxPackage) readPresentation() ([]string, error) {
	data, err := pkg.readFile("ppt/presentation.xml")
	if err != nil {
		return nil, err
	}
	var doc xmlPresentation
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse presentation.xml: %w", err)
	}
	if doc.SldSz != nil && doc.SldSz.CX > 0 && doc.SldSz.CY > 0 {
		pkg.pres.layout.CX = doc.SldSz.CX
		pkg.pres.layout.CY = doc.SldSz.CY
		pkg.pres.layout.Name = LayoutCustom
	}
	ids := make([]string, 0, len(doc.SldIDLst.SldID))
	for _, s := range doc.SldIDLst.SldID {
		ids = append(ids, s.RID)
	}
	return ids, nil
}

type xmlCoreProperties struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
	Subject string `xml:"subject"`
}

func (pkg *pptxPackage) readCoreProperties() error {
	data, err := pkg.readFile("docProps/core.xml")
	if err != nil {
		return err
	}
	var core xmlCoreProperties
	if err := xml.Unmarshal(data, &core); err != nil {
		return fmt.Errorf("failed to parse core properties: %w", err)
	}
	pkg.pres.properties = &DocumentProperties{
		Title:   strings.TrimSpace(core.Title),
		Creator: strings.TrimSpace(core.Creator),
		Subject: strings.TrimSpace(core.Subject),
	}
	return nil
}

// resolveRelativePath resolves a relationship target against the directory
// of its source part. Results are confined to ppt/ or docProps/.
func resolveRelativePath(base, rel string) string {
	var resolved string
	if strings.HasPrefix(rel, "/") {
		resolved = path.Clean(rel)
	} else {
		resolved = path.Clean("/" + base + "/" + rel)
	}
	resolved = strings.TrimPrefix(resolved, "/")
	if !strings.HasPrefix(resolved, "ppt/") && !strings.HasPrefix(resolved, "docProps/") {
		return "ppt/" + resolved
	}
	return resolved
}

// mediaTypes maps media part extensions to their content types.
var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".wmf":  "image/x-wmf",
	".emf":  "image/x-emf",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

func guessMimeType(name string) string {
	return mediaTypes[strings.ToLower(path.Ext(name))]
}
