package pptxhtml

import "fmt"

// Version information for the pptxhtml renderer.
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
)

// Version is the full version string, emitted in the generator meta tag.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)

// Generator is the value of the rendered document's generator meta tag.
var Generator = "pptxhtml " + Version
