package pptxhtml

import (
	"fmt"
	"io"
	"os"
)

// Open reads a PPTX file from disk into a Presentation.
func Open(path string) (*Presentation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return ReadFrom(f, info.Size())
}

// ReadFrom reads a PPTX package of the given size. Packages over 200 MB,
// with parts over 50 MB or with more than 10000 entries are rejected
// with ErrPackageLimit.
func ReadFrom(r io.ReaderAt, size int64) (*Presentation, error) {
	return readPresentationPackage(r, size, defaultReadLimits)
}

// ConvertFile reads a PPTX file and renders it to a standalone HTML document.
func ConvertFile(path string, opts *RenderOptions) (*RenderResult, error) {
	p, err := Open(path)
	if err != nil {
		return nil, err
	}
	return Render(p, opts)
}
