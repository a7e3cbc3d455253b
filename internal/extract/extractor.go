// Package extract provides text extraction from the file formats a content
// search can look inside: plain text, PDF, Office Open XML (docx, xlsx,
// pptx), and OpenDocument (odt, odp, ods).
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBinary marks content that is not text and cannot be searched. Callers
// skip such files instead of failing the search.
var ErrBinary = errors.New("binary content")

// Extractor extracts searchable text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content. Document
// formats (PDF, docx, xlsx, pptx, odt, odp, ods) are unpacked; anything else
// is treated as plain text and returns ErrBinary when it does not look like
// text.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, strings.ToLower(filepath.Ext(path)))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractWordXML(content)
	case ".xlsx":
		return extractExcel(content)
	case ".pptx":
		return extractSlidesXML(content)
	case ".odt", ".odp", ".ods":
		return extractOpenDocument(content)
	default:
		return extractPlain(content)
	}
}
