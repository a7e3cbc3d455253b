package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// Office Open XML packages are zips of XML parts. Text lives in <w:t> runs
// for word processing documents and <a:t> runs for presentations; matching
// the runs directly keeps content searchable regardless of paragraph or run
// attributes.
var (
	wordTextRun  = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	slideTextRun = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)
)

const (
	wordDocumentPath = "word/document.xml"
	contentTypesPath = "[Content_Types].xml"
	slidePathPrefix  = "ppt/slides/slide"

	wordMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

// Overrides in [Content_Types].xml can place the main document anywhere;
// both attribute orders occur in the wild.
var (
	wordPartName    = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(wordMainContentType) + `"`)
	wordPartNameAlt = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(wordMainContentType) + `"[^>]+PartName="([^"]+)"`)
)

// zipEntry returns the named file's bytes from a zip reader, or nil when the
// entry is absent or unreadable.
func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		_ = rc.Close()
		if err != nil {
			return nil
		}
		return buf.Bytes()
	}
	return nil
}

// joinRuns concatenates trimmed submatch text with single spaces.
func joinRuns(b *strings.Builder, parts [][]string) {
	for _, p := range parts {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimSpace(p[1]))
	}
}

// wordMainPart locates the main document part via [Content_Types].xml,
// falling back to the conventional word/document.xml.
func wordMainPart(zr *zip.Reader) string {
	types := zipEntry(zr, contentTypesPath)
	if types != nil {
		if m := wordPartName.FindSubmatch(types); len(m) > 1 {
			return strings.TrimPrefix(string(m[1]), "/")
		}
		if m := wordPartNameAlt.FindSubmatch(types); len(m) > 1 {
			return strings.TrimPrefix(string(m[1]), "/")
		}
	}
	return wordDocumentPath
}

// extractWordXML extracts text from .docx bytes.
func extractWordXML(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract docx: not a zip: %w", err)
	}
	part := wordMainPart(zr)
	docXML := zipEntry(zr, part)
	if docXML == nil {
		return "", fmt.Errorf("extract docx: %s not found", part)
	}
	var b strings.Builder
	joinRuns(&b, wordTextRun.FindAllStringSubmatch(string(docXML), -1))
	return strings.TrimSpace(b.String()), nil
}

// extractSlidesXML extracts text from .pptx bytes, slide by slide.
func extractSlidesXML(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract pptx: not a zip: %w", err)
	}
	var b strings.Builder
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, slidePathPrefix) || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		slideXML := zipEntry(zr, f.Name)
		if slideXML == nil {
			continue
		}
		joinRuns(&b, slideTextRun.FindAllStringSubmatch(string(slideXML), -1))
	}
	return strings.TrimSpace(b.String()), nil
}
