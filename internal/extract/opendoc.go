package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// odContentPath is the single content part of every OpenDocument package
// (odt, odp, ods alike).
const odContentPath = "content.xml"

// OpenDocument text lives in text:p paragraphs, text:span runs, and text:h
// headings. Opening and closing tags are matched pairwise so attributes on
// the opening tag do not hide text.
var odTextTags = []*regexp.Regexp{
	regexp.MustCompile(`<text:p[^>]*>([^<]*)</text:p>`),
	regexp.MustCompile(`<text:span[^>]*>([^<]*)</text:span>`),
	regexp.MustCompile(`<text:h[^>]*>([^<]*)</text:h>`),
}

// extractOpenDocument extracts text from OpenDocument bytes. The same
// content.xml layout serves writer documents, presentations, and
// spreadsheets, so one extractor covers .odt, .odp, and .ods.
func extractOpenDocument(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract opendocument: not a zip: %w", err)
	}
	contentXML := zipEntry(zr, odContentPath)
	if contentXML == nil {
		return "", fmt.Errorf("extract opendocument: %s not found", odContentPath)
	}
	s := string(contentXML)
	var b strings.Builder
	for _, tag := range odTextTags {
		joinRuns(&b, tag.FindAllStringSubmatch(s, -1))
	}
	return strings.TrimSpace(b.String()), nil
}
