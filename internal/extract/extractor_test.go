package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractBytes_plain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("Hello world\nLine 2"), ".txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Hello world\nLine 2" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_plainInvalidUTF8(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("hello\x80world"), ".rst")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "hello�world" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_unknownExtensionFallsBackToPlain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("raw content"), ".xyz")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "raw content" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_binaryContent(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractBytes([]byte("text\x00with nul"), ".txt")
	if !errors.Is(err, ErrBinary) {
		t.Errorf("NUL content: err = %v, want ErrBinary", err)
	}

	// Mostly control characters.
	junk := bytes.Repeat([]byte{0x01, 0x02, 'a'}, 100)
	_, err = e.ExtractBytes(junk, "")
	if !errors.Is(err, ErrBinary) {
		t.Errorf("control-byte content: err = %v, want ErrBinary", err)
	}
}

func TestLooksBinary(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"empty", nil, false},
		{"ascii", []byte("plain text\nwith lines\t ok"), false},
		{"utf8", []byte("héllo wörld — ünïcode"), false},
		{"nul byte", []byte("ab\x00cd"), true},
		{"nul past sniff window", append(bytes.Repeat([]byte{'a'}, binarySniffLen), 0), false},
		{"mostly control bytes", bytes.Repeat([]byte{0x07}, 100), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksBinary(tt.content); got != tt.want {
				t.Errorf("looksBinary = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractBytes_excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "Title")
	f.SetCellValue("Sheet1", "A2", "Value 1")
	f.SetCellValue("Sheet1", "B2", "Value 2")
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	e := NewExtractor()
	got, err := e.ExtractBytes(buf.Bytes(), ".xlsx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Title\nValue 1\tValue 2" {
		t.Errorf("got %q", got)
	}
}

// minimalDocx returns .docx zip bytes whose word/document.xml carries the
// given text in <w:t> runs.
func minimalDocx(text string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func TestExtractBytes_docx(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(minimalDocx("Searchable docx content"), ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Searchable docx content" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_docxCustomMainPart(t *testing.T) {
	// [Content_Types].xml can point the main document anywhere; both
	// attribute orders occur.
	overrides := []string{
		`<Override PartName="/word/document2.xml" ContentType="` + wordMainContentType + `"/>`,
		`<Override ContentType="` + wordMainContentType + `" PartName="/word/document2.xml"/>`,
	}
	for _, override := range overrides {
		var buf bytes.Buffer
		w := zip.NewWriter(&buf)
		ct, _ := w.Create("[Content_Types].xml")
		_, _ = ct.Write([]byte(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` + override + `</Types>`))
		fw, _ := w.Create("word/document2.xml")
		_, _ = fw.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Relocated main part</w:t></w:r></w:p></w:body></w:document>`))
		_ = w.Close()

		e := NewExtractor()
		got, err := e.ExtractBytes(buf.Bytes(), ".docx")
		if err != nil {
			t.Fatalf("ExtractBytes: %v", err)
		}
		if got != "Relocated main part" {
			t.Errorf("got %q", got)
		}
	}
}

func TestExtractBytes_docxNotZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a zip"), ".docx"); err == nil {
		t.Error("expected error for invalid docx")
	}
}

// minimalPptx returns .pptx zip bytes with slides carrying text in <a:t> runs.
func minimalPptx(texts ...string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for i, text := range texts {
		fw, _ := w.Create("ppt/slides/slide" + string(rune('1'+i)) + ".xml")
		_, _ = fw.Write([]byte(`<p:sld><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`))
	}
	_ = w.Close()
	return buf.Bytes()
}

func TestExtractBytes_pptx(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(minimalPptx("First slide", "Second slide"), ".pptx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "First slide Second slide" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_pptxWithoutSlides(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, _ = w.Create("docProps/core.xml")
	_ = w.Close()
	e := NewExtractor()
	got, err := e.ExtractBytes(buf.Bytes(), ".pptx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "" {
		t.Errorf("got %q", got)
	}
}

// minimalOpenDoc returns OpenDocument zip bytes wrapping the given
// content.xml body.
func minimalOpenDoc(contentXML string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("content.xml")
	_, _ = fw.Write([]byte(contentXML))
	_ = w.Close()
	return buf.Bytes()
}

func TestExtractBytes_openDocument(t *testing.T) {
	tests := []struct {
		ext        string
		contentXML string
		want       string
	}{
		{".odp", `<office:body><draw:page><text:p>Presentation text</text:p></draw:page></office:body>`, "Presentation text"},
		{".ods", `<office:body><table:table-cell><text:p>Cell A</text:p></table:table-cell><table:table-cell><text:span>Cell B</text:span></table:table-cell></office:body>`, "Cell A Cell B"},
		{".odt", `<office:body><text:h>Heading</text:h></office:body>`, "Heading"},
	}
	e := NewExtractor()
	for _, tt := range tests {
		got, err := e.ExtractBytes(minimalOpenDoc(tt.contentXML), tt.ext)
		if err != nil {
			t.Fatalf("ExtractBytes(%s): %v", tt.ext, err)
		}
		if got != tt.want {
			t.Errorf("ExtractBytes(%s) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestExtractBytes_openDocumentMissingContent(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, _ = w.Create("other.xml")
	_ = w.Close()
	e := NewExtractor()
	if _, err := e.ExtractBytes(buf.Bytes(), ".odp"); err == nil {
		t.Error("expected error when content.xml missing")
	}
}

func TestExtract_plainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(path, []byte("File content"), 0o600); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "File content" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_pptxFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, minimalPptx("Searchable from file"), 0o600); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "Searchable from file" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_nonexistent(t *testing.T) {
	e := NewExtractor()
	if _, err := e.Extract("/nonexistent/path/file.txt"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}
