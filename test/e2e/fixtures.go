// Package e2e runs whole searches against a realistic on-disk project tree.
// This file renders searchable text as minimal files of each extractable
// document type.
package e2e

import (
	"archive/zip"
	"bytes"

	"github.com/xuri/excelize/v2"
)

// extractableExtensions lists the rich-document types the tree builder can
// generate with searchable text inside. Plain types (.txt, .md, .rst, source
// files) need no wrapping. PDF is covered by the extract package's own
// tests; a minimal PDF with extractable text cannot be assembled here.
var extractableExtensions = []string{".docx", ".xlsx", ".pptx", ".odp", ".ods"}

// fixtureBytes renders text as a file of the given extension. Document types
// wrap the text in the smallest container the extractor accepts; anything
// else passes through as raw bytes.
func fixtureBytes(ext, text string) []byte {
	switch ext {
	case ".docx":
		return wordFixture(text)
	case ".pptx":
		return slidesFixture(text)
	case ".odp":
		return odpFixture(text)
	case ".ods":
		return odsFixture(text)
	case ".xlsx":
		return excelFixture(text)
	default:
		return []byte(text)
	}
}

func wordFixture(text string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func slidesFixture(text string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("ppt/slides/slide1.xml")
	_, _ = fw.Write([]byte(`<p:sld xmlns:p="a" xmlns:a="b"><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`))
	_ = w.Close()
	return buf.Bytes()
}

func odpFixture(text string) []byte {
	contentXML := `<office:document><office:body><draw:page><draw:text-box><text:p>` + text + `</text:p></draw:text-box></draw:page></office:body></office:document>`
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("content.xml")
	_, _ = fw.Write([]byte(contentXML))
	_ = w.Close()
	return buf.Bytes()
}

func odsFixture(text string) []byte {
	contentXML := `<office:document><office:body><table:table><table:table-row><table:table-cell><text:p>` + text + `</text:p></table:table-cell></table:table-row></table:table></office:body></office:document>`
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("content.xml")
	_, _ = fw.Write([]byte(contentXML))
	_ = w.Close()
	return buf.Bytes()
}

func excelFixture(text string) []byte {
	f := excelize.NewFile()
	defer f.Close()
	_ = f.SetCellValue("Sheet1", "A1", text)
	var buf bytes.Buffer
	_, _ = f.WriteTo(&buf)
	return buf.Bytes()
}
