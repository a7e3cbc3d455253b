package extract

import (
	"strings"
	"unicode/utf8"
)

// binarySniffLen is how many leading bytes are sampled to decide whether
// content is text.
const binarySniffLen = 512

// looksBinary samples the start of content. A NUL byte, or more than 30%
// non-printable bytes outside common whitespace, marks the content binary.
// High bytes are not counted so multi-byte UTF-8 text passes.
func looksBinary(content []byte) bool {
	sample := content
	if len(sample) > binarySniffLen {
		sample = sample[:binarySniffLen]
	}
	nonPrintable := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			nonPrintable++
		}
	}
	return len(sample) > 0 && nonPrintable > len(sample)*30/100
}

// extractPlain returns content as a string after checking it looks like
// text. Invalid UTF-8 sequences are replaced with the replacement character
// so downstream regex matching never sees broken encoding.
func extractPlain(content []byte) (string, error) {
	if looksBinary(content) {
		return "", ErrBinary
	}
	if !utf8.Valid(content) {
		content = []byte(strings.ToValidUTF8(string(content), "�"))
	}
	return string(content), nil
}
