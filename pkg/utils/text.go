// Package utils provides shared utilities for text, sizes, and logging.
package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged. Truncation counts runes, so
// multi-byte text is never split mid-character.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// CollapseSpace replaces every run of whitespace (including newlines and tabs)
// with a single space and trims the ends. Useful for one-line previews of
// multi-line content.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
