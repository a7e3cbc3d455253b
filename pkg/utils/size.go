package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSize converts a human-readable size such as "10K", "1.5M", or "2G"
// into bytes. A bare number is taken as bytes. Units are powers of 1024 and
// case-insensitive: K, M, G, T.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("parse size: empty string")
	}

	multiplier := int64(1)
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1 << 10
	case 'M':
		multiplier = 1 << 20
	case 'G':
		multiplier = 1 << 30
	case 'T':
		multiplier = 1 << 40
	}
	if multiplier > 1 {
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("parse size: negative value %v", n)
	}
	return int64(n * float64(multiplier)), nil
}

// FormatSize converts bytes into a short human-readable form with one decimal
// place, e.g. 1536 -> "1.5K". Units scale by 1024 through B, K, M, G, T.
func FormatSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "K", "M", "G"} {
		if value < 1024 {
			return fmt.Sprintf("%.1f%s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1fT", value)
}
