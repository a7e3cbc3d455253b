// Package exclude decides which paths a search prunes. A pruned directory is
// never descended into, so exclusion is transitive over whole subtrees.
package exclude

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter holds exclusion patterns. An entry excludes a path when it equals
// any path segment (e.g. "node_modules" anywhere in the tree) or when it
// matches the whole root-relative path as a glob (e.g. "build/**"). A nil or
// empty Filter excludes nothing.
type Filter struct {
	patterns []string
}

// NewFilter combines per-request excludes with configured defaults.
// Duplicates are dropped, order is preserved.
func NewFilter(excludes, defaults []string) *Filter {
	seen := make(map[string]bool, len(excludes)+len(defaults))
	patterns := make([]string, 0, len(excludes)+len(defaults))
	for _, p := range append(append([]string{}, excludes...), defaults...) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		patterns = append(patterns, p)
	}
	return &Filter{patterns: patterns}
}

// ShouldPrune reports whether relPath (slash-separated, relative to the
// search root) is excluded. A malformed glob pattern is skipped rather than
// failing the walk.
func (f *Filter) ShouldPrune(relPath string) bool {
	if f == nil || len(f.patterns) == 0 {
		return false
	}
	if relPath == "" || relPath == "." {
		return false
	}
	segments := strings.Split(relPath, "/")
	for _, pat := range f.patterns {
		for _, seg := range segments {
			if seg == pat {
				return true
			}
		}
		matched, err := doublestar.Match(pat, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Patterns returns the effective exclusion patterns in order.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return f.patterns
}
