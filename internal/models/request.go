// Package models defines the request and result types shared across the
// search engine, CLI, and history store.
package models

import (
	"fmt"
	"strings"
)

// SortKey identifies the field a result set is ordered by.
type SortKey string

const (
	SortByPath     SortKey = "path"
	SortBySize     SortKey = "size"
	SortByModified SortKey = "modified"
	SortByMatches  SortKey = "matches"
)

// DefaultMaxResults caps a request that did not set an explicit limit.
const DefaultMaxResults = 100

// SearchRequest describes one search over a directory tree.
type SearchRequest struct {
	Root           string   `json:"root"`
	Pattern        string   `json:"pattern"`
	DirsOnly       bool     `json:"dirs_only,omitempty"`
	Extensions     []string `json:"extensions,omitempty"`     // e.g. [".py", ".js"]; bare "py" is accepted too
	MinSize        int64    `json:"min_size,omitempty"`       // bytes; 0 disables
	MaxSize        int64    `json:"max_size,omitempty"`       // bytes; 0 disables
	Excludes       []string `json:"excludes,omitempty"`       // pruned subtrees, merged with configured defaults
	ContentPattern string   `json:"content_pattern,omitempty"`
	ShowPreview    bool     `json:"show_preview,omitempty"`
	SortBy         SortKey  `json:"sort_by,omitempty"`
	SortReverse    bool     `json:"sort_reverse,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	Workers        int      `json:"workers,omitempty"` // content worker override; 0 uses the configured value
}

// Validate ensures the request has valid fields and sets defaults.
// Returns an error for a missing root or unknown sort key; otherwise
// normalizes the sort key, result cap, and extension spellings.
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Root) == "" {
		return fmt.Errorf("root cannot be empty")
	}
	switch r.SortBy {
	case "":
		r.SortBy = SortByPath
	case SortByPath, SortBySize, SortByModified, SortByMatches:
	default:
		return fmt.Errorf("unknown sort key %q", r.SortBy)
	}
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.MinSize > 0 && r.MaxSize > 0 && r.MinSize > r.MaxSize {
		return fmt.Errorf("min size %d exceeds max size %d", r.MinSize, r.MaxSize)
	}
	for i, ext := range r.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.Extensions[i] = ext
	}
	return nil
}

// HasContentPattern reports whether the request filters on file content.
func (r *SearchRequest) HasContentPattern() bool {
	return r.ContentPattern != ""
}
