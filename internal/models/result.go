package models

import "time"

// EntryKind distinguishes file and directory records.
type EntryKind string

const (
	KindFile EntryKind = "file"
	KindDir  EntryKind = "dir"
)

// SearchStatus says how a search ended.
type SearchStatus string

const (
	// StatusCompleted means traversal and filtering ran to the end.
	StatusCompleted SearchStatus = "completed"
	// StatusStoppedByUser means a cancellation signal cut the search short;
	// the records are a valid subset of the full result set.
	StatusStoppedByUser SearchStatus = "stopped_by_user"
	// StatusCapReached means more entries matched than the result cap allows.
	StatusCapReached SearchStatus = "result_cap_reached"
)

// ResultRecord is one matched filesystem entry.
type ResultRecord struct {
	Path       string    `json:"path"` // relative to the search root, slash-separated
	Kind       EntryKind `json:"kind"`
	SizeBytes  int64     `json:"size_bytes"`
	Size       string    `json:"size"` // human-scaled, e.g. "1.5K"
	ModTime    time.Time `json:"mod_time"`
	Modified   string    `json:"modified"` // ModTime rendered with the configured date format
	MatchCount int       `json:"match_count,omitempty"`
	Preview    string    `json:"preview,omitempty"`
}

// SearchOutcome is the finalized result set handed to renderers and history.
type SearchOutcome struct {
	Records []*ResultRecord `json:"records"`
	Status  SearchStatus    `json:"status"`
	Total   int             `json:"total"`
	// SkippedEntries counts directories and files that could not be read and
	// were absorbed rather than failing the search.
	SkippedEntries int64  `json:"skipped_entries,omitempty"`
	QueryTime      int64  `json:"query_time_ms"`
	Root           string `json:"root"`
	Pattern        string `json:"pattern"`
	ContentPattern string `json:"content_pattern,omitempty"`
}
