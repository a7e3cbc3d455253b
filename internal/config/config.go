// Package config provides configuration loading and structs for the mitsuke CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool              `yaml:"debug"`
	Search  SearchConfig      `yaml:"search"`
	Display DisplayConfig     `yaml:"display"`
	History HistoryConfig     `yaml:"history"`
	Watch   WatchConfig       `yaml:"watch"`
	Presets map[string]Preset `yaml:"presets"`
}

// SearchConfig holds traversal and matching settings.
type SearchConfig struct {
	// FuzzyThreshold is the similarity floor (0-100) for "~" patterns.
	FuzzyThreshold int `yaml:"fuzzy_threshold"`
	// MaxResults caps result sets when a request sets no explicit limit.
	MaxResults int `yaml:"max_results"`
	// DefaultExcludes are pruned from every search in addition to the
	// request's own excludes.
	DefaultExcludes []string `yaml:"default_excludes"`
	// BinarySizeLimit is the largest file (bytes) content search will open.
	BinarySizeLimit int64 `yaml:"binary_size_limit"`
	// CacheSizeLimit is the largest extracted content (bytes) kept in the
	// per-search cache.
	CacheSizeLimit int64 `yaml:"cache_size_limit"`
	// FollowSymlinks descends into symlinked directories (cycle-guarded).
	FollowSymlinks bool `yaml:"follow_symlinks"`
	// SearchHidden includes dot-prefixed entries.
	SearchHidden bool `yaml:"search_hidden"`
	// Workers bounds concurrent content matching; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

// DisplayConfig holds result rendering settings.
type DisplayConfig struct {
	DateFormat    string `yaml:"date_format"`
	SortBy        string `yaml:"sort_by"`
	SortReverse   bool   `yaml:"sort_reverse"`
	ShowPreview   *bool  `yaml:"show_preview"`
	PreviewLength int    `yaml:"preview_length"`
}

// ShowPreviewOrDefault returns whether to attach previews; defaults to true
// when unset.
func (d *DisplayConfig) ShowPreviewOrDefault() bool {
	if d.ShowPreview != nil {
		return *d.ShowPreview
	}
	return true
}

// HistoryConfig holds search history persistence settings.
type HistoryConfig struct {
	Enabled      *bool  `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
	MaxEntries   int    `yaml:"max_entries"`
}

// EnabledOrDefault returns whether history is recorded; defaults to true
// when unset.
func (h *HistoryConfig) EnabledOrDefault() bool {
	if h.Enabled != nil {
		return *h.Enabled
	}
	return true
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	// DebounceMS is how long changes must settle before a re-search fires.
	DebounceMS int `yaml:"debounce_ms"`
}

// Preset is a named bundle of search filters.
type Preset struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Extensions      []string `yaml:"extensions"`
	ExcludeDirs     []string `yaml:"exclude_dirs"`
	MinSize         string   `yaml:"min_size"`
	MaxSize         string   `yaml:"max_size"`
	ContentPatterns []string `yaml:"content_patterns"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands stored paths. Returns an error if the file cannot be read or
// parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.History.DatabasePath = expandPath(cfg.History.DatabasePath, filepath.Dir(path))
	return &cfg, nil
}

// Default returns the built-in configuration used when no config file
// exists.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.History.DatabasePath = expandPath(cfg.History.DatabasePath, ".")
	return cfg
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
