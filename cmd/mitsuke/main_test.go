package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReorderArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after pattern are moved first",
			args:     []string{"readme", "-content", "TODO"},
			expected: []string{"-content", "TODO", "readme"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-content", "TODO", "readme"},
			expected: []string{"-content", "TODO", "readme"},
		},
		{
			name:     "pattern only returns unchanged",
			args:     []string{"readme"},
			expected: []string{"readme"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"annual", "report", "-limit", "5"},
			expected: []string{"-limit", "5", "annual", "report"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reorderArgs(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("reorderArgs() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildPattern(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"bare term gains wildcards", []string{"readme"}, "*readme*"},
		{"multiple words join with spaces", []string{"annual", "report"}, "*annual report*"},
		{"quoted phrase", []string{"annual report"}, "*annual report*"},
		{"glob passes through", []string{"*.py"}, "*.py"},
		{"brace glob passes through", []string{"{a,b}.md"}, "{a,b}.md"},
		{"fuzzy passes through", []string{"~recipt"}, "~recipt"},
		{"empty args match everything", []string{}, "*"},
		{"blank args match everything", []string{"  ", "  "}, "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPattern(tt.args)
			if got != tt.expected {
				t.Errorf("buildPattern(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestConfigPathFromArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		defaultPath string
		want        string
	}{
		{"no config flag", []string{"-limit", "5", "readme"}, "/default.yaml", "/default.yaml"},
		{"-config present", []string{"-config", "/custom.yaml", "readme"}, "/default.yaml", "/custom.yaml"},
		{"--config present", []string{"--config", "/other.yaml"}, "/default.yaml", "/other.yaml"},
		{"config at end", []string{"readme", "-config", "/end.yaml"}, "/default.yaml", "/end.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := configPathFromArgs(tt.args, tt.defaultPath)
			if got != tt.want {
				t.Errorf("configPathFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"py", []string{"py"}},
		{"py,js", []string{"py", "js"}},
		{" py , js ", []string{"py", "js"}},
		{"py,,js,", []string{"py", "js"}},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
search:
  max_results: 25
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir()
	// is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
	if cfg.Search.MaxResults != 25 {
		t.Errorf("max results = %d, want 25", cfg.Search.MaxResults)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
search:
  max_results: 7
  search_hidden: true
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Search.MaxResults != 7 || !cfg.Search.SearchHidden {
		t.Errorf("unexpected search config: %+v", cfg.Search)
	}
}

func TestLoadConfig_missingExplicitPathIsError(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadConfig_missingDefaultUsesBuiltins(t *testing.T) {
	orig := defaultConfigPath
	defaultConfigPath = filepath.Join(t.TempDir(), "absent", "config.yaml")
	defer func() { defaultConfigPath = orig }()

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	// An empty cwd so the config.yaml fallback misses too.
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want empty for built-in defaults", resolved)
	}
	if cfg.Search.MaxResults != 100 || cfg.Search.FuzzyThreshold != 80 {
		t.Errorf("unexpected defaults: %+v", cfg.Search)
	}
}
