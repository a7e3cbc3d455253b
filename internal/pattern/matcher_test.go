package pattern

import (
	"testing"
)

func TestMatchesName_glob(t *testing.T) {
	m := NewMatcher(80)
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"main.py", "*.py", true},
		{"main.py", "*.js", false},
		{"main.PY", "*.py", true},
		{"main.py", "*.PY", true},
		{"config.yaml", "config.????", true},
		{"config.yml", "config.????", false},
		{"app.ts", "*.{js,ts}", true},
		{"app.jsx", "*.{js,ts}", false},
		{"README.md", "readme*", true},
		{"notes.txt", "notes.txt", true},
		{"notes.txt", "other.txt", false},
		{"anything", "", true},
		{"anything", "*", true},
		{"file[1].txt", "file\\[1\\].txt", true},
	}
	for _, tt := range tests {
		if got := m.MatchesName(tt.name, tt.pattern); got != tt.want {
			t.Errorf("MatchesName(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
		}
	}
}

func TestMatchesName_malformedGlobMatchesNothing(t *testing.T) {
	m := NewMatcher(80)
	if m.MatchesName("anything", "[unclosed") {
		t.Error("malformed glob should not match")
	}
}

func TestMatchesName_fuzzy(t *testing.T) {
	m := NewMatcher(80)
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"readme", "~readme", true},
		{"readme.md", "~readme", true},
		{"README.md", "~readme", true},
		{"zzz.bin", "~readme", false},
	}
	for _, tt := range tests {
		if got := m.MatchesName(tt.name, tt.pattern); got != tt.want {
			t.Errorf("MatchesName(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
		}
	}
}

// Raising the threshold can only shrink the set of fuzzy matches.
func TestFuzzyThresholdMonotonic(t *testing.T) {
	names := []string{"readme", "readme.md", "read.me", "redme", "notes", "zzz"}
	prev := len(names) + 1
	for threshold := 0; threshold <= 100; threshold += 10 {
		m := NewMatcher(threshold)
		count := 0
		for _, name := range names {
			if m.MatchesName(name, "~readme") {
				count++
			}
		}
		if count > prev {
			t.Fatalf("threshold %d matched %d names, more than %d at the lower threshold", threshold, count, prev)
		}
		prev = count
	}
}

func TestMatchesContent_regex(t *testing.T) {
	m := NewMatcher(80)

	matched, count := m.MatchesContent("TODO: fix\nlater TODO: test", "TODO")
	if !matched || count != 2 {
		t.Errorf("got (%v, %d), want (true, 2)", matched, count)
	}

	matched, count = m.MatchesContent("todo here", "TODO")
	if !matched || count != 1 {
		t.Errorf("case-insensitive: got (%v, %d), want (true, 1)", matched, count)
	}

	matched, count = m.MatchesContent("def foo():\ndef bar():", `def \w+\(`)
	if !matched || count != 2 {
		t.Errorf("regex: got (%v, %d), want (true, 2)", matched, count)
	}

	matched, count = m.MatchesContent("nothing here", "TODO")
	if matched || count != 0 {
		t.Errorf("no match: got (%v, %d), want (false, 0)", matched, count)
	}
}

func TestMatchesContent_malformedRegexFallsBackToLiteral(t *testing.T) {
	m := NewMatcher(80)

	// "count(" does not compile as a regex; it should still match literally.
	matched, count := m.MatchesContent("x := count( items )", "count(")
	if !matched || count != 1 {
		t.Errorf("got (%v, %d), want (true, 1)", matched, count)
	}
	matched, _ = m.MatchesContent("no call here", "count(")
	if matched {
		t.Error("literal fallback should not match absent text")
	}
}

func TestMatchesContent_fuzzy(t *testing.T) {
	m := NewMatcher(80)

	matched, count := m.MatchesContent("hello world", "~hello wrld")
	if !matched || count != 1 {
		t.Errorf("fuzzy content: got (%v, %d), want (true, 1)", matched, count)
	}
	matched, _ = m.MatchesContent("completely different text", "~zzzzqqqq")
	if matched {
		t.Error("dissimilar fuzzy content should not match")
	}
}

func TestMatchesContent_emptyPatternMatchesAll(t *testing.T) {
	m := NewMatcher(80)
	matched, count := m.MatchesContent("anything", "")
	if !matched || count != 0 {
		t.Errorf("got (%v, %d), want (true, 0)", matched, count)
	}
}

func TestNewMatcher_clampsThreshold(t *testing.T) {
	if got := NewMatcher(-5).Threshold(); got != 0 {
		t.Errorf("negative threshold clamped to %d, want 0", got)
	}
	if got := NewMatcher(150).Threshold(); got != 100 {
		t.Errorf("oversized threshold clamped to %d, want 100", got)
	}
}
