// Package pattern decides whether entry names and file contents match a
// search pattern. Name patterns are case-insensitive globs with `*`, `?`,
// `[...]`, and `{a,b}` alternation; a leading `~` switches to fuzzy
// similarity scoring. Content patterns are case-insensitive regular
// expressions with a literal fallback for malformed input.
package pattern

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hbollon/go-edlib"
)

// FuzzyPrefix marks a pattern as fuzzy: "~readme" matches names whose
// similarity to "readme" meets the configured threshold.
const FuzzyPrefix = "~"

// Matcher evaluates name and content patterns. It is stateless after
// construction and safe for concurrent use.
type Matcher struct {
	threshold int // fuzzy similarity floor, 0-100 inclusive
}

// NewMatcher returns a Matcher with the given fuzzy threshold. Values
// outside 0-100 are clamped.
func NewMatcher(threshold int) *Matcher {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 100 {
		threshold = 100
	}
	return &Matcher{threshold: threshold}
}

// MatchesName reports whether name matches the pattern. An empty pattern and
// the bare "*" match everything. A "~"-prefixed pattern is scored fuzzily
// against the threshold; any other pattern is a case-insensitive glob.
// A malformed glob matches nothing rather than failing the search.
func (m *Matcher) MatchesName(name, pat string) bool {
	if pat == "" || pat == "*" {
		return true
	}
	if strings.HasPrefix(pat, FuzzyPrefix) {
		target := strings.TrimPrefix(pat, FuzzyPrefix)
		return m.Similarity(name, target) >= m.threshold
	}
	matched, err := doublestar.Match(strings.ToLower(pat), strings.ToLower(name))
	if err != nil {
		return false
	}
	return matched
}

// MatchesContent reports whether content matches the pattern, and how many
// times. A "~"-prefixed pattern scores the whole content fuzzily and counts
// as a single match. Any other pattern compiles as a case-insensitive
// regular expression; if compilation fails the pattern is matched literally.
// The count is of non-overlapping matches.
func (m *Matcher) MatchesContent(content, pat string) (bool, int) {
	if pat == "" {
		return true, 0
	}
	if strings.HasPrefix(pat, FuzzyPrefix) {
		target := strings.TrimPrefix(pat, FuzzyPrefix)
		if m.Similarity(content, target) >= m.threshold {
			return true, 1
		}
		return false, 0
	}
	re, err := regexp.Compile("(?i)" + pat)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(pat))
	}
	n := len(re.FindAllStringIndex(content, -1))
	return n > 0, n
}

// Similarity scores a against b on a 0-100 scale using Jaro-Winkler, which
// favors strings sharing a common prefix - a good fit for file names.
func (m *Matcher) Similarity(a, b string) int {
	score, err := edlib.StringsSimilarity(strings.ToLower(a), strings.ToLower(b), edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return int(score * 100)
}

// Threshold returns the fuzzy similarity floor the matcher was built with.
func (m *Matcher) Threshold() int {
	return m.threshold
}
