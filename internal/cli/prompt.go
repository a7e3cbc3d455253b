package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperjump/mitsuke/internal/config"
	"github.com/hyperjump/mitsuke/internal/models"
	"github.com/hyperjump/mitsuke/internal/pattern"
	"github.com/hyperjump/mitsuke/pkg/utils"
)

// LineReader reads one line of user input (injectable for testing).
type LineReader interface {
	ReadString(delim byte) (string, error)
}

// StdinReader wraps a buffered os.Stdin reader.
type StdinReader struct {
	reader *bufio.Reader
}

// NewStdinReader returns a LineReader over os.Stdin.
func NewStdinReader() *StdinReader {
	return &StdinReader{reader: bufio.NewReader(os.Stdin)}
}

func (s *StdinReader) ReadString(delim byte) (string, error) {
	return s.reader.ReadString(delim)
}

// Prompt collects search parameters interactively, seeding answers with the
// configured defaults.
type Prompt struct {
	reader LineReader
	out    io.Writer
	cfg    *config.Config
}

// NewPrompt creates a prompt that reads answers from reader and writes
// questions to out.
func NewPrompt(reader LineReader, out io.Writer, cfg *config.Config) *Prompt {
	return &Prompt{reader: reader, out: out, cfg: cfg}
}

// Collect walks the user through one search request. Empty answers take the
// shown default. The request is returned unvalidated; the engine validates.
func (p *Prompt) Collect() (*models.SearchRequest, error) {
	req := &models.SearchRequest{}

	root, err := p.ask("Search root", ".")
	if err != nil {
		return nil, err
	}
	req.Root = root

	raw, err := p.ask("Name pattern (glob, ~fuzzy, or bare term)", "*")
	if err != nil {
		return nil, err
	}
	req.Pattern = WrapBarePattern(raw)

	req.DirsOnly, err = p.askBool("Directories only", false)
	if err != nil {
		return nil, err
	}

	if !req.DirsOnly && len(p.cfg.Presets) > 0 {
		names := presetNames(p.cfg.Presets)
		choice, err := p.ask("Preset ("+strings.Join(names, ", ")+"; empty for none)", "")
		if err != nil {
			return nil, err
		}
		if choice != "" {
			preset, ok := p.cfg.Presets[choice]
			if !ok {
				fmt.Fprintf(p.out, "unknown preset %q, continuing without one\n", choice)
			} else if err := ApplyPreset(req, preset); err != nil {
				return nil, err
			}
		}
	}

	if !req.DirsOnly && len(req.Extensions) == 0 {
		exts, err := p.ask("Extensions (comma separated, empty for all)", "")
		if err != nil {
			return nil, err
		}
		req.Extensions = splitList(exts)
	}

	if !req.DirsOnly {
		if req.MinSize == 0 {
			req.MinSize, err = p.askSize("Min size")
			if err != nil {
				return nil, err
			}
		}
		if req.MaxSize == 0 {
			req.MaxSize, err = p.askSize("Max size")
			if err != nil {
				return nil, err
			}
		}
	}

	excludes, err := p.ask("Extra excluded dirs (comma separated)", "")
	if err != nil {
		return nil, err
	}
	req.Excludes = append(req.Excludes, splitList(excludes)...)

	if !req.DirsOnly && req.ContentPattern == "" {
		req.ContentPattern, err = p.ask("Content pattern (regex or ~fuzzy, empty for none)", "")
		if err != nil {
			return nil, err
		}
	}

	if !req.DirsOnly {
		req.ShowPreview, err = p.askBool("Show previews", p.cfg.Display.ShowPreviewOrDefault())
		if err != nil {
			return nil, err
		}
	}

	sortBy, err := p.ask("Sort by (path, size, modified, matches)", p.cfg.Display.SortBy)
	if err != nil {
		return nil, err
	}
	req.SortBy = models.SortKey(sortBy)

	req.SortReverse, err = p.askBool("Reverse order", p.cfg.Display.SortReverse)
	if err != nil {
		return nil, err
	}

	limitRaw, err := p.ask("Max results", strconv.Itoa(p.cfg.Search.MaxResults))
	if err != nil {
		return nil, err
	}
	if limit, convErr := strconv.Atoi(limitRaw); convErr == nil && limit > 0 {
		req.MaxResults = limit
	} else {
		req.MaxResults = p.cfg.Search.MaxResults
	}

	return req, nil
}

// ask prints a question and returns the trimmed answer, or def when the
// answer is empty.
func (p *Prompt) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (p *Prompt) askBool(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := p.ask(fmt.Sprintf("%s (%s)", label, hint), "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return def, nil
	}
}

// askSize loops until the answer parses as a size ("10K", "1.5M") or is
// empty, which means no bound.
func (p *Prompt) askSize(label string) (int64, error) {
	for {
		answer, err := p.ask(label+" (e.g. 10K, 1M; empty for none)", "")
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return 0, nil
		}
		size, err := utils.ParseSize(answer)
		if err != nil {
			fmt.Fprintf(p.out, "invalid size %q, try again\n", answer)
			continue
		}
		return size, nil
	}
}

// ApplyPreset copies a preset's filters onto req. Size strings are parsed
// with utils.ParseSize; multiple content patterns are joined as regex
// alternatives.
func ApplyPreset(req *models.SearchRequest, preset config.Preset) error {
	if len(preset.Extensions) > 0 {
		req.Extensions = append([]string(nil), preset.Extensions...)
	}
	req.Excludes = append(req.Excludes, preset.ExcludeDirs...)
	if preset.MinSize != "" {
		size, err := utils.ParseSize(preset.MinSize)
		if err != nil {
			return fmt.Errorf("preset min size: %w", err)
		}
		req.MinSize = size
	}
	if preset.MaxSize != "" {
		size, err := utils.ParseSize(preset.MaxSize)
		if err != nil {
			return fmt.Errorf("preset max size: %w", err)
		}
		req.MaxSize = size
	}
	if len(preset.ContentPatterns) > 0 {
		req.ContentPattern = strings.Join(preset.ContentPatterns, "|")
	}
	return nil
}

// WrapBarePattern turns a bare term into a substring glob, so "readme"
// matches readme.md. Anything already using glob or fuzzy syntax passes
// through unchanged; an empty term matches everything.
func WrapBarePattern(s string) string {
	if s == "" {
		return "*"
	}
	if strings.ContainsAny(s, "*?[{") || strings.HasPrefix(s, pattern.FuzzyPrefix) {
		return s
	}
	return "*" + s + "*"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func presetNames(presets map[string]config.Preset) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
