// Package cli renders search outcomes and collects search parameters
// interactively.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/hyperjump/mitsuke/internal/history"
	"github.com/hyperjump/mitsuke/internal/models"
)

// OutputFormat is the format for result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// Renderer writes search outcomes to a stream. Color is applied only when
// the stream is a terminal.
type Renderer struct {
	w     io.Writer
	color bool
}

// NewRenderer creates a renderer for w.
func NewRenderer(w io.Writer) *Renderer {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{w: w, color: useColor}
}

// WriteOutcome writes a search outcome in the given format. Use OutputJSON
// for parseable output consumable by other tools.
func (r *Renderer) WriteOutcome(outcome *models.SearchOutcome, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	default:
		r.writeOutcomeText(outcome)
		return nil
	}
}

func (r *Renderer) writeOutcomeText(outcome *models.SearchOutcome) {
	header := fmt.Sprintf("Found %d results in %dms", outcome.Total, outcome.QueryTime)
	fmt.Fprintf(r.w, "\n%s\n", r.paint(color.New(color.Bold), header))

	if len(outcome.Records) > 0 {
		fmt.Fprintln(r.w)
		r.writeTable(outcome.Records, outcome.ContentPattern != "")
	}

	warn := color.New(color.FgYellow)
	switch outcome.Status {
	case models.StatusStoppedByUser:
		fmt.Fprintf(r.w, "\n%s\n", r.paint(warn, "Search stopped by user; results may be incomplete."))
	case models.StatusCapReached:
		msg := fmt.Sprintf("Result cap reached; showing the first %d matches.", outcome.Total)
		fmt.Fprintf(r.w, "\n%s\n", r.paint(warn, msg))
	}
	if outcome.SkippedEntries > 0 {
		msg := fmt.Sprintf("Skipped %d unreadable entries.", outcome.SkippedEntries)
		fmt.Fprintf(r.w, "%s\n", r.paint(warn, msg))
	}
}

// writeTable lays the records out in runewidth-aligned columns so wide
// characters in paths do not shear the table.
func (r *Renderer) writeTable(records []*models.ResultRecord, withMatches bool) {
	pathW := runewidth.StringWidth("PATH")
	sizeW := runewidth.StringWidth("SIZE")
	modW := runewidth.StringWidth("MODIFIED")
	for _, rec := range records {
		if w := runewidth.StringWidth(displayPath(rec)); w > pathW {
			pathW = w
		}
		if w := runewidth.StringWidth(rec.Size); w > sizeW {
			sizeW = w
		}
		if w := runewidth.StringWidth(rec.Modified); w > modW {
			modW = w
		}
	}

	head := runewidth.FillRight("PATH", pathW) + "  " +
		runewidth.FillLeft("SIZE", sizeW) + "  " +
		runewidth.FillRight("MODIFIED", modW)
	if withMatches {
		head += "  MATCHES"
	}
	fmt.Fprintln(r.w, r.paint(color.New(color.Bold), head))
	fmt.Fprintln(r.w, strings.Repeat("-", runewidth.StringWidth(head)))

	for _, rec := range records {
		// Pad first, colorize after, so escape codes don't skew the columns.
		path := runewidth.FillRight(displayPath(rec), pathW)
		if rec.Kind == models.KindDir {
			path = r.paint(color.New(color.FgCyan), path)
		}
		row := path + "  " +
			runewidth.FillLeft(rec.Size, sizeW) + "  " +
			runewidth.FillRight(rec.Modified, modW)
		if withMatches {
			row += fmt.Sprintf("  %d", rec.MatchCount)
		}
		fmt.Fprintln(r.w, row)
		if rec.Preview != "" {
			fmt.Fprintf(r.w, "    %s\n", r.paint(color.New(color.Faint), rec.Preview))
		}
	}
}

// WriteHistory writes past searches, newest first. dateFormat is the
// configured display date format.
func (r *Renderer) WriteHistory(entries []*history.Entry, dateFormat string, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(r.w, "No searches recorded yet.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-24s %s", e.ExecutedAt.Format(dateFormat), e.Pattern, e.Root)
		if e.ContentPattern != "" {
			line += fmt.Sprintf("  content=%q", e.ContentPattern)
		}
		line += fmt.Sprintf("  (%d results, %dms, %s)", e.ResultCount, e.DurationMS, e.Status)
		fmt.Fprintln(r.w, line)
	}
	return nil
}

func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.color {
		return s
	}
	return c.Sprint(s)
}

func displayPath(rec *models.ResultRecord) string {
	if rec.Kind == models.KindDir {
		return rec.Path + "/"
	}
	return rec.Path
}
