package e2e

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hyperjump/mitsuke/internal/models"
)

// treeFile is one entry of the fixture project.
type treeFile struct {
	path string // relative, slash-separated
	text string // searchable text; rendered through fixtureBytes by extension
}

// projectFiles returns the fixture project: a small web app with sources,
// docs, office documents, a large log, dependency and VCS directories, and a
// binary asset. Searches assert against this exact layout.
func projectFiles() []treeFile {
	return []treeFile{
		{"README.md", "Mitsuke sample project.\nTODO: write the quickstart section."},
		{"Makefile", "build:\n\tgo build ./...\n"},
		{"src/main.py", "# TODO: handle missing config\nimport util\n\nprint('boot')\n# TODO: add logging\n"},
		{"src/util/helpers.py", "def helper():\n    return 42\n"},
		{"src/index.js", "const app = require('./app');\napp.listen(8080);\n"},
		{"src/app.js", "module.exports = { listen() {} };\n"},
		{"docs/guide.md", "Installation guide.\nRun make install and edit config.yaml."},
		{"docs/api.rst", "API reference\n=============\nEndpoints return JSON."},
		{"docs/checklist.docx", "release checklist TODO verify artifacts"},
		{"reports/q1.xlsx", "quarterly revenue 104200"},
		{"slides/intro.pptx", "welcome to the mitsuke deck"},
		{"notes/plan.odp", "roadmap planning session"},
		{"notes/budget.ods", "budget forecast totals"},
		{"data/events.log", strings.Repeat("event received and archived\n", 1200)},
		{"data/sample.txt", "tiny"},
		{"assets/logo.png", "\x89PNG\x00\x00not really an image\x00"},
		{"node_modules/leftpad/index.js", "module.exports = s => s;"},
		{".git/config", "[core]\n\trepositoryformatversion = 0\n"},
		{".env", "API_KEY=supersecret\n"},
	}
}

// WriteTree materializes the fixture project under root.
func WriteTree(root string) error {
	for _, f := range projectFiles() {
		abs := filepath.Join(root, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(abs, fixtureBytes(path.Ext(f.path), f.text), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// SearchCase is one request plus the assertions its outcome must satisfy.
// The test fills in Request.Root.
type SearchCase struct {
	Name         string
	Request      models.SearchRequest
	SearchHidden bool // engine config toggle for this case
	PreStopped   bool // cancellation raised before the search starts

	WantPaths           []string            // must all be present
	AbsentPaths         []string            // must not appear
	WantTotal           int                 // -1 skips the exact-count check
	WantStatus          models.SearchStatus // "" skips the status check
	WantFirst           string              // leading record path; "" skips
	WantPreviewContains string              // substring of the first record's preview; "" skips
}

// SearchCases covers name matching, content matching, filters, exclusions,
// caps, sorting, previews, and cancellation against the fixture project.
func SearchCases() []SearchCase {
	return []SearchCase{
		{
			Name:       "glob finds python sources",
			Request:    models.SearchRequest{Pattern: "*.py"},
			WantPaths:  []string{"src/main.py", "src/util/helpers.py"},
			WantTotal:  2,
			WantStatus: models.StatusCompleted,
		},
		{
			Name:      "substring wildcard finds the guide",
			Request:   models.SearchRequest{Pattern: "*guide*"},
			WantPaths: []string{"docs/guide.md"},
			WantTotal: 1,
		},
		{
			Name:      "brace alternation spans extensions",
			Request:   models.SearchRequest{Pattern: "*.{md,rst}"},
			WantPaths: []string{"README.md", "docs/guide.md", "docs/api.rst"},
			WantTotal: 3,
		},
		{
			Name:      "fuzzy name matching tolerates the suffix",
			Request:   models.SearchRequest{Pattern: "~readme"},
			WantPaths: []string{"README.md"},
			WantTotal: 1,
		},
		{
			Name:      "content pattern counts matches per file",
			Request:   models.SearchRequest{Pattern: "*", ContentPattern: "TODO"},
			WantPaths: []string{"README.md", "src/main.py", "docs/checklist.docx"},
			WantTotal: 3,
		},
		{
			Name:      "content search reads spreadsheets",
			Request:   models.SearchRequest{Pattern: "*", ContentPattern: "revenue"},
			WantPaths: []string{"reports/q1.xlsx"},
			WantTotal: 1,
		},
		{
			Name:      "content search reads slides",
			Request:   models.SearchRequest{Pattern: "*", ContentPattern: "welcome"},
			WantPaths: []string{"slides/intro.pptx"},
			WantTotal: 1,
		},
		{
			Name:      "content search reads opendocument files",
			Request:   models.SearchRequest{Pattern: "*", ContentPattern: "roadmap"},
			WantPaths: []string{"notes/plan.odp"},
			WantTotal: 1,
		},
		{
			Name:      "regex content pattern",
			Request:   models.SearchRequest{Pattern: "*.py", ContentPattern: `def \w+\(`},
			WantPaths: []string{"src/util/helpers.py"},
			WantTotal: 1,
		},
		{
			Name:      "malformed regex falls back to a literal match",
			Request:   models.SearchRequest{Pattern: "*", ContentPattern: "listen("},
			WantPaths: []string{"src/index.js", "src/app.js"},
			WantTotal: 2,
		},
		{
			Name:      "fuzzy content scores the whole text",
			Request:   models.SearchRequest{Pattern: "*", ContentPattern: "~tiny"},
			WantPaths: []string{"data/sample.txt"},
			WantTotal: 1,
		},
		{
			Name:        "directories only",
			Request:     models.SearchRequest{Pattern: "*", DirsOnly: true},
			WantPaths:   []string{"src", "src/util", "docs", "reports", "slides", "notes", "data", "assets"},
			AbsentPaths: []string{"node_modules", ".git"},
			WantTotal:   8,
		},
		{
			Name:        "request excludes prune whole subtrees",
			Request:     models.SearchRequest{Pattern: "*.py", Excludes: []string{"util"}},
			WantPaths:   []string{"src/main.py"},
			AbsentPaths: []string{"src/util/helpers.py"},
			WantTotal:   1,
		},
		{
			Name:      "minimum size keeps only the log",
			Request:   models.SearchRequest{Pattern: "*", MinSize: 16384},
			WantPaths: []string{"data/events.log"},
			WantTotal: 1,
		},
		{
			Name:        "maximum size drops the log",
			Request:     models.SearchRequest{Pattern: "*", MaxSize: 16384},
			AbsentPaths: []string{"data/events.log"},
			WantTotal:   15,
		},
		{
			Name:        "extension filter skips pruned copies",
			Request:     models.SearchRequest{Pattern: "*", Extensions: []string{"js"}},
			WantPaths:   []string{"src/index.js", "src/app.js"},
			AbsentPaths: []string{"node_modules/leftpad/index.js"},
			WantTotal:   2,
		},
		{
			Name:       "result cap truncates and flags",
			Request:    models.SearchRequest{Pattern: "*", MaxResults: 5},
			WantTotal:  5,
			WantStatus: models.StatusCapReached,
		},
		{
			Name:      "sort by size descending leads with the log",
			Request:   models.SearchRequest{Pattern: "*", SortBy: models.SortBySize, SortReverse: true},
			WantFirst: "data/events.log",
			WantTotal: 16,
		},
		{
			Name:                "previews attach to top results",
			Request:             models.SearchRequest{Pattern: "*guide*", ShowPreview: true},
			WantPaths:           []string{"docs/guide.md"},
			WantTotal:           1,
			WantPreviewContains: "Installation guide.",
		},
		{
			Name:      "hidden entries are skipped by default",
			Request:   models.SearchRequest{Pattern: "*env*"},
			WantTotal: 0,
		},
		{
			Name:         "hidden entries appear when configured",
			Request:      models.SearchRequest{Pattern: "*env*"},
			SearchHidden: true,
			WantPaths:    []string{".env"},
			WantTotal:    1,
		},
		{
			Name:       "stop raised before traversal yields nothing",
			Request:    models.SearchRequest{Pattern: "*"},
			PreStopped: true,
			WantTotal:  0,
			WantStatus: models.StatusStoppedByUser,
		},
	}
}
