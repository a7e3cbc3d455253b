// Package main is the mitsuke CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/mitsuke/internal/cancel"
	"github.com/hyperjump/mitsuke/internal/cli"
	"github.com/hyperjump/mitsuke/internal/config"
	"github.com/hyperjump/mitsuke/internal/exclude"
	"github.com/hyperjump/mitsuke/internal/extract"
	"github.com/hyperjump/mitsuke/internal/history"
	"github.com/hyperjump/mitsuke/internal/models"
	"github.com/hyperjump/mitsuke/internal/pattern"
	"github.com/hyperjump/mitsuke/internal/search"
	"github.com/hyperjump/mitsuke/internal/traverse"
	"github.com/hyperjump/mitsuke/internal/watcher"
	"github.com/hyperjump/mitsuke/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

// defaultConfigPath is ~/.mitsuke/config.yaml, or ./config.yaml when the
// home directory cannot be resolved.
var defaultConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".mitsuke", "config.yaml")
}()

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if neither
// exists the built-in defaults are used, so mitsuke works without any setup.
// An explicit path that cannot be read is always an error. Returns the config
// and the path that was actually loaded (empty for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		runInteractive(nil)
		return
	}
	command := os.Args[1]
	switch command {
	case "search":
		runSearch()
	case "interactive":
		runInteractive(os.Args[2:])
	case "watch":
		runWatch()
	case "history":
		runHistory()
	case "presets":
		runPresets()
	case "version", "--version", "-v":
		fmt.Printf("mitsuke version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Engine  *search.Engine
	History *history.Store
}

func (c *Components) Close() {
	if c.History != nil {
		_ = c.History.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	matcher := pattern.NewMatcher(cfg.Search.FuzzyThreshold)

	walkOpts := []traverse.WalkerOption{}
	if debug && logger != nil {
		walkOpts = append(walkOpts, traverse.WithLogger(logger))
	}
	walker := traverse.NewWalker(walkOpts...)

	engineOpts := []search.Option{}
	if debug && logger != nil {
		engineOpts = append(engineOpts, search.WithLogger(logger))
	}
	engine := search.NewEngine(matcher, walker, extract.NewExtractor(), &cfg.Search, &cfg.Display, engineOpts...)

	var store *history.Store
	if cfg.History.EnabledOrDefault() {
		var err error
		store, err = history.NewStore(cfg.History.DatabasePath, cfg.History.MaxEntries)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize history: %w", err)
		}
	}

	return &Components{Engine: engine, History: store}, nil
}

// searchFlags holds the flags shared by the search and watch subcommands.
// Defaults are seeded from config so a flag only overrides what it names.
type searchFlags struct {
	root    *string
	dirs    *bool
	ext     *string
	minSize *string
	maxSize *string
	exclude *string
	content *string
	preset  *string
	limit   *int
	sortBy  *string
	reverse *bool
	preview *bool
	workers *int
}

func registerSearchFlags(fs *flag.FlagSet, cfg *config.Config) *searchFlags {
	return &searchFlags{
		root:    fs.String("root", ".", "directory to search"),
		dirs:    fs.Bool("dirs", false, "match directories instead of files"),
		ext:     fs.String("ext", "", "comma-separated extension filter (e.g. py,js)"),
		minSize: fs.String("min-size", "", "minimum file size (e.g. 10K, 1M)"),
		maxSize: fs.String("max-size", "", "maximum file size (e.g. 100M)"),
		exclude: fs.String("exclude", "", "comma-separated directories to prune"),
		content: fs.String("content", "", "content pattern: regex, or ~term for fuzzy"),
		preset:  fs.String("preset", "", "apply a named preset from config"),
		limit:   fs.Int("limit", cfg.Search.MaxResults, "maximum number of results"),
		sortBy:  fs.String("sort", cfg.Display.SortBy, "sort key: path, size, modified, or matches"),
		reverse: fs.Bool("reverse", cfg.Display.SortReverse, "reverse the sort order"),
		preview: fs.Bool("preview", cfg.Display.ShowPreviewOrDefault(), "attach content previews to top results"),
		workers: fs.Int("workers", cfg.Search.Workers, "concurrent content-matching workers (0 = one per CPU)"),
	}
}

// buildRequest assembles a SearchRequest from parsed flags and the positional
// name pattern. Size strings and the preset are resolved here so the error
// mentions the flag the user typed.
func (f *searchFlags) buildRequest(positional []string, cfg *config.Config) (*models.SearchRequest, error) {
	req := &models.SearchRequest{
		Root:           *f.root,
		Pattern:        buildPattern(positional),
		DirsOnly:       *f.dirs,
		Extensions:     splitList(*f.ext),
		Excludes:       splitList(*f.exclude),
		ContentPattern: *f.content,
		ShowPreview:    *f.preview,
		SortBy:         models.SortKey(*f.sortBy),
		SortReverse:    *f.reverse,
		MaxResults:     *f.limit,
		Workers:        *f.workers,
	}
	if *f.minSize != "" {
		n, err := utils.ParseSize(*f.minSize)
		if err != nil {
			return nil, fmt.Errorf("invalid -min-size: %w", err)
		}
		req.MinSize = n
	}
	if *f.maxSize != "" {
		n, err := utils.ParseSize(*f.maxSize)
		if err != nil {
			return nil, fmt.Errorf("invalid -max-size: %w", err)
		}
		req.MaxSize = n
	}
	if *f.preset != "" {
		preset, ok := cfg.Presets[*f.preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q; run \"mitsuke presets\" to list them", *f.preset)
		}
		if err := cli.ApplyPreset(req, preset); err != nil {
			return nil, fmt.Errorf("preset %q: %w", *f.preset, err)
		}
	}
	return req, nil
}

// buildPattern joins all positional args with spaces so names containing
// spaces work with or without shell quoting, then wraps bare terms as
// substring globs the way the interactive prompt does.
func buildPattern(args []string) string {
	return cli.WrapBarePattern(strings.TrimSpace(strings.Join(args, " ")))
}

// configPathFromArgs returns the value of -config/--config from args if
// present, else defaultPath. The flags are pre-scanned so the config can
// seed flag defaults before flag.Parse runs.
func configPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultPath
}

// reorderArgs moves any flags (and their values) that appear after the name
// pattern to the front of the slice so that flag.Parse() sees them. Go's
// flag package stops at the first non-flag argument, so
// "mitsuke search readme -content TODO" would otherwise leave -content
// unparsed.
func reorderArgs(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
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

// searchOnce runs one search with keypress cancellation and records it in
// history. The stop-key hint goes to stderr so JSON output stays clean.
func searchOnce(ctx context.Context, comp *Components, req *models.SearchRequest, logger *zap.Logger, hint bool) (*models.SearchOutcome, error) {
	mon, err := cancel.NewKeyMonitor(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to watch for stop keys: %w", err)
	}
	if hint && mon.Active() {
		fmt.Fprintln(os.Stderr, "Searching... press q or Esc to stop.")
	}
	outcome, err := comp.Engine.Search(ctx, req, mon)
	// Restore the terminal before anything is rendered.
	if closeErr := mon.Close(); closeErr != nil && logger != nil {
		logger.Warn("failed to restore terminal", zap.Error(closeErr))
	}
	if err != nil {
		return nil, err
	}
	recordSearch(comp, logger, req, outcome)
	return outcome, nil
}

// recordSearch stores the outcome in history. Failures are logged and
// otherwise ignored.
func recordSearch(comp *Components, logger *zap.Logger, req *models.SearchRequest, outcome *models.SearchOutcome) {
	if comp.History == nil {
		return
	}
	root := outcome.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	ctx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFn()
	err := comp.History.Record(ctx, &history.Entry{
		Root:           root,
		Pattern:        req.Pattern,
		ContentPattern: req.ContentPattern,
		Status:         string(outcome.Status),
		ResultCount:    outcome.Total,
		DurationMS:     outcome.QueryTime,
	})
	if err != nil && logger != nil {
		logger.Warn("failed to record search history", zap.Error(err))
	}
}

// printSearchUsage prints search subcommand usage and pattern syntax hints.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: mitsuke search [flags] [pattern]\n\n")
	fmt.Fprintf(fs.Output(), "Pattern is all remaining arguments joined by spaces. Bare terms match as\nsubstrings; glob syntax (*, ?, {a,b}, [ab]) and ~term fuzzy matching pass\nthrough unchanged. No pattern matches everything.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
During a search, press q or Esc to stop and keep the results found so far.

Examples:
  mitsuke search readme                        # name contains "readme"
  mitsuke search "*.{js,ts}" -root src         # glob, explicit root
  mitsuke search ~recipt                       # fuzzy name match
  mitsuke search -content TODO -ext py,js      # content search in code
  mitsuke search -preset secrets -root ~/work  # preset filters
  mitsuke search -dirs node_modules            # find directories
  mitsuke search -min-size 10M -sort size -reverse
`)
}

func runSearch() {
	args := reorderArgs(os.Args[2:])
	cfg, _, err := loadConfig(configPathFromArgs(args, defaultConfigPath))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	// -config is pre-scanned by configPathFromArgs so its value can seed the
	// other flag defaults; registering it keeps it in -h output.
	_ = fs.String("config", defaultConfigPath, "config file path")
	flags := registerSearchFlags(fs, cfg)
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(args)

	format := cli.OutputText
	switch *outputFormat {
	case "text":
	case "json":
		format = cli.OutputJSON
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	req, err := flags.buildRequest(fs.Args(), cfg)
	if err != nil {
		fmt.Printf("Invalid search: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	outcome, err := searchOnce(context.Background(), components, req, logger, format == cli.OutputText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.NewRenderer(os.Stdout).WriteOutcome(outcome, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runInteractive(args []string) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(args)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	reader := cli.NewStdinReader()
	renderer := cli.NewRenderer(os.Stdout)
	for {
		req, err := cli.NewPrompt(reader, os.Stdout, cfg).Collect()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return
			}
			fmt.Fprintf(os.Stderr, "Prompt failed: %v\n", err)
			os.Exit(1)
		}

		outcome, err := searchOnce(context.Background(), components, req, logger, true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		} else {
			fmt.Println()
			if err := renderer.WriteOutcome(outcome, cli.OutputText); err != nil {
				fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			}
		}

		fmt.Print("\nSearch again? [y/N]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			return
		}
		fmt.Println()
	}
}

func runWatch() {
	args := reorderArgs(os.Args[2:])
	cfg, _, err := loadConfig(configPathFromArgs(args, defaultConfigPath))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	_ = fs.String("config", defaultConfigPath, "config file path")
	flags := registerSearchFlags(fs, cfg)
	_ = fs.Parse(args)

	req, err := flags.buildRequest(fs.Args(), cfg)
	if err != nil {
		fmt.Printf("Invalid search: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()
	renderer := cli.NewRenderer(os.Stdout)

	// Initial pass is recorded in history; watch re-runs are not.
	outcome, err := components.Engine.Search(ctx, req, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	recordSearch(components, logger, req, outcome)
	if err := renderer.WriteOutcome(outcome, cli.OutputText); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}

	changes := make(chan struct{}, 1)
	watchOpts := []watcher.Option{
		watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS) * time.Millisecond),
	}
	if cfg.Debug {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		req.Root,
		exclude.NewFilter(req.Excludes, cfg.Search.DefaultExcludes),
		cfg.Search.SearchHidden,
		func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		},
		watchOpts...,
	)
	if err := watchSvc.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer watchSvc.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancelCtx()
	}()

	fmt.Fprintln(os.Stderr, "\nWatching for changes; press Ctrl+C to stop.")
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "Stopped.")
			return
		case <-changes:
			fmt.Printf("\nChange detected at %s\n", time.Now().Format(cfg.Display.DateFormat))
			outcome, err := components.Engine.Search(ctx, req, nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
				continue
			}
			if err := renderer.WriteOutcome(outcome, cli.OutputText); err != nil {
				fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			}
		}
	}
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "number of entries to show")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format := cli.OutputText
	switch *outputFormat {
	case "text":
	case "json":
		format = cli.OutputJSON
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.History.EnabledOrDefault() {
		fmt.Println("History is disabled in config.")
		return
	}

	store, err := history.NewStore(cfg.History.DatabasePath, cfg.History.MaxEntries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	entries, err := store.Recent(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read history: %v\n", err)
		os.Exit(1)
	}
	if err := cli.NewRenderer(os.Stdout).WriteHistory(entries, cfg.Display.DateFormat, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runPresets() {
	fs := flag.NewFlagSet("presets", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Presets) == 0 {
		fmt.Println("No presets configured.")
		return
	}

	names := make([]string, 0, len(cfg.Presets))
	for name := range cfg.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := cfg.Presets[name]
		desc := p.Description
		if desc == "" {
			desc = p.Name
		}
		fmt.Printf("%s: %s\n", name, desc)
		if len(p.Extensions) > 0 {
			fmt.Printf("  extensions: %s\n", strings.Join(p.Extensions, ", "))
		}
		if len(p.ExcludeDirs) > 0 {
			fmt.Printf("  excludes:   %s\n", strings.Join(p.ExcludeDirs, ", "))
		}
		if p.MinSize != "" {
			fmt.Printf("  min size:   %s\n", p.MinSize)
		}
		if p.MaxSize != "" {
			fmt.Printf("  max size:   %s\n", p.MaxSize)
		}
		if len(p.ContentPatterns) > 0 {
			fmt.Printf("  content:    %s\n", strings.Join(p.ContentPatterns, ", "))
		}
	}
}

func printUsage() {
	fmt.Println(`mitsuke - interactive filesystem search

Usage:
  mitsuke                           Interactive prompt (default)
  mitsuke search [flags] [pattern]  Search by name, filters, or content
  mitsuke watch [flags] [pattern]   Re-run a search whenever files change
  mitsuke history [flags]           Show recent searches
  mitsuke presets                   List configured presets
  mitsuke version                   Show version
  mitsuke help                      Show this help

Search and Watch Flags:
  -root string       Directory to search (default: current directory)
  -dirs              Match directories instead of files
  -ext string        Comma-separated extensions (e.g. py,js)
  -min-size string   Minimum file size (e.g. 500K, 10M)
  -max-size string   Maximum file size
  -exclude string    Comma-separated directories to prune
  -content string    Content pattern: regex, or ~term for fuzzy
  -preset string     Apply a named preset from config
  -limit int         Result cap (default from config)
  -sort string       Sort key: path, size, modified, matches
  -reverse           Reverse the sort order
  -preview           Attach content previews to top results
  -workers int       Concurrent content workers (0 = one per CPU)
  -output string     Output format: text or json (search and history only)
  -config string     Config file path (default: ~/.mitsuke/config.yaml)

During a search, press q or Esc to stop and keep the results found so far.

Examples:
  mitsuke
  mitsuke search readme
  mitsuke search -content "api[_-]key" -ext env -root ~/projects
  mitsuke watch -content TODO -ext go
  mitsuke history -limit 10
  mitsuke presets`)
}
