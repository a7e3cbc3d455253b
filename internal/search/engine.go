// Package search runs filesystem searches: pruned traversal, name and
// attribute filtering, bounded-concurrency content matching, and result
// aggregation.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/mitsuke/internal/cancel"
	"github.com/hyperjump/mitsuke/internal/config"
	"github.com/hyperjump/mitsuke/internal/exclude"
	"github.com/hyperjump/mitsuke/internal/extract"
	"github.com/hyperjump/mitsuke/internal/models"
	"github.com/hyperjump/mitsuke/internal/pattern"
	"github.com/hyperjump/mitsuke/internal/traverse"
	"github.com/hyperjump/mitsuke/pkg/utils"
)

// Control-flow sentinels that end traversal early. They never reach callers.
var (
	errStopped    = errors.New("search stopped")
	errCapReached = errors.New("result cap reached")
)

// Engine executes SearchRequests against the live filesystem. An Engine is
// reusable across searches; State reflects the most recent call.
type Engine struct {
	matcher   *pattern.Matcher
	traverser traverse.Traverser
	extractor *extract.Extractor
	search    *config.SearchConfig
	display   *config.DisplayConfig
	logger    *zap.Logger
	state     atomic.Int32
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a logger for debug events such as skipped entries.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	matcher *pattern.Matcher,
	traverser traverse.Traverser,
	extractor *extract.Extractor,
	searchCfg *config.SearchConfig,
	displayCfg *config.DisplayConfig,
	opts ...Option,
) *Engine {
	e := &Engine{
		matcher:   matcher,
		traverser: traverser,
		extractor: extractor,
		search:    searchCfg,
		display:   displayCfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the engine's current lifecycle phase.
func (e *Engine) State() EngineState {
	return EngineState(e.state.Load())
}

func (e *Engine) setState(s EngineState) {
	e.state.Store(int32(s))
}

// searchRun bundles the per-search state so one Engine can serve search
// after search without leaking anything between them.
type searchRun struct {
	req     *models.SearchRequest
	root    string
	mon     cancel.Monitor
	filter  *exclude.Filter
	sink    *resultSink
	cache   *ContentCache
	diag    *Diagnostics
	workers *errgroup.Group
}

// stopRequested polls the cancellation monitor and the context. It must stay
// cheap: the walk callback calls it once per candidate.
func (r *searchRun) stopRequested(ctx context.Context) bool {
	return (r.mon != nil && r.mon.Stopped()) || ctx.Err() != nil
}

// Search runs one search to completion, cancellation, or cap. mon may be
// nil, in which case only ctx can stop the search. Errors are returned only
// for failed preconditions (invalid request, unusable root); once traversal
// starts, per-entry failures are absorbed and counted in the outcome.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest, mon cancel.Monitor) (*models.SearchOutcome, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		e.setState(StateErrored)
		return nil, err
	}
	root, err := filepath.Abs(req.Root)
	if err != nil {
		e.setState(StateErrored)
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		e.setState(StateErrored)
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		e.setState(StateErrored)
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	run := &searchRun{
		req:     req,
		root:    root,
		mon:     mon,
		filter:  exclude.NewFilter(req.Excludes, e.search.DefaultExcludes),
		sink:    newResultSink(req.MaxResults),
		cache:   NewContentCache(e.search.CacheSizeLimit),
		diag:    &Diagnostics{},
		workers: &errgroup.Group{},
	}
	run.workers.SetLimit(e.workerCount(req))

	e.setState(StateTraversing)
	stopped := false
	if run.stopRequested(ctx) {
		stopped = true
	} else {
		walkErr := e.traverser.Walk(ctx, root, traverse.Options{
			Filter:         run.filter,
			FollowSymlinks: e.search.FollowSymlinks,
			SearchHidden:   e.search.SearchHidden,
			OnSkip: func(path string, err error) {
				run.diag.SkipDir()
				if e.logger != nil {
					e.logger.Debug("skipping unreadable directory",
						zap.String("path", path),
						zap.Error(err))
				}
			},
		}, func(c traverse.Candidate) error {
			run.diag.Visit()
			if run.stopRequested(ctx) {
				return errStopped
			}
			if run.sink.full() {
				return errCapReached
			}
			return e.processCandidate(run, c)
		})

		switch {
		case walkErr == nil, errors.Is(walkErr, errCapReached):
		case errors.Is(walkErr, errStopped),
			errors.Is(walkErr, context.Canceled),
			errors.Is(walkErr, context.DeadlineExceeded):
			stopped = true
		default:
			// Traversal absorbs per-entry failures itself, so anything else
			// is unexpected; keep what was gathered and report a stop.
			stopped = true
			if e.logger != nil {
				e.logger.Warn("traversal ended unexpectedly", zap.Error(walkErr))
			}
		}
	}

	if req.HasContentPattern() {
		e.setState(StateContentFiltering)
	}
	_ = run.workers.Wait()

	e.setState(StateAggregating)
	agg := &aggregator{
		root:        root,
		sortBy:      req.SortBy,
		reverse:     req.SortReverse,
		maxResults:  req.MaxResults,
		showPreview: req.ShowPreview,
		previewLen:  e.display.PreviewLength,
		extractor:   e.extractor,
		cache:       run.cache,
	}
	records := agg.finalize(run.sink.take())

	status := models.StatusCompleted
	switch {
	case stopped:
		status = models.StatusStoppedByUser
	case run.sink.overflowed():
		status = models.StatusCapReached
	}
	if stopped {
		e.setState(StateStopped)
	} else {
		e.setState(StateDone)
	}

	outcome := &models.SearchOutcome{
		Records:        records,
		Status:         status,
		Total:          len(records),
		SkippedEntries: run.diag.Skipped(),
		QueryTime:      time.Since(start).Milliseconds(),
		Root:           req.Root,
		Pattern:        req.Pattern,
		ContentPattern: req.ContentPattern,
	}
	if e.logger != nil {
		e.logger.Debug("search finished",
			zap.String("pattern", req.Pattern),
			zap.String("status", string(status)),
			zap.Int("results", outcome.Total),
			zap.Int64("visited", run.diag.Visited()),
			zap.Int64("skipped", outcome.SkippedEntries),
			zap.Int64("elapsed_ms", outcome.QueryTime))
	}
	return outcome, nil
}

// processCandidate applies the per-candidate filter pipeline: kind,
// extension, name pattern, size bounds, then either records the entry or
// hands it to a content worker.
func (e *Engine) processCandidate(run *searchRun, c traverse.Candidate) error {
	req := run.req
	isDir := c.IsDir()
	if req.DirsOnly != isDir {
		return nil
	}
	if !isDir && len(req.Extensions) > 0 && !extensionAllowed(c.Entry.Name(), req.Extensions) {
		return nil
	}
	if !e.matcher.MatchesName(c.Entry.Name(), req.Pattern) {
		return nil
	}
	info, err := c.Entry.Info()
	if err != nil {
		run.diag.SkipFile()
		return nil
	}
	if !isDir {
		if req.MinSize > 0 && info.Size() < req.MinSize {
			return nil
		}
		if req.MaxSize > 0 && info.Size() > req.MaxSize {
			return nil
		}
	}

	if !req.HasContentPattern() {
		if run.sink.add(e.record(c, info, 0)) {
			return errCapReached
		}
		return nil
	}
	if isDir {
		// Content patterns apply to file content; a dirs-only search with a
		// content pattern yields nothing.
		return nil
	}
	run.workers.Go(func() error {
		e.matchContent(run, c, info)
		return nil
	})
	return nil
}

// matchContent runs on a worker goroutine: load (or reuse) the file's text
// and record it when the content pattern matches. Failures are absorbed.
func (e *Engine) matchContent(run *searchRun, c traverse.Candidate, info fs.FileInfo) {
	if run.sink.full() {
		return
	}
	if e.search.BinarySizeLimit > 0 && info.Size() > e.search.BinarySizeLimit {
		run.diag.SkipFile()
		return
	}
	content, ok := run.cache.Get(c.AbsPath)
	if !ok {
		extracted, err := e.extractor.Extract(c.AbsPath)
		if err != nil {
			run.diag.SkipFile()
			if e.logger != nil {
				e.logger.Debug("skipping unsearchable file",
					zap.String("path", c.AbsPath),
					zap.Error(err))
			}
			return
		}
		content = extracted
		run.cache.Put(c.AbsPath, content)
	}
	matched, count := e.matcher.MatchesContent(content, run.req.ContentPattern)
	if !matched {
		return
	}
	run.sink.add(e.record(c, info, count))
}

func (e *Engine) record(c traverse.Candidate, info fs.FileInfo, matchCount int) *models.ResultRecord {
	kind := models.KindFile
	if c.IsDir() {
		kind = models.KindDir
	}
	return &models.ResultRecord{
		Path:       c.RelPath,
		Kind:       kind,
		SizeBytes:  info.Size(),
		Size:       utils.FormatSize(info.Size()),
		ModTime:    info.ModTime(),
		Modified:   info.ModTime().Format(e.display.DateFormat),
		MatchCount: matchCount,
	}
}

func (e *Engine) workerCount(req *models.SearchRequest) int {
	if req.Workers > 0 {
		return req.Workers
	}
	if e.search.Workers > 0 {
		return e.search.Workers
	}
	return runtime.NumCPU()
}

// extensionAllowed reports whether name's extension is in allowed, which
// Validate has already normalized to lowercase dotted form.
func extensionAllowed(name string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
