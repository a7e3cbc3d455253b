// Package traverse walks directory trees depth-first, yielding candidate
// entries with excluded subtrees pruned before descent.
package traverse

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/mitsuke/internal/exclude"
)

// Candidate is a filesystem entry produced by traversal, before any
// filtering beyond exclusion and hidden-entry rules.
type Candidate struct {
	AbsPath string
	RelPath string // slash-separated, relative to the walk root
	Entry   fs.DirEntry
}

// IsDir reports whether the candidate is a directory. Symlinks report what
// they are, not what they point at.
func (c Candidate) IsDir() bool {
	return c.Entry.IsDir()
}

// WalkFunc receives candidates during a walk. Returning a non-nil error
// stops the walk and propagates the error to the Walk caller.
type WalkFunc func(c Candidate) error

// Options control a single walk.
type Options struct {
	// Filter prunes excluded subtrees; nil excludes nothing.
	Filter *exclude.Filter
	// FollowSymlinks descends into symlinked directories, guarding against
	// cycles by tracking resolved paths.
	FollowSymlinks bool
	// SearchHidden includes dot-prefixed entries; otherwise they are skipped
	// along with everything beneath them.
	SearchHidden bool
	// OnSkip, when set, is called for each directory that could not be read.
	// Such failures never abort the walk.
	OnSkip func(path string, err error)
}

// Traverser produces candidates under a root. The portable Walker below is
// the default; platform-specific implementations can satisfy the same
// contract.
type Traverser interface {
	Walk(ctx context.Context, root string, opts Options, fn WalkFunc) error
}

// Walker is a depth-first Traverser built on os.ReadDir. Entries are visited
// in lexical order, so walks over the same tree are deterministic. The root
// itself is not yielded.
type Walker struct {
	logger *zap.Logger
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithLogger sets a logger for debug events such as skipped directories.
func WithLogger(logger *zap.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = logger
	}
}

// NewWalker returns a ready-to-use Walker.
func NewWalker(opts ...WalkerOption) *Walker {
	w := &Walker{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk traverses root and calls fn for every candidate. Unreadable
// directories are reported through opts.OnSkip and skipped. The only errors
// returned are fn's own and the context's.
func (w *Walker) Walk(ctx context.Context, root string, opts Options, fn WalkFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	var visited map[string]bool
	if opts.FollowSymlinks {
		visited = make(map[string]bool)
	}
	return w.walkDir(ctx, absRoot, ".", opts, visited, fn)
}

func (w *Walker) walkDir(ctx context.Context, dir, rel string, opts Options, visited map[string]bool, fn WalkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if visited != nil {
		canon, err := filepath.EvalSymlinks(dir)
		if err != nil {
			w.skip(opts, dir, err)
			return nil
		}
		if visited[canon] {
			return nil
		}
		visited[canon] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.skip(opts, dir, err)
		return nil
	}
	for _, entry := range entries {
		name := entry.Name()
		if !opts.SearchHidden && strings.HasPrefix(name, ".") {
			continue
		}
		childRel := name
		if rel != "." {
			childRel = rel + "/" + name
		}
		if opts.Filter.ShouldPrune(childRel) {
			continue
		}
		childAbs := filepath.Join(dir, name)
		if err := fn(Candidate{AbsPath: childAbs, RelPath: childRel, Entry: entry}); err != nil {
			return err
		}
		if entry.IsDir() || (opts.FollowSymlinks && isSymlinkToDir(entry, childAbs)) {
			if err := w.walkDir(ctx, childAbs, childRel, opts, visited, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) skip(opts Options, path string, err error) {
	if opts.OnSkip != nil {
		opts.OnSkip(path, err)
	}
	if w.logger != nil {
		w.logger.Debug("skipping unreadable directory",
			zap.String("path", path),
			zap.Error(err))
	}
}

func isSymlinkToDir(entry fs.DirEntry, path string) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
