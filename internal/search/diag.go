package search

import "sync/atomic"

// Diagnostics counts what one search run absorbed rather than failed on.
// All methods are safe for concurrent use.
type Diagnostics struct {
	visited      atomic.Int64
	dirsSkipped  atomic.Int64
	filesSkipped atomic.Int64
}

// Visit counts a candidate produced by traversal.
func (d *Diagnostics) Visit() {
	d.visited.Add(1)
}

// SkipDir counts a directory that could not be read.
func (d *Diagnostics) SkipDir() {
	d.dirsSkipped.Add(1)
}

// SkipFile counts a file whose metadata or content could not be used.
func (d *Diagnostics) SkipFile() {
	d.filesSkipped.Add(1)
}

// Visited returns the number of candidates traversal produced.
func (d *Diagnostics) Visited() int64 {
	return d.visited.Load()
}

// Skipped returns the total number of absorbed per-entry failures.
func (d *Diagnostics) Skipped() int64 {
	return d.dirsSkipped.Load() + d.filesSkipped.Load()
}
