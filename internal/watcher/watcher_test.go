package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hyperjump/mitsuke/internal/exclude"
)

// changeCounter is a mutex-guarded onChange target for watcher tests.
type changeCounter struct {
	mu    sync.Mutex
	count int
}

func (c *changeCounter) bump() {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func (c *changeCounter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func mkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}

func startWatcher(t *testing.T, root string, filter *exclude.Filter, counter *changeCounter) *Watcher {
	t.Helper()
	w := NewWatcher(root, filter, false, counter.bump, WithDebounce(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_FiresAfterFileChange(t *testing.T) {
	dir := t.TempDir()
	var counter changeCounter
	startWatcher(t, dir, nil, &counter)

	if err := writeFile(filepath.Join(dir, "f.txt"), "hello"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)

	if counter.value() < 1 {
		t.Error("expected onChange after a file write")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	var counter changeCounter
	startWatcher(t, dir, nil, &counter)

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "f"+string(rune('a'+i))+".txt")
		if err := writeFile(name, "x"); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(500 * time.Millisecond)

	got := counter.value()
	if got < 1 {
		t.Error("expected at least one onChange")
	}
	if got >= 5 {
		t.Errorf("expected the burst debounced, got %d calls", got)
	}
}

func TestWatcher_IgnoresExcludedDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := mkdirAll(filepath.Join(dir, "node_modules")); err != nil {
		t.Fatal(err)
	}
	filter := exclude.NewFilter(nil, []string{"node_modules"})
	var counter changeCounter
	startWatcher(t, dir, filter, &counter)

	if err := writeFile(filepath.Join(dir, "node_modules", "pkg.json"), "{}"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)
	if got := counter.value(); got != 0 {
		t.Errorf("expected no onChange for excluded paths, got %d", got)
	}

	// Changes outside the excluded directory still fire.
	if err := writeFile(filepath.Join(dir, "real.txt"), "x"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)
	if counter.value() < 1 {
		t.Error("expected onChange for a non-excluded path")
	}
}

func TestWatcher_IgnoresHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := mkdirAll(filepath.Join(dir, ".git")); err != nil {
		t.Fatal(err)
	}
	var counter changeCounter
	startWatcher(t, dir, nil, &counter)

	if err := writeFile(filepath.Join(dir, ".git", "HEAD"), "ref"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)

	if got := counter.value(); got != 0 {
		t.Errorf("expected no onChange for hidden paths, got %d", got)
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	var counter changeCounter
	startWatcher(t, dir, nil, &counter)

	sub := filepath.Join(dir, "sub")
	if err := mkdirAll(sub); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to pick up the new directory.
	time.Sleep(300 * time.Millisecond)
	before := counter.value()

	if err := writeFile(filepath.Join(sub, "inner.txt"), "x"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)

	if counter.value() <= before {
		t.Error("expected onChange for a file in a newly created directory")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, nil, false, func() {})
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_StartTwice(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, nil, false, func() {})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if err := w.Start(ctx); err != nil {
		t.Errorf("second Start should be a no-op, got %v", err)
	}
}

func TestIgnored(t *testing.T) {
	filter := exclude.NewFilter([]string{"dist"}, []string{"node_modules"})
	w := NewWatcher(t.TempDir(), filter, false, nil)

	tests := []struct {
		rel  string
		want bool
	}{
		{".", false},
		{"src/main.go", false},
		{"node_modules/pkg/index.js", true},
		{"dist", true},
		{"a/dist/b", true},
		{".git/HEAD", true},
		{"src/.cache/x", true},
		{"notdist/file.txt", false},
	}
	for _, tt := range tests {
		if got := w.ignored(tt.rel); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestRelPath(t *testing.T) {
	root := t.TempDir()
	w := NewWatcher(root, nil, false, nil)

	rel, ok := w.relPath(filepath.Join(root, "a", "b.txt"))
	if !ok || rel != "a/b.txt" {
		t.Errorf("relPath inside root = %q, %v", rel, ok)
	}

	if _, ok := w.relPath(filepath.Dir(root)); ok {
		t.Error("paths outside the root should be rejected")
	}
}
