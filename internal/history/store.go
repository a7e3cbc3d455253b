// Package history persists a log of past searches in a local SQLite
// database so they can be reviewed and re-run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded search.
type Entry struct {
	ID             string    `json:"id"`
	Root           string    `json:"root"`
	Pattern        string    `json:"pattern"`
	ContentPattern string    `json:"content_pattern,omitempty"`
	Status         string    `json:"status"`
	ResultCount    int       `json:"result_count"`
	DurationMS     int64     `json:"duration_ms"`
	ExecutedAt     time.Time `json:"executed_at"`
}

// Store records and lists search history. maxEntries bounds the table: the
// oldest entries are pruned after each insert.
type Store struct {
	db         *sql.DB
	maxEntries int
}

// NewStore opens or creates the history database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewStore(dbPath string, maxEntries int) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, maxEntries: maxEntries}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		pattern TEXT NOT NULL,
		content_pattern TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		result_count INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		executed_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_searches_executed_at ON searches(executed_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Record inserts e, filling in a missing ID and timestamp, then prunes
// entries beyond the configured maximum.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, root, pattern, content_pattern, status, result_count, duration_ms, executed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Root, e.Pattern, e.ContentPattern, e.Status, e.ResultCount, e.DurationMS, e.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}

	if s.maxEntries > 0 {
		return s.prune(ctx)
	}
	return nil
}

// prune keeps the newest maxEntries rows. Ties on executed_at are broken by
// id so pruning stays deterministic.
func (s *Store) prune(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM searches WHERE id NOT IN (
			SELECT id FROM searches ORDER BY executed_at DESC, id LIMIT ?
		)`, s.maxEntries,
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, pattern, content_pattern, status, result_count, duration_ms, executed_at
		 FROM searches ORDER BY executed_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Root, &e.Pattern, &e.ContentPattern,
			&e.Status, &e.ResultCount, &e.DurationMS, &e.ExecutedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM searches`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
