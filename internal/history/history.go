// Package history persists the outcome of every load the worker performs
// to a local SQLite database, so past sessions can be inspected with the
// history subcommand.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Entry statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS loads (
    id        TEXT PRIMARY KEY,
    path      TEXT NOT NULL,
    status    TEXT NOT NULL,
    points    INTEGER NOT NULL DEFAULT 0,
    error     TEXT NOT NULL DEFAULT '',
    loaded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Entry is one recorded load outcome.
type Entry struct {
	ID       string
	Path     string
	Status   string
	Points   int
	Error    string
	LoadedAt time.Time
}

// Store records load outcomes in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath, enables WAL mode and a
// busy timeout, and creates the schema if it does not exist.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// SQLite supports a single writer; one connection avoids SQLITE_BUSY
	// contention between pooled connections that each need their own
	// PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts one load outcome. A zero LoadedAt is stamped with the
// current time; an empty ID gets a fresh UUID. The stored entry is
// returned.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.LoadedAt.IsZero() {
		e.LoadedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO loads (id, path, status, points, error, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, e.ID, e.Path, e.Status, e.Points, e.Error, e.LoadedAt); err != nil {
		return Entry{}, fmt.Errorf("history: record load of %q: %w", e.Path, err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const q = `
		SELECT id, path, status, points, error, loaded_at
		FROM loads ORDER BY loaded_at DESC, id LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent loads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.Status, &e.Points, &e.Error, &e.LoadedAt); err != nil {
			return nil, fmt.Errorf("history: scan load row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate load rows: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("history: close: %w", err)
	}
	return nil
}
