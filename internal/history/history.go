// Package history keeps a small SQLite journal of section edits. Only
// mutations are journaled — the section index itself is rebuilt from
// the filesystem on every start and is never persisted.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"docnav/internal/diffengine"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Entry is one journaled edit.
type Entry struct {
	ID           int64  `json:"id"`
	SectionID    string `json:"section_id"`
	SourceFile   string `json:"source_file"`
	Operation    string `json:"operation"`
	AddedLines   int    `json:"added_lines"`
	RemovedLines int    `json:"removed_lines"`
	ChangedLines int    `json:"changed_lines"`
	CreatedAt    string `json:"created_at"`
}

// Store wraps the journal database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS edits (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	section_id    TEXT NOT NULL,
	source_file   TEXT NOT NULL,
	operation     TEXT NOT NULL,
	added_lines   INTEGER NOT NULL DEFAULT 0,
	removed_lines INTEGER NOT NULL DEFAULT 0,
	changed_lines INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edits_section ON edits(section_id);
`

// Open creates (or reuses) the journal at <projectRoot>/.docnav/history.db.
// The dot-directory keeps the database out of markup discovery and out
// of the file watcher's interest set.
func Open(projectRoot string) (*Store, error) {
	dir := filepath.Join(projectRoot, ".docnav")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	db, err := openDB("sqlite", filepath.Join(dir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends one edit to the journal.
func (s *Store) Record(sectionID, sourceFile, op string, stats diffengine.Stats) error {
	_, err := s.db.Exec(
		`INSERT INTO edits (section_id, source_file, operation, added_lines, removed_lines, changed_lines, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sectionID, sourceFile, op,
		stats.AddedLines, stats.RemovedLines, stats.ChangedLines,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording edit: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first. limit <= 0
// defaults to 20.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, section_id, source_file, operation, added_lines, removed_lines, changed_lines, created_at
		 FROM edits ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying edits: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SectionID, &e.SourceFile, &e.Operation,
			&e.AddedLines, &e.RemovedLines, &e.ChangedLines, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning edit row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
