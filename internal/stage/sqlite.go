// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteTracker records stage flags in a SQLite database, for setups
// where the flag directory is not durable or several tools share state.
type SQLiteTracker struct {
	db *sql.DB
}

// NewSQLiteTracker opens or creates the tracker database at path.
func NewSQLiteTracker(path string) (*SQLiteTracker, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating tracker directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening tracker database: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS stages (
		name TEXT PRIMARY KEY,
		completed_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating stages table: %w", err)
	}
	return &SQLiteTracker{db: db}, nil
}

// Close releases the database connection.
func (t *SQLiteTracker) Close() error {
	return t.db.Close()
}

func (t *SQLiteTracker) IsComplete(name string) (bool, error) {
	var n int
	err := t.db.QueryRow(`SELECT COUNT(*) FROM stages WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying stage %s: %w", name, err)
	}
	return n > 0, nil
}

func (t *SQLiteTracker) MarkComplete(name string) error {
	_, err := t.db.Exec(
		`INSERT INTO stages (name, completed_at) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET completed_at = excluded.completed_at`,
		name, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("flagging stage %s: %w", name, err)
	}
	return nil
}

func (t *SQLiteTracker) Clear(name string) error {
	if _, err := t.db.Exec(`DELETE FROM stages WHERE name = ?`, name); err != nil {
		return fmt.Errorf("clearing stage %s: %w", name, err)
	}
	return nil
}

var _ Tracker = (*SQLiteTracker)(nil)
