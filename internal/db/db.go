// Package db provides sqlite persistence for tracker runs, cycles and
// per-track observations.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection used by the tracker.
type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the sqlite database at path and applies pragmas
// suitable for a single-writer, cycle-driven workload. Use ":memory:" for
// tests.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// The tracker writes from exactly one goroutine per cycle; a single
	// connection avoids table-lock contention with readers.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	return &DB{conn}, nil
}
