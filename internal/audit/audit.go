// Package audit provides a durable, append-only log of cache events.
//
// The log is SQLite-backed and implements kg.Recorder, giving operators
// a persistent record of hit rates and insert volume without touching
// the cache's own persistence. Ordering uses the rowid as a logical
// sequence; wall-clock timestamps are deliberately absent so replayed
// runs produce identical logs.
package audit

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gcpdev/xshacl/internal/kg"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added composite index on (op, outcome)
const currentSchemaVersion = 1

// Log is a durable cache-event log. Safe for concurrent use.
type Log struct {
	db *sql.DB
}

var _ kg.Recorder = (*Log)(nil)

// Open creates or opens the event log at path. Idempotent: pragmas and
// schema are applied on every open.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect audit log: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent recording.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure audit log: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply audit schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record appends one cache event. Implements kg.Recorder.
func (l *Log) Record(ev kg.Event) error {
	_, err := l.db.ExecContext(context.Background(), `
		INSERT INTO events (op, sig, outcome) VALUES (?, ?, ?)
	`, ev.Op, ev.Token, ev.Outcome)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Entry is one logged event with its logical sequence number.
type Entry struct {
	Seq     int64
	Op      string
	Token   string
	Outcome string
}

// Events returns all logged events in append order.
func (l *Log) Events(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, op, sig, outcome FROM events ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.Op, &e.Token, &e.Outcome); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return entries, nil
}

// Counts aggregates event totals per op/outcome pair, keyed "op/outcome".
func (l *Log) Counts(ctx context.Context) (map[string]int64, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT op, outcome, COUNT(*) FROM events
		GROUP BY op, outcome
		ORDER BY op ASC, outcome ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var op, outcome string
		var n int64
		if err := rows.Scan(&op, &outcome, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[op+"/"+outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	return counts, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return runMigrations(db)
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		// v1 index is created by schema.sql for new databases; this
		// covers logs created before the index existed.
		if _, err := db.Exec(`
			CREATE INDEX IF NOT EXISTS idx_events_op ON events(op, outcome)
		`); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
