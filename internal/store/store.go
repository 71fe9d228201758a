package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	if err == nil {
		slog.Debug("store_event", "event", "migrated", "from", version, "to", currentVersion)
	}
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS cardio_logs (
		id           TEXT PRIMARY KEY,
		kind         TEXT NOT NULL DEFAULT 'run',
		started_at   TEXT NOT NULL,
		distance_km  REAL NOT NULL DEFAULT 0,
		duration_sec REAL NOT NULL DEFAULT 0,
		notes        TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_cardio_started ON cardio_logs(started_at);

	CREATE TABLE IF NOT EXISTS goals (
		id          TEXT PRIMARY KEY,
		type        TEXT NOT NULL,
		target      REAL NOT NULL DEFAULT 0,
		progress    REAL NOT NULL DEFAULT 0,
		day         TEXT NOT NULL,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_goals_day ON goals(day);

	CREATE TABLE IF NOT EXISTS daily_counters (
		day    TEXT NOT NULL,
		name   TEXT NOT NULL,
		value  REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (day, name)
	);

	CREATE TABLE IF NOT EXISTS presets (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL UNIQUE,
		kind        TEXT NOT NULL,
		work_sec    INTEGER NOT NULL DEFAULT 0,
		rest_sec    INTEGER NOT NULL DEFAULT 0,
		inhale_sec  INTEGER NOT NULL DEFAULT 0,
		hold1_sec   INTEGER NOT NULL DEFAULT 0,
		exhale_sec  INTEGER NOT NULL DEFAULT 0,
		hold2_sec   INTEGER NOT NULL DEFAULT 0,
		cycles      INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS timer_sessions (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		kind             TEXT NOT NULL,
		planned_sec      INTEGER NOT NULL DEFAULT 0,
		cycles           INTEGER NOT NULL DEFAULT 1,
		completed_cycles INTEGER NOT NULL DEFAULT 0,
		status           TEXT NOT NULL DEFAULT 'running',
		started_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		completed_at     TEXT
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('interval_work',       '30'),
		('interval_rest',       '15'),
		('interval_cycles',     '8'),
		('breath_pattern',      'box'),
		('daily_distance_goal', '5'),
		('daily_interval_goal', '8');
	`
	_, err := s.db.Exec(ddl)
	return err
}
