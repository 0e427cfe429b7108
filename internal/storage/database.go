package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// WAL mode and a busy timeout keep concurrent ledger writes from
// failing with SQLITE_BUSY under contention.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			player_name TEXT NOT NULL,
			player_norm TEXT NOT NULL,
			team TEXT NOT NULL DEFAULT '',
			league TEXT NOT NULL DEFAULT '',
			season TEXT NOT NULL DEFAULT '',
			query_key TEXT NOT NULL,
			report_md TEXT NOT NULL,
			cached INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, query_key)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_user_created
			ON reports (user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_player_norm
			ON reports (player_norm);`,
		`CREATE TABLE IF NOT EXISTS report_embeddings (
			report_id INTEGER PRIMARY KEY,
			embedding_json TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS query_embeddings (
			query_hash TEXT PRIMARY KEY,
			query_text TEXT NOT NULL,
			embedding_json TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS player_aliases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			queried_norm TEXT NOT NULL UNIQUE,
			player_norm TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 1,
			first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_seen DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS user_credits (
			user_id TEXT PRIMARY KEY,
			balance INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS credit_ledger (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			delta INTEGER NOT NULL,
			reason TEXT NOT NULL,
			source_type TEXT NOT NULL,
			source_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (source_type, source_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_credit_ledger_user
			ON credit_ledger (user_id, created_at DESC);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
