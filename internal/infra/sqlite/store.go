// Package sqlite persists raw financial records and derived credit scores.
// Built on database/sql over the CGO-free modernc.org/sqlite driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite handle.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database under dir and applies the
// schema. A single connection avoids SQLITE_BUSY on concurrent writers;
// reads multiplex over it fine at this service's scale.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dir, "scorewise.db")
	handle, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	handle.SetMaxOpenConns(1)

	db := &DB{db: handle}
	if err := db.migrate(); err != nil {
		handle.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying handle.
func (db *DB) Close() error {
	return db.db.Close()
}

// migrate applies all schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Migrations returns the schema migration statements.
func Migrations() []string {
	return []string{
		// Raw bank transactions, one row per account movement
		`CREATE TABLE IF NOT EXISTS transaction_raw (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id       INTEGER NOT NULL,
			tx_datetime   TEXT NOT NULL,
			amount        REAL NOT NULL DEFAULT 0,
			direction     TEXT NOT NULL,
			category      TEXT NOT NULL DEFAULT '',
			balance_after REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transaction_user ON transaction_raw(user_id)`,

		// Raw card usage events
		`CREATE TABLE IF NOT EXISTS card_raw (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id         INTEGER NOT NULL,
			tx_datetime     TEXT NOT NULL,
			tx_amount       REAL NOT NULL DEFAULT 0,
			pay_type        TEXT NOT NULL DEFAULT '',
			tx_category     TEXT NOT NULL DEFAULT '',
			credit_limit    REAL,
			outstanding_amt REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_card_user ON card_raw(user_id)`,

		// Raw loan contracts with trailing-12m overdue stats
		`CREATE TABLE IF NOT EXISTS loan_raw (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id           INTEGER NOT NULL,
			loan_principal    REAL,
			overdue_count_12m INTEGER,
			overdue_amount    REAL,
			max_overdue_days  INTEGER,
			last_overdue_dt   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loan_user ON loan_raw(user_id)`,

		// Raw cross-border remittance attempts
		`CREATE TABLE IF NOT EXISTS remittance_raw (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id         INTEGER NOT NULL,
			remittance_date TEXT NOT NULL,
			send_amount     REAL NOT NULL DEFAULT 0,
			status          TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_remittance_user ON remittance_raw(user_id)`,

		// Latest derived score, one row per user
		`CREATE TABLE IF NOT EXISTS credit_score (
			user_id    INTEGER PRIMARY KEY,
			score      INTEGER NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// Score history, one row per user per scoring day
		`CREATE TABLE IF NOT EXISTS credit_score_history (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			period  TEXT NOT NULL,
			score   INTEGER NOT NULL,
			UNIQUE(user_id, period)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON credit_score_history(user_id)`,
	}
}
