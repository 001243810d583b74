// Package sqlite persists accounting snapshots and implements the engine's
// DataSource over them. SQLite keeps the tool dependency-free at runtime:
// one file holds everything an audit needs.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/contaudit/contaudit/internal/domain"
)

// DB wraps the SQLite handle.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies migrations.
// Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %v: %w", path, err, domain.ErrSourceUnavailable)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite %s: %v: %w", path, err, domain.ErrSourceUnavailable)
	}
	// modernc.org/sqlite is not safe for concurrent writers on one conn.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{db: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying handle.
func (db *DB) Close() error { return db.db.Close() }

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
// Dates are stored as ISO-8601 TEXT ("2006-01-02").
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS persons (
			id                  TEXT PRIMARY KEY,
			name                TEXT NOT NULL,
			membership_status   TEXT NOT NULL DEFAULT '',
			active              INTEGER NOT NULL DEFAULT 0,
			contribution_amount REAL
		)`,

		`CREATE TABLE IF NOT EXISTS person_documents (
			person_id TEXT NOT NULL REFERENCES persons(id),
			doc_type  TEXT NOT NULL,
			number    TEXT NOT NULL,
			PRIMARY KEY (person_id, doc_type, number)
		)`,

		`CREATE TABLE IF NOT EXISTS person_contacts (
			person_id TEXT NOT NULL REFERENCES persons(id),
			kind      TEXT NOT NULL,
			value     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_person ON person_contacts(person_id)`,

		`CREATE TABLE IF NOT EXISTS instruments (
			id              TEXT PRIMARY KEY,
			direction       TEXT NOT NULL,
			nature          TEXT NOT NULL,
			counterparty_id TEXT NOT NULL DEFAULT '',
			description     TEXT NOT NULL DEFAULT '',
			issue_date      TEXT NOT NULL DEFAULT '',
			competence_date TEXT NOT NULL,
			due_date        TEXT NOT NULL DEFAULT '',
			net_amount      REAL NOT NULL DEFAULT 0,
			status          TEXT NOT NULL DEFAULT '',
			source_system   TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_instruments_counterparty ON instruments(counterparty_id)`,
		`CREATE INDEX IF NOT EXISTS idx_instruments_competence ON instruments(competence_date)`,

		`CREATE TABLE IF NOT EXISTS settlements (
			instrument_id        TEXT NOT NULL REFERENCES instruments(id),
			payment_date         TEXT NOT NULL,
			financial_account_id TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_settlements_instrument ON settlements(instrument_id)`,

		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id              TEXT PRIMARY KEY,
			number          INTEGER NOT NULL,
			competence_date TEXT NOT NULL,
			narrative       TEXT NOT NULL DEFAULT '',
			total_debit     REAL NOT NULL DEFAULT 0,
			total_credit    REAL NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS accounting_periods (
			id     TEXT PRIMARY KEY,
			year   INTEGER NOT NULL,
			month  INTEGER NOT NULL,
			status TEXT NOT NULL,
			UNIQUE(year, month)
		)`,

		`CREATE TABLE IF NOT EXISTS bank_lines (
			id                   TEXT PRIMARY KEY,
			financial_account_id TEXT NOT NULL DEFAULT '',
			movement_date        TEXT NOT NULL,
			amount               REAL NOT NULL DEFAULT 0,
			reconciled           INTEGER NOT NULL DEFAULT 0,
			status               TEXT NOT NULL DEFAULT 'pending',
			linked_instrument_id TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS raw_import_rows (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			row_type          TEXT NOT NULL,
			counterparty_name TEXT NOT NULL DEFAULT '',
			description       TEXT NOT NULL DEFAULT '',
			total_amount      REAL NOT NULL DEFAULT 0,
			row_date          TEXT NOT NULL,
			line_number       INTEGER NOT NULL DEFAULT 0,
			source_file       TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_raw_rows_date ON raw_import_rows(row_date)`,
	}
}
