package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			file_hash TEXT UNIQUE NOT NULL,
			kind TEXT NOT NULL,
			success INTEGER NOT NULL,
			confidence REAL NOT NULL,
			raw_text TEXT NOT NULL,
			processed_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_confidence ON documents(confidence)`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			invoice_number TEXT NOT NULL DEFAULT '',
			partner_name TEXT NOT NULL DEFAULT '',
			partner_cui TEXT NOT NULL DEFAULT '',
			issue_date TEXT NOT NULL DEFAULT '',
			due_date TEXT NOT NULL DEFAULT '',
			amount_without_vat REAL NOT NULL DEFAULT 0,
			vat_amount REAL NOT NULL DEFAULT 0,
			total_amount REAL NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT '',
			raw_text TEXT NOT NULL DEFAULT '',
			confidence REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (document_id) REFERENCES documents(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_document ON invoices(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_partner_cui ON invoices(partner_cui)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_issue_date ON invoices(issue_date)`,

		`CREATE TABLE IF NOT EXISTS bank_transactions (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL DEFAULT '',
			txn_date TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			amount REAL NOT NULL,
			direction TEXT NOT NULL,
			currency TEXT NOT NULL,
			matched_invoice_id TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bank_transactions_document ON bank_transactions(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bank_transactions_matched ON bank_transactions(matched_invoice_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bank_transactions_date ON bank_transactions(txn_date)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}
