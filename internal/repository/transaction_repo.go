package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/contaflow/docrecon/internal/domain"
)

type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

const txnColumns = `id, document_id, txn_date, description, amount, direction,
	currency, matched_invoice_id, created_at`

func (r *TransactionRepo) Insert(t *domain.BankTransaction) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO bank_transactions
		(id, document_id, txn_date, description, amount, direction, currency,
		 matched_invoice_id, created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		t.ID, t.DocumentID, t.Date, t.Description, t.Amount, string(t.Type),
		t.Currency, nullableString(t.MatchedInvoiceID),
		t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) BulkInsert(txns []domain.BankTransaction) (int, error) {
	inserted := 0
	sqlTx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.Prepare(
		`INSERT OR IGNORE INTO bank_transactions
		(id, document_id, txn_date, description, amount, direction, currency,
		 matched_invoice_id, created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := range txns {
		t := &txns[i]
		res, err := stmt.Exec(
			t.ID, t.DocumentID, t.Date, t.Description, t.Amount, string(t.Type),
			t.Currency, nullableString(t.MatchedInvoiceID),
			t.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert row %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *TransactionRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM bank_transactions").Scan(&count)
	return count, err
}

func (r *TransactionRepo) GetByID(id string) (*domain.BankTransaction, error) {
	row := r.db.QueryRow("SELECT "+txnColumns+" FROM bank_transactions WHERE id = ?", id)
	return scanTxnRow(row)
}

type TransactionFilter struct {
	Direction string
	Currency  string
	Matched   *bool
	From      string
	To        string
	Page      int
	Limit     int
}

func (r *TransactionRepo) List(f TransactionFilter) ([]domain.BankTransaction, int, error) {
	var clauses []string
	var args []any
	if f.Direction != "" {
		clauses = append(clauses, "direction = ?")
		args = append(args, f.Direction)
	}
	if f.Currency != "" {
		clauses = append(clauses, "currency = ?")
		args = append(args, f.Currency)
	}
	if f.Matched != nil {
		if *f.Matched {
			clauses = append(clauses, "matched_invoice_id IS NOT NULL")
		} else {
			clauses = append(clauses, "matched_invoice_id IS NULL")
		}
	}
	if f.From != "" {
		clauses = append(clauses, "txn_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		clauses = append(clauses, "txn_date <= ?")
		args = append(args, f.To)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM bank_transactions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.db.Query(
		"SELECT "+txnColumns+" FROM bank_transactions"+where+
			" ORDER BY txn_date DESC, created_at DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var txns []domain.BankTransaction
	for rows.Next() {
		t, err := scanTxnRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, total, rows.Err()
}

// GetUnmatched returns transactions with no linked invoice, oldest first.
func (r *TransactionRepo) GetUnmatched() ([]domain.BankTransaction, error) {
	rows, err := r.db.Query(
		"SELECT " + txnColumns + " FROM bank_transactions WHERE matched_invoice_id IS NULL ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var txns []domain.BankTransaction
	for rows.Next() {
		t, err := scanTxnRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

// LinkInvoice records an assignment on the transaction row.
func (r *TransactionRepo) LinkInvoice(txnID, invoiceID string) error {
	_, err := r.db.Exec(
		"UPDATE bank_transactions SET matched_invoice_id = ? WHERE id = ?",
		invoiceID, txnID,
	)
	return err
}

// MatchStats aggregates matching coverage for the dashboard.
type MatchStats struct {
	Total         int     `json:"total"`
	Matched       int     `json:"matched"`
	Unmatched     int     `json:"unmatched"`
	DebitVolume   float64 `json:"debit_volume"`
	CreditVolume  float64 `json:"credit_volume"`
	MatchedVolume float64 `json:"matched_volume"`
}

func (r *TransactionRepo) GetMatchStats() (*MatchStats, error) {
	s := &MatchStats{}
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN matched_invoice_id IS NOT NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN matched_invoice_id IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN direction='debit' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN direction='credit' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN matched_invoice_id IS NOT NULL THEN amount ELSE 0 END), 0)
		FROM bank_transactions
	`).Scan(&s.Total, &s.Matched, &s.Unmatched, &s.DebitVolume, &s.CreditVolume, &s.MatchedVolume)
	return s, err
}

type CurrencyVolume struct {
	Currency string  `json:"currency"`
	Volume   float64 `json:"volume"`
	Count    int     `json:"count"`
}

func (r *TransactionRepo) GetVolumeByCurrency() ([]CurrencyVolume, error) {
	rows, err := r.db.Query(`
		SELECT currency, COALESCE(SUM(amount), 0), COUNT(*)
		FROM bank_transactions GROUP BY currency
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CurrencyVolume
	for rows.Next() {
		var cv CurrencyVolume
		if err := rows.Scan(&cv.Currency, &cv.Volume, &cv.Count); err != nil {
			return nil, err
		}
		result = append(result, cv)
	}
	return result, rows.Err()
}

// --- helpers ---

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanTxnRow(row *sql.Row) (*domain.BankTransaction, error) {
	var t domain.BankTransaction
	var direction, createdAt string
	var matched sql.NullString
	err := row.Scan(
		&t.ID, &t.DocumentID, &t.Date, &t.Description, &t.Amount,
		&direction, &t.Currency, &matched, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	t.Type = domain.Direction(direction)
	if matched.Valid {
		t.MatchedInvoiceID = matched.String
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &t, nil
}

func scanTxnRows(rows *sql.Rows) (*domain.BankTransaction, error) {
	var t domain.BankTransaction
	var direction, createdAt string
	var matched sql.NullString
	err := rows.Scan(
		&t.ID, &t.DocumentID, &t.Date, &t.Description, &t.Amount,
		&direction, &t.Currency, &matched, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	t.Type = domain.Direction(direction)
	if matched.Valid {
		t.MatchedInvoiceID = matched.String
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &t, nil
}
