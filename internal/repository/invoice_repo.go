package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/contaflow/docrecon/internal/domain"
)

type InvoiceRepo struct {
	db *sql.DB
}

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

const invoiceColumns = `id, document_id, invoice_number, partner_name, partner_cui,
	issue_date, due_date, amount_without_vat, vat_amount, total_amount,
	currency, raw_text, confidence, created_at`

func (r *InvoiceRepo) Insert(inv *domain.Invoice) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO invoices
		(id, document_id, invoice_number, partner_name, partner_cui,
		 issue_date, due_date, amount_without_vat, vat_amount, total_amount,
		 currency, raw_text, confidence, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		inv.ID, inv.DocumentID, inv.Fields.InvoiceNumber, inv.Fields.PartnerName,
		inv.Fields.PartnerCUI, inv.Fields.IssueDate, inv.Fields.DueDate,
		inv.Fields.AmountWithoutVAT, inv.Fields.VATAmount, inv.Fields.TotalAmount,
		inv.Fields.Currency, inv.RawText, inv.Confidence,
		inv.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(id string) (*domain.Invoice, error) {
	row := r.db.QueryRow("SELECT "+invoiceColumns+" FROM invoices WHERE id = ?", id)
	var inv domain.Invoice
	var createdAt string
	err := row.Scan(
		&inv.ID, &inv.DocumentID, &inv.Fields.InvoiceNumber, &inv.Fields.PartnerName,
		&inv.Fields.PartnerCUI, &inv.Fields.IssueDate, &inv.Fields.DueDate,
		&inv.Fields.AmountWithoutVAT, &inv.Fields.VATAmount, &inv.Fields.TotalAmount,
		&inv.Fields.Currency, &inv.RawText, &inv.Confidence, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	inv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &inv, nil
}

type InvoiceFilter struct {
	PartnerCUI string
	Currency   string
	From       string // ISO issue date lower bound, inclusive
	To         string // ISO issue date upper bound, inclusive
	Page       int
	Limit      int
}

func (r *InvoiceRepo) List(f InvoiceFilter) ([]domain.Invoice, int, error) {
	var clauses []string
	var args []any
	if f.PartnerCUI != "" {
		clauses = append(clauses, "partner_cui = ?")
		args = append(args, f.PartnerCUI)
	}
	if f.Currency != "" {
		clauses = append(clauses, "currency = ?")
		args = append(args, f.Currency)
	}
	if f.From != "" {
		clauses = append(clauses, "issue_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		clauses = append(clauses, "issue_date <= ?")
		args = append(args, f.To)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM invoices"+where, args...).Scan(&total); err != nil {
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
		"SELECT "+invoiceColumns+" FROM invoices"+where+
			" ORDER BY created_at DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	invs, err := collectInvoices(rows)
	if err != nil {
		return nil, 0, err
	}
	return invs, total, rows.Err()
}

// GetUnmatchedCandidates returns invoices that no transaction links to
// yet, in the shape the matcher consumes (fields plus raw source text).
func (r *InvoiceRepo) GetUnmatchedCandidates() ([]domain.InvoiceCandidate, error) {
	rows, err := r.db.Query(`
		SELECT i.id, i.invoice_number, i.partner_name, i.partner_cui,
		       i.issue_date, i.due_date, i.amount_without_vat, i.vat_amount,
		       i.total_amount, i.currency, i.raw_text
		FROM invoices i
		LEFT JOIN bank_transactions bt ON bt.matched_invoice_id = i.id
		WHERE bt.id IS NULL
		ORDER BY i.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var cands []domain.InvoiceCandidate
	for rows.Next() {
		var c domain.InvoiceCandidate
		if err := rows.Scan(
			&c.ID, &c.Fields.InvoiceNumber, &c.Fields.PartnerName,
			&c.Fields.PartnerCUI, &c.Fields.IssueDate, &c.Fields.DueDate,
			&c.Fields.AmountWithoutVAT, &c.Fields.VATAmount,
			&c.Fields.TotalAmount, &c.Fields.Currency, &c.RawText,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		cands = append(cands, c)
	}
	return cands, rows.Err()
}

func collectInvoices(rows *sql.Rows) ([]domain.Invoice, error) {
	var invs []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		var createdAt string
		if err := rows.Scan(
			&inv.ID, &inv.DocumentID, &inv.Fields.InvoiceNumber, &inv.Fields.PartnerName,
			&inv.Fields.PartnerCUI, &inv.Fields.IssueDate, &inv.Fields.DueDate,
			&inv.Fields.AmountWithoutVAT, &inv.Fields.VATAmount, &inv.Fields.TotalAmount,
			&inv.Fields.Currency, &inv.RawText, &inv.Confidence, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		inv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		invs = append(invs, inv)
	}
	return invs, nil
}
