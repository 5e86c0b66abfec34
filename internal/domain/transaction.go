package domain

import "time"

type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// BankTransaction is one movement recovered from a bank statement line.
// Amount is always unsigned; Direction carries the sign. Date is an ISO
// string (YYYY-MM-DD). Lines are independent of each other.
type BankTransaction struct {
	ID               string    `json:"id,omitempty"`
	DocumentID       string    `json:"document_id,omitempty"`
	Date             string    `json:"date"`
	Description      string    `json:"description"`
	Amount           float64   `json:"amount"`
	Type             Direction `json:"type"`
	Currency         string    `json:"currency"`
	MatchedInvoiceID string    `json:"matched_invoice_id,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}
