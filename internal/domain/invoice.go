package domain

import "time"

// InvoiceFields holds the structured fields recovered from invoice text.
// Every field is independently optional: the zero value means "not found".
// Dates are ISO strings (YYYY-MM-DD) because extraction produces calendar
// dates, not instants.
//
// When at least two of AmountWithoutVAT, VATAmount and TotalAmount are
// populated, extraction reconciles the third so that
// AmountWithoutVAT + VATAmount == TotalAmount (2-decimal rounding).
type InvoiceFields struct {
	InvoiceNumber    string  `json:"invoice_number,omitempty"`
	PartnerName      string  `json:"partner_name,omitempty"`
	PartnerCUI       string  `json:"partner_cui,omitempty"`
	IssueDate        string  `json:"issue_date,omitempty"`
	DueDate          string  `json:"due_date,omitempty"`
	AmountWithoutVAT float64 `json:"amount_without_vat,omitempty"`
	VATAmount        float64 `json:"vat_amount,omitempty"`
	TotalAmount      float64 `json:"total_amount,omitempty"`
	Currency         string  `json:"currency,omitempty"`
}

// Invoice is the persisted invoice row.
type Invoice struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"document_id"`
	Fields     InvoiceFields `json:"fields"`
	RawText    string        `json:"raw_text,omitempty"`
	Confidence float64       `json:"confidence"`
	CreatedAt  time.Time     `json:"created_at"`
}

// InvoiceCandidate is what the matcher sees: the extracted fields plus the
// raw text they came from. Bank descriptions are matched against the raw
// text because the structured fields are frequently missing or malformed.
type InvoiceCandidate struct {
	ID      string
	Fields  InvoiceFields
	RawText string
}
