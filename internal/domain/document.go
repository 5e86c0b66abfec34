package domain

import "time"

type DocumentKind string

const (
	KindInvoice   DocumentKind = "invoice"
	KindStatement DocumentKind = "statement"
)

// Valid reports whether k is a kind the processor knows how to handle.
func (k DocumentKind) Valid() bool {
	return k == KindInvoice || k == KindStatement
}

// MaxRawTextLen bounds the raw text carried inside an ExtractionResult.
// Full document text stays with the caller; the envelope is for transport.
const MaxRawTextLen = 2000

// ExtractionResult is the envelope returned for every processed document.
// It is total: unreadable or corrupt input produces Success=false and
// Confidence=0, never an error.
type ExtractionResult struct {
	Success      bool              `json:"success"`
	Data         *InvoiceFields    `json:"data,omitempty"`
	Transactions []BankTransaction `json:"transactions,omitempty"`
	Confidence   float64           `json:"confidence"`
	RawText      string            `json:"raw_text"`
	FileType     DocumentKind      `json:"file_type"`
}

// DocumentRecord is the persisted outcome of one processing run.
type DocumentRecord struct {
	ID          string       `json:"id"`
	FileHash    string       `json:"file_hash"`
	Kind        DocumentKind `json:"kind"`
	Success     bool         `json:"success"`
	Confidence  float64      `json:"confidence"`
	RawText     string       `json:"raw_text"`
	ProcessedAt time.Time    `json:"processed_at"`
}
