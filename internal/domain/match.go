package domain

// Assignment links one invoice to one bank transaction. A matching pass
// commits each invoice and each transaction at most once.
type Assignment struct {
	InvoiceID     string  `json:"invoice_id"`
	TransactionID string  `json:"transaction_id"`
	Score         float64 `json:"score"`
}

// MatchResult is the outcome of one matching pass. Transactions that no
// eligible pair claimed are reported back untouched, never dropped.
type MatchResult struct {
	Assignments           []Assignment      `json:"assignments"`
	UnmatchedTransactions []BankTransaction `json:"unmatched_transactions"`
}
