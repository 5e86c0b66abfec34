package extract

import (
	"regexp"
	"strings"

	"github.com/contaflow/docrecon/internal/currency"
	"github.com/contaflow/docrecon/internal/domain"
)

// statementTargetCount is the transaction count at which statement
// extraction confidence saturates.
const statementTargetCount = 5

// statementLine matches the common flattened statement row:
// date, free-text description, signed amount, optional currency token.
var statementLine = regexp.MustCompile(
	`^(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})\s+(.+?)\s+(-?\d[\d.,]*)\s*(?i:(RON|LEI|EUR|USD))?\s*$`)

// tabularLine is the fallback two-column format: date, description, then
// a debit column and a credit column where an empty column prints "-".
var tabularLine = regexp.MustCompile(
	`^(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})\s+(.+?)\s+(\d[\d.,]*|-)\s+(\d[\d.,]*|-)\s*$`)

// ExtractStatementLines parses bank statement text line by line and
// returns the recovered transactions with a confidence in [0,1]. Lines
// that match no pattern are skipped; a bad line never aborts the rest of
// the document. Zero-amount rows are discarded.
func ExtractStatementLines(text string) ([]domain.BankTransaction, float64) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	txns := parsePrimary(lines)
	if len(txns) == 0 {
		txns = parseTabular(lines)
	}

	conf := float64(len(txns)) / float64(statementTargetCount)
	if conf > 1 {
		conf = 1
	}
	return txns, conf
}

func parsePrimary(lines []string) []domain.BankTransaction {
	var txns []domain.BankTransaction
	for _, line := range lines {
		m := statementLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		amount := ParseAmount(m[3])
		if amount == 0 {
			continue
		}
		dir := domain.DirectionCredit
		if amount < 0 || strings.HasPrefix(m[3], "-") {
			dir = domain.DirectionDebit
			amount = -amount
		}
		cur := currency.Default
		if m[4] != "" {
			cur = currency.Normalize(m[4])
		}
		txns = append(txns, domain.BankTransaction{
			Date:        ParseDate(m[1]),
			Description: strings.TrimSpace(m[2]),
			Amount:      amount,
			Type:        dir,
			Currency:    cur,
		})
	}
	return txns
}

// parseTabular handles statements that print separate debit and credit
// columns. A row with BOTH columns populated is ambiguous (it would
// double-count money if emitted twice) and is skipped.
func parseTabular(lines []string) []domain.BankTransaction {
	var txns []domain.BankTransaction
	for _, line := range lines {
		m := tabularLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		debit := ParseAmount(m[3])
		credit := ParseAmount(m[4])
		if debit > 0 && credit > 0 {
			continue
		}
		amount, dir := debit, domain.DirectionDebit
		if credit > 0 {
			amount, dir = credit, domain.DirectionCredit
		}
		if amount <= 0 {
			continue
		}
		txns = append(txns, domain.BankTransaction{
			Date:        ParseDate(m[1]),
			Description: strings.TrimSpace(m[2]),
			Amount:      amount,
			Type:        dir,
			Currency:    currency.Default,
		})
	}
	return txns
}
