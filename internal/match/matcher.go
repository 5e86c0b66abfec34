// Package match assigns bank transactions to invoice candidates within
// one company scope. Every (invoice, transaction) pair gets an additive
// multi-signal score; assignment is greedy over the globally best pairs,
// committing each invoice and each transaction at most once.
package match

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contaflow/docrecon/internal/domain"
)

// Signal weights. The name-in-text signal dominates because free-text
// bank descriptions are the most reliable anchor: extracted invoice
// fields are frequently missing or malformed, but the counterparty name
// nearly always appears somewhere in the document body.
const (
	weightNameInText     = 0.50
	weightStructuredName = 0.20
	weightAlias          = 0.20
	weightAmount         = 0.15
	weightDate           = 0.10
)

// DefaultFloor is the minimum score a pair needs to be eligible at all.
// Pairs below it stay unmatched rather than auto-matching on noise.
const DefaultFloor = 0.35

// amountTolerance is the relative difference under which an invoice total
// and a transaction amount are considered the same payment.
const amountTolerance = 0.02

// dateWindowDays is how far a transaction may land from the invoice issue
// date and still earn the date bonus.
const dateWindowDays = 5

// Matcher carries the per-company scope configuration. CompanyName and
// CompanyCUI identify the owning company so its own name never counts as
// a counterparty signal.
type Matcher struct {
	CompanyName string
	CompanyCUI  string
	Floor       float64
}

func New(companyName, companyCUI string) *Matcher {
	return &Matcher{CompanyName: companyName, CompanyCUI: companyCUI, Floor: DefaultFloor}
}

type candidate struct {
	invoiceIdx int
	txnIdx     int
	score      float64
}

// Match scores every pair in scope and commits a greedy best-score-first
// one-to-one assignment. Transactions and invoices left over are simply
// reported, not dropped; a later run recomputes over whatever is still
// unmatched.
func (m *Matcher) Match(invoices []domain.InvoiceCandidate, txns []domain.BankTransaction) domain.MatchResult {
	floor := m.Floor
	if floor <= 0 {
		floor = DefaultFloor
	}

	var pairs []candidate
	for i := range invoices {
		for j := range txns {
			if s := m.Score(&invoices[i], &txns[j]); s >= floor {
				pairs = append(pairs, candidate{invoiceIdx: i, txnIdx: j, score: s})
			}
		}
	}

	// Global best first so a strong transaction cannot be stolen by a
	// weaker invoice that merely sorts earlier in the input.
	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].score > pairs[b].score
	})

	usedInvoice := make(map[int]bool, len(invoices))
	usedTxn := make(map[int]bool, len(txns))
	result := domain.MatchResult{Assignments: []domain.Assignment{}}

	for _, p := range pairs {
		if usedInvoice[p.invoiceIdx] || usedTxn[p.txnIdx] {
			continue
		}
		usedInvoice[p.invoiceIdx] = true
		usedTxn[p.txnIdx] = true
		result.Assignments = append(result.Assignments, domain.Assignment{
			InvoiceID:     invoices[p.invoiceIdx].ID,
			TransactionID: txns[p.txnIdx].ID,
			Score:         p.score,
		})
	}

	for j := range txns {
		if !usedTxn[j] {
			result.UnmatchedTransactions = append(result.UnmatchedTransactions, txns[j])
		}
	}
	return result
}

// Score computes the additive signal score for one pair.
func (m *Matcher) Score(inv *domain.InvoiceCandidate, txn *domain.BankTransaction) float64 {
	rawUpper := strings.ToUpper(inv.RawText)
	descUpper := strings.ToUpper(strings.TrimSpace(txn.Description))
	score := 0.0

	// 1. Counterparty words from the bank description found verbatim in
	// the invoice body.
	tokens := m.descriptionTokens(txn.Description)
	if len(tokens) > 0 {
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(rawUpper, tok) {
				hits++
			}
		}
		score += weightNameInText * float64(hits) / float64(len(tokens))
	}

	// 2. Structured partner name against the description. A blank
	// description is a vacuous substring of every name and earns nothing.
	if name := cleanCompanyName(inv.Fields.PartnerName); name != "" && descUpper != "" {
		if strings.Contains(descUpper, name) || strings.Contains(name, descUpper) {
			score += weightStructuredName
		} else if sharesToken(name, descUpper) {
			score += weightStructuredName / 2
		}
	}

	// 3. Known statement aliases.
	if aliasHit(rawUpper, descUpper) {
		score += weightAlias
	}

	// 4. Amount proximity.
	if amountClose(inv.Fields.TotalAmount, txn.Amount) {
		score += weightAmount
	}

	// 5. Date proximity.
	if datesClose(inv.Fields.IssueDate, txn.Date) {
		score += weightDate
	}

	return score
}

// Banking boilerplate that carries no counterparty information, plus
// legal-entity suffixes and currency codes.
var genericTokens = map[string]bool{
	"PLATA": true, "INCASARE": true, "TRANSFER": true, "COMISION": true,
	"POS": true, "CARD": true, "CUMPARARE": true, "REF": true,
	"REFERINTA": true, "FACTURA": true, "FACT": true, "ORDIN": true,
	"SEPA": true, "BANCA": true, "BANK": true, "PENTRU": true,
	"CATRE": true, "PRIN": true, "SRL": true, "SA": true,
	"PFA": true, "RON": true, "LEI": true, "EUR": true, "USD": true,
	"TVA": true, "CONT": true, "IBAN": true,
}

var (
	emailToken = regexp.MustCompile(`\S+@\S+`)
	wordSplit  = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// descriptionTokens reduces a bank description to the words that could
// name a counterparty: boilerplate, emails, short tokens, pure numbers
// and the owning company's own name and tax id are all removed.
func (m *Matcher) descriptionTokens(desc string) []string {
	desc = emailToken.ReplaceAllString(desc, " ")
	own := make(map[string]bool)
	for _, t := range wordSplit.Split(strings.ToUpper(m.CompanyName), -1) {
		own[t] = true
	}
	own[strings.ToUpper(m.CompanyCUI)] = true
	own[strings.TrimPrefix(strings.ToUpper(m.CompanyCUI), "RO")] = true

	var tokens []string
	for _, t := range wordSplit.Split(strings.ToUpper(desc), -1) {
		if len(t) < 3 || genericTokens[t] || own[t] || isNumeric(t) {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

var legalSuffixes = []string{"S.R.L.", "SRL-D", "SRL", "S.A.", " SA", "P.F.A.", "PFA", "GMBH", "LTD", "LLC", "B.V."}

// cleanCompanyName uppercases a partner name and strips the legal form
// and SC prefix so only the distinctive part is compared.
func cleanCompanyName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "SC ")
	for _, suf := range legalSuffixes {
		n = strings.ReplaceAll(n, suf, " ")
	}
	return strings.TrimSpace(strings.Join(strings.Fields(n), " "))
}

func sharesToken(name, desc string) bool {
	for _, t := range strings.Fields(name) {
		if len(t) >= 3 && !isNumeric(t) && strings.Contains(desc, t) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// amountClose compares the invoice total to the unsigned transaction
// amount within the relative tolerance.
func amountClose(invoiceTotal, txnAmount float64) bool {
	if invoiceTotal <= 0 || txnAmount <= 0 {
		return false
	}
	a := decimal.NewFromFloat(invoiceTotal)
	b := decimal.NewFromFloat(txnAmount)
	diff := a.Sub(b).Abs()
	limit := a.Mul(decimal.NewFromFloat(amountTolerance))
	return diff.LessThanOrEqual(limit)
}

func datesClose(invoiceISO, txnISO string) bool {
	if invoiceISO == "" || txnISO == "" {
		return false
	}
	a, err := time.Parse("2006-01-02", invoiceISO)
	if err != nil {
		return false
	}
	b, err := time.Parse("2006-01-02", txnISO)
	if err != nil {
		return false
	}
	days := a.Sub(b).Hours() / 24
	if days < 0 {
		days = -days
	}
	return days <= dateWindowDays
}
