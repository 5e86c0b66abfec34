package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/contaflow/docrecon/internal/domain"
)

func TestExtractStatementLines_Basic(t *testing.T) {
	text := `EXTRAS DE CONT
15.03.2024 Plata factura ACME SRL -250,50 LEI
16.03.2024 Incasare client 1.500,00 RON
Sold final 5.000,00`

	txns, conf := ExtractStatementLines(text)

	want := []domain.BankTransaction{
		{Date: "2024-03-15", Description: "Plata factura ACME SRL", Amount: 250.50, Type: domain.DirectionDebit, Currency: "RON"},
		{Date: "2024-03-16", Description: "Incasare client", Amount: 1500.00, Type: domain.DirectionCredit, Currency: "RON"},
	}
	if diff := cmp.Diff(want, txns); diff != "" {
		t.Errorf("transactions mismatch (-want +got):\n%s", diff)
	}
	if conf != 0.4 {
		t.Errorf("confidence: got %v, want 0.4 (2 of 5)", conf)
	}
}

func TestExtractStatementLines_ZeroAmountDiscarded(t *testing.T) {
	text := `15.03.2024 Comision administrare 0,00 RON
16.03.2024 Plata chirie -800,00 RON`

	txns, _ := ExtractStatementLines(text)

	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1 (zero-amount row dropped)", len(txns))
	}
	if txns[0].Description != "Plata chirie" {
		t.Errorf("survivor: got %q, want Plata chirie", txns[0].Description)
	}
}

func TestExtractStatementLines_BadLinesSkipped(t *testing.T) {
	text := `garbage header line
15.03.2024 Plata utilitati -120,00
not a transaction at all
another noise row with no date`

	txns, _ := ExtractStatementLines(text)

	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
	if txns[0].Amount != 120.00 || txns[0].Type != domain.DirectionDebit {
		t.Errorf("got %+v, want 120.00 debit", txns[0])
	}
}

func TestExtractStatementLines_TabularFallback(t *testing.T) {
	// Debit rows print "-" in the credit column, which the primary
	// pattern cannot parse. Only the tabular fallback handles them.
	text := `15.03.2024 Plata furnizor ACME 250,50 -
16.03.2024 Plata salarii 3.200,00 -`

	txns, _ := ExtractStatementLines(text)

	want := []domain.BankTransaction{
		{Date: "2024-03-15", Description: "Plata furnizor ACME", Amount: 250.50, Type: domain.DirectionDebit, Currency: "RON"},
		{Date: "2024-03-16", Description: "Plata salarii", Amount: 3200.00, Type: domain.DirectionDebit, Currency: "RON"},
	}
	if diff := cmp.Diff(want, txns); diff != "" {
		t.Errorf("tabular transactions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTabular_Columns(t *testing.T) {
	lines := []string{
		"15.03.2024 Plata furnizor 250,50 -",       // debit column populated
		"16.03.2024 Incasare client - 900,00",      // credit column populated
		"17.03.2024 Transfer intern 50,00 50,00",   // both populated: ambiguous, skipped
		"18.03.2024 Storno - -",                    // neither populated
	}

	txns := parseTabular(lines)

	want := []domain.BankTransaction{
		{Date: "2024-03-15", Description: "Plata furnizor", Amount: 250.50, Type: domain.DirectionDebit, Currency: "RON"},
		{Date: "2024-03-16", Description: "Incasare client", Amount: 900.00, Type: domain.DirectionCredit, Currency: "RON"},
	}
	if diff := cmp.Diff(want, txns); diff != "" {
		t.Errorf("tabular rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractStatementLines_ConfidenceSaturates(t *testing.T) {
	text := `01.03.2024 Plata a -10,00
02.03.2024 Plata b -10,00
03.03.2024 Plata c -10,00
04.03.2024 Plata d -10,00
05.03.2024 Plata e -10,00
06.03.2024 Plata f -10,00
07.03.2024 Plata g -10,00`

	txns, conf := ExtractStatementLines(text)

	if len(txns) != 7 {
		t.Fatalf("got %d transactions, want 7", len(txns))
	}
	if conf != 1 {
		t.Errorf("confidence: got %v, want 1 (capped)", conf)
	}
}

func TestExtractStatementLines_Empty(t *testing.T) {
	txns, conf := ExtractStatementLines("")
	if len(txns) != 0 {
		t.Errorf("got %d transactions, want 0", len(txns))
	}
	if conf != 0 {
		t.Errorf("confidence: got %v, want 0", conf)
	}
}
