package extract

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/contaflow/docrecon/internal/domain"
)

func TestExtractInvoiceFields_AmountReconciliation(t *testing.T) {
	fields, _ := ExtractInvoiceFields("Total: 1.190,00 RON TVA 190,00 RON")

	if fields.TotalAmount != 1190.00 {
		t.Errorf("total: got %v, want 1190.00", fields.TotalAmount)
	}
	if fields.VATAmount != 190.00 {
		t.Errorf("vat: got %v, want 190.00", fields.VATAmount)
	}
	if fields.AmountWithoutVAT != 1000.00 {
		t.Errorf("base: got %v, want 1000.00", fields.AmountWithoutVAT)
	}
	if fields.Currency != "RON" {
		t.Errorf("currency: got %q, want RON", fields.Currency)
	}
}

func TestExtractInvoiceFields_LabeledFields(t *testing.T) {
	text := "SC EXAMPLE SRL CUI RO12345678 factura nr. F-2024-001 data 15.03.2024"
	fields, conf := ExtractInvoiceFields(text)

	if !strings.Contains(fields.PartnerName, "EXAMPLE SRL") {
		t.Errorf("partner name: got %q, want it to contain EXAMPLE SRL", fields.PartnerName)
	}
	if fields.PartnerCUI != "RO12345678" {
		t.Errorf("cui: got %q, want RO12345678", fields.PartnerCUI)
	}
	if !strings.Contains(fields.InvoiceNumber, "F-2024-001") {
		t.Errorf("invoice number: got %q, want it to contain F-2024-001", fields.InvoiceNumber)
	}
	if fields.IssueDate != "2024-03-15" {
		t.Errorf("issue date: got %q, want 2024-03-15", fields.IssueDate)
	}
	if conf <= 0 || conf > 1 {
		t.Errorf("confidence out of range: %v", conf)
	}
}

func TestExtractInvoiceFields_FullInvoice(t *testing.T) {
	text := `Furnizor: ACME TRADING SRL
CUI: RO12345678
Factura nr. F-2024-042
Data emiterii: 10.03.2024
Scadenta: 09.04.2024
Baza de impozitare: 1.000,00 RON
TVA (19%): 190,00 RON
Total de plata: 1.190,00 RON`

	fields, conf := ExtractInvoiceFields(text)

	want := domain.InvoiceFields{
		InvoiceNumber:    "F-2024-042",
		PartnerName:      "ACME TRADING SRL",
		PartnerCUI:       "RO12345678",
		IssueDate:        "2024-03-10",
		DueDate:          "2024-04-09",
		AmountWithoutVAT: 1000.00,
		VATAmount:        190.00,
		TotalAmount:      1190.00,
		Currency:         "RON",
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if conf != 1 {
		t.Errorf("confidence: got %v, want 1 (all 8 fields found)", conf)
	}
}

func TestExtractInvoiceFields_EmptyInput(t *testing.T) {
	fields, conf := ExtractInvoiceFields("")

	if conf != 0 {
		t.Errorf("confidence: got %v, want 0", conf)
	}
	if fields.InvoiceNumber != "" || fields.PartnerName != "" || fields.PartnerCUI != "" {
		t.Errorf("expected no identity fields, got %+v", fields)
	}
	if fields.TotalAmount != 0 || fields.VATAmount != 0 || fields.AmountWithoutVAT != 0 {
		t.Errorf("expected no amounts, got %+v", fields)
	}
}

func TestExtractInvoiceFields_TotalOnlyDerivesVAT(t *testing.T) {
	fields, _ := ExtractInvoiceFields("Servicii consultanta Total: 1.190,00 RON")

	if fields.TotalAmount != 1190.00 {
		t.Fatalf("total: got %v, want 1190.00", fields.TotalAmount)
	}
	// 19% standard rate split.
	if fields.VATAmount != 190.00 {
		t.Errorf("vat: got %v, want 190.00", fields.VATAmount)
	}
	if fields.AmountWithoutVAT != 1000.00 {
		t.Errorf("base: got %v, want 1000.00", fields.AmountWithoutVAT)
	}
}

func TestExtractInvoiceFields_FallbackLargestAmount(t *testing.T) {
	// No labeled total anywhere: the largest decimal-looking token wins.
	fields, conf := ExtractInvoiceFields("Articol A 100,00 Articol B 250,00 Articol C 75,50")

	if fields.TotalAmount != 250.00 {
		t.Errorf("total: got %v, want 250.00 (largest token)", fields.TotalAmount)
	}
	if conf == 0 {
		t.Error("confidence: fallback total should count as one matched field")
	}
}

func TestExtractInvoiceFields_CurrencyDetection(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Total: 100,00 EUR", "EUR"},
		{"Total: $250.00", "USD"},
		{"Total: 100,00 RON", "RON"},
		{"Total: 100,00", "RON"}, // default
	}
	for _, c := range cases {
		fields, _ := ExtractInvoiceFields(c.text)
		if fields.Currency != c.want {
			t.Errorf("currency of %q: got %q, want %q", c.text, fields.Currency, c.want)
		}
	}
}

// The reconciliation invariant: whenever at least two of base, VAT and
// total are populated, base + VAT == total at 2 decimals.
func TestExtractInvoiceFields_ReconciliationInvariant(t *testing.T) {
	texts := []string{
		"Total: 1.190,00 TVA 190,00",
		"Baza de impozitare: 1.000,00 TVA: 190,00",
		"Total general: 847,33",
		"Subtotal: 812,75 Total: 999,68",
	}
	for _, text := range texts {
		f, _ := ExtractInvoiceFields(text)
		if f.TotalAmount == 0 {
			t.Errorf("%q: no total recovered", text)
			continue
		}
		sum := math.Round((f.AmountWithoutVAT+f.VATAmount)*100) / 100
		total := math.Round(f.TotalAmount*100) / 100
		if sum != total {
			t.Errorf("%q: base %v + vat %v = %v, want %v",
				text, f.AmountWithoutVAT, f.VATAmount, sum, total)
		}
	}
}

// Extraction is a pure function: same input, same output.
func TestExtractInvoiceFields_Idempotent(t *testing.T) {
	text := "Furnizor: ACME SRL CUI RO123456 Total: 1.190,00 TVA 190,00"
	f1, c1 := ExtractInvoiceFields(text)
	f2, c2 := ExtractInvoiceFields(text)

	if diff := cmp.Diff(f1, f2); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	if c1 != c2 {
		t.Errorf("confidence differs: %v vs %v", c1, c2)
	}
}

func TestExtractInvoiceFields_ConfidenceBounds(t *testing.T) {
	inputs := []string{
		"",
		"x",
		"\x00\x01garbage\xff",
		"Furnizor: ACME SRL CUI RO123 Factura nr. 1 data 01.01.24 Scadenta: 31.01.24 Total: 119,00 TVA 19,00 Subtotal: 100,00",
	}
	for _, in := range inputs {
		_, conf := ExtractInvoiceFields(in)
		if conf < 0 || conf > 1 {
			t.Errorf("confidence out of [0,1] for %q: %v", in, conf)
		}
	}
}
