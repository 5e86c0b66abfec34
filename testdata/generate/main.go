// Command generate produces deterministic sample documents for manual
// runs against a local server: a handful of invoice texts, a matching
// bank statement, and one unreadable file.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

type vendor struct {
	name string
	cui  string
}

func main() {
	rng := rand.New(rand.NewSource(42))
	baseDir := findTestdataDir()

	vendors := []vendor{
		{"ACME TRADING SRL", "RO12345678"},
		{"BETA CONSULT SRL", "RO23456789"},
		{"GAMMA LOGISTICS SA", "RO34567890"},
		{"DELTA SOFT SRL", "RO45678901"},
		{"EPSILON MEDIA PFA", "RO56789012"},
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	invoiceDir := filepath.Join(baseDir, "invoices")
	if err := os.MkdirAll(invoiceDir, 0o755); err != nil {
		fatal(err)
	}

	type issued struct {
		vendor vendor
		date   time.Time
		total  float64
	}
	var all []issued

	for i, v := range vendors {
		date := start.AddDate(0, 0, rng.Intn(20))
		base := float64(rng.Intn(4000)+200) + float64(rng.Intn(100))/100
		vat := roundCents(base * 0.19)
		total := roundCents(base + vat)
		all = append(all, issued{v, date, total})

		text := fmt.Sprintf(`%s
CUI: %s
Factura nr. F-2024-%03d
Data emiterii: %s
Scadenta: %s

Servicii conform contract

Baza de impozitare: %s RON
TVA (19%%): %s RON
Total de plata: %s RON
`,
			v.name, v.cui, i+1,
			date.Format("02.01.2006"),
			date.AddDate(0, 0, 30).Format("02.01.2006"),
			ronAmount(base), ronAmount(vat), ronAmount(total),
		)

		path := filepath.Join(invoiceDir, fmt.Sprintf("invoice_%03d.txt", i+1))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			fatal(err)
		}
	}

	// Statement: one payment per invoice a few days after issue, plus
	// some noise lines that match no invoice.
	statement := "Extras de cont\nPerioada: 01.03.2024 - 31.03.2024\n\n"
	for _, inv := range all {
		payDate := inv.date.AddDate(0, 0, rng.Intn(4)+1)
		statement += fmt.Sprintf("%s Plata factura %s -%s RON\n",
			payDate.Format("02.01.2006"), firstWord(inv.vendor.name), ronAmount(inv.total))
	}
	statement += fmt.Sprintf("%s Comision administrare cont -12,50 RON\n", start.AddDate(0, 0, 10).Format("02.01.2006"))
	statement += fmt.Sprintf("%s Incasare client extern 5.000,00 RON\n", start.AddDate(0, 0, 15).Format("02.01.2006"))

	if err := os.WriteFile(filepath.Join(baseDir, "statement.txt"), []byte(statement), 0o644); err != nil {
		fatal(err)
	}

	// Unreadable input for exercising the failure envelope.
	garbage := make([]byte, 64)
	rng.Read(garbage)
	if err := os.WriteFile(filepath.Join(baseDir, "unreadable.bin"), garbage, 0o644); err != nil {
		fatal(err)
	}

	fmt.Printf("Generated %d invoices, 1 statement and 1 unreadable file under %s\n",
		len(vendors), baseDir)
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// ronAmount formats a float in the Romanian convention (1.234,56).
func ronAmount(v float64) string {
	whole := int(v)
	cents := int(v*100+0.5) - whole*100
	s := fmt.Sprintf("%d", whole)
	if whole >= 1000 {
		s = fmt.Sprintf("%d.%03d", whole/1000, whole%1000)
	}
	return fmt.Sprintf("%s,%02d", s, cents)
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}

func findTestdataDir() string {
	candidates := []string{"testdata", filepath.Join("..", "..", "testdata")}
	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && st.IsDir() {
			return c
		}
	}
	return "testdata"
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
