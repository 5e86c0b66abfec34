package currency

import "strings"

// Default is the local currency assumed when a document names no other.
const Default = "RON"

// aliases maps tokens seen in document text to ISO 4217 codes. Romanian
// statements frequently print "LEI" or "lei" instead of RON.
var aliases = map[string]string{
	"RON": "RON",
	"LEI": "RON",
	"LEU": "RON",
	"EUR": "EUR",
	"€":   "EUR",
	"USD": "USD",
	"$":   "USD",
}

// Normalize maps a currency token from document text to its ISO code.
// Unknown tokens come back unchanged, uppercased.
func Normalize(token string) string {
	t := strings.ToUpper(strings.TrimSpace(token))
	if code, ok := aliases[t]; ok {
		return code
	}
	return t
}

// Known reports whether code is a currency this system understands.
func Known(code string) bool {
	switch strings.ToUpper(code) {
	case "RON", "EUR", "USD":
		return true
	}
	return false
}

// Detect scans free text for a currency marker. EUR and USD win over the
// default; anything else is assumed to be the local currency.
func Detect(text string) string {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "EUR") || strings.Contains(text, "€"):
		return "EUR"
	case strings.Contains(upper, "USD") || strings.Contains(text, "$"):
		return "USD"
	default:
		return Default
	}
}
