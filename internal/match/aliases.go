package match

import "strings"

// knownAliases maps a canonical counterparty marker to the alternate
// strings card processors and banks print on statements. Read-only,
// built once; a hit on either side of a pair is worth a fixed bonus.
var knownAliases = map[string][]string{
	"EMAG":      {"DANTE INTERNATIONAL", "EMG RETAIL"},
	"ORANGE":    {"ORANGE ROMANIA", "ORANGE RO"},
	"VODAFONE":  {"VDF", "VODAFONE ROMANIA"},
	"ENEL":      {"ENEL ENERGIE", "PPC ENERGIE"},
	"PETROM":    {"OMV PETROM", "OMV"},
	"CAREFOUR":  {"CARREFOUR", "CRF RO"},
	"PAYPAL":    {"PAYPAL EUROPE", "PP*"},
	"GOOGLE":    {"GOOGLE CLOUD", "GOOGLE IRELAND"},
	"MICROSOFT": {"MSFT", "MICROSOFT IRELAND"},
}

// aliasHit reports whether one side of a pair names a known counterparty
// and the other side names one of its statement aliases (or the canonical
// form itself). Both inputs are expected uppercased.
func aliasHit(invoiceText, description string) bool {
	for canonical, alts := range knownAliases {
		inInvoice := strings.Contains(invoiceText, canonical)
		inDesc := strings.Contains(description, canonical)
		for _, alt := range alts {
			inInvoice = inInvoice || strings.Contains(invoiceText, alt)
			inDesc = inDesc || strings.Contains(description, alt)
		}
		if inInvoice && inDesc {
			return true
		}
	}
	return false
}
