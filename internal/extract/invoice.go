package extract

import (
	"regexp"
	"strings"

	"github.com/contaflow/docrecon/internal/currency"
	"github.com/contaflow/docrecon/internal/domain"
)

// standardVATRate is the Romanian standard TVA rate assumed when only a
// total amount is known and the components must be derived.
const standardVATRate = 0.19

// invoiceTargetFields is the number of field cascades confidence is
// measured against.
const invoiceTargetFields = 8

// fieldRule is one entry of an ordered pattern cascade. Rules run most
// specific first; the first rule whose pattern matches wins and the rest
// of the list is skipped. New locale patterns are added to the lists, not
// to control flow.
type fieldRule struct {
	pattern *regexp.Regexp
	extract func(m []string) string
}

func group(n int) func([]string) string {
	return func(m []string) string { return strings.TrimSpace(m[n]) }
}

var invoiceNumberRules = []fieldRule{
	// "Factura nr. F-2024-001", "factură fiscală număr: 123"
	{regexp.MustCompile(`(?i)factur[ăa]\s*(?:fiscal[ăa]\s*)?(?:nr|num[ăa]r)\.?\s*:?\s*([A-Z0-9][A-Z0-9\-/]*)`), group(1)},
	// "Seria ABC nr. 1234"
	{regexp.MustCompile(`(?i)\bseria?\s+([A-Z]{1,5})\s*,?\s*(?:nr\.?\s*)?(\d{1,10})`), func(m []string) string {
		return strings.ToUpper(m[1]) + "-" + m[2]
	}},
	// bare alphanumeric code like "FF-1023" or "INV/2024123"
	{regexp.MustCompile(`\b([A-Z]{1,4}[-/]\d{3,})\b`), group(1)},
	// English fallback: "Invoice no: 2024-001"
	{regexp.MustCompile(`(?i)invoice\s*(?:no|number|#)?\.?\s*:?\s*([A-Z0-9][A-Z0-9\-/]*)`), group(1)},
}

// legalSuffix covers the Romanian and common EU legal entity forms that
// terminate a company name.
const legalSuffix = `SRL-D|S\.R\.L\.|SRL|S\.A\.|SA|P\.F\.A\.|PFA|I\.I\.|GmbH|Ltd|LLC|B\.V\.|BV`

var partnerNameRules = []fieldRule{
	// role-labeled: "Furnizor: ACME TRADING SRL"
	{regexp.MustCompile(`(?i)(?:furnizor|client|beneficiar|cump[ăa]r[ăa]tor|prestator)\s*:?\s*((?:S\.?C\.?\s+)?[A-ZĂÂÎȘȚ][A-Za-zĂÂÎȘȚăâîșț0-9&.\- ]*?(?:` + legalSuffix + `))`), group(1)},
	// unlabeled: capitalized words followed by a legal suffix
	{regexp.MustCompile(`\b((?:SC\s+)?[A-ZĂÂÎȘȚ][A-ZĂÂÎȘȚ0-9&.\- ]+?\s(?:` + legalSuffix + `))\b`), group(1)},
}

var cuiRules = []fieldRule{
	// "CUI: RO12345678", "cod fiscal 123456"
	{regexp.MustCompile(`(?i)(?:CUI|CIF|cod\s+fiscal)\s*:?\s*(?:RO\s*)?(\d{2,10})\b`), func(m []string) string {
		return "RO" + m[1]
	}},
	// bare "RO12345678" token
	{regexp.MustCompile(`\bRO(\d{2,10})\b`), func(m []string) string {
		return "RO" + m[1]
	}},
}

const dateFragment = `(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`

var issueDateRules = []fieldRule{
	{regexp.MustCompile(`(?i)data\s+(?:emiterii|facturii|emit[ăa]rii)\s*:?\s*` + dateFragment), group(1)},
	{regexp.MustCompile(`(?i)emis[ăa]?\s+la\s*:?\s*` + dateFragment), group(1)},
	{regexp.MustCompile(`(?i)\bdata\b\s*:?\s*` + dateFragment), group(1)},
}

var dueDateRules = []fieldRule{
	{regexp.MustCompile(`(?i)(?:scaden[țt][ăa](?:\s+la)?|data\s+scaden[țt]ei|termen\s+de\s+plat[ăa])\s*:?\s*` + dateFragment), group(1)},
}

const amountFragment = `(\d[\d.,]*)`

var totalAmountRules = []fieldRule{
	{regexp.MustCompile(`(?i)\btotal\s+(?:general|de\s+plat[ăa])\s*:?\s*` + amountFragment), group(1)},
	{regexp.MustCompile(`(?i)\btotal\b\s*:?\s*` + amountFragment), group(1)},
	{regexp.MustCompile(`\bTOTAL\s+` + amountFragment), group(1)},
}

var vatAmountRules = []fieldRule{
	{regexp.MustCompile(`(?i)valoare\s+TVA\s*:?\s*` + amountFragment), group(1)},
	{regexp.MustCompile(`(?i)\bTVA\s*(?:\(?\s*\d{1,2}\s*%\s*\)?)?\s*:?\s*` + amountFragment), group(1)},
}

var baseAmountRules = []fieldRule{
	{regexp.MustCompile(`(?i)baz[ăa]\s+de\s+impozitare\s*:?\s*` + amountFragment), group(1)},
	{regexp.MustCompile(`(?i)valoare\s+f[ăa]r[ăa]\s+TVA\s*:?\s*` + amountFragment), group(1)},
	{regexp.MustCompile(`(?i)\bsubtotal\b\s*:?\s*` + amountFragment), group(1)},
}

// decimalLooking finds tokens shaped like monetary values (two decimal
// places, either separator convention). Used only by the last-resort
// total fallback so bare integers and date fragments stay out.
var decimalLooking = regexp.MustCompile(`\b\d{1,3}(?:\.\d{3})*,\d{2}\b|\b\d{1,3}(?:,\d{3})*\.\d{2}\b`)

// applyRules runs an ordered cascade and returns the first extraction.
func applyRules(rules []fieldRule, text string) string {
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			if v := r.extract(m); v != "" {
				return v
			}
		}
	}
	return ""
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeText collapses whitespace runs so label patterns match across
// the line breaks PDF flattening introduces.
func normalizeText(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// ExtractInvoiceFields applies the pattern cascades to invoice text and
// returns the recovered fields with a completeness confidence in [0,1].
// No field is required: empty input yields an empty result and zero
// confidence, not an error.
func ExtractInvoiceFields(text string) (domain.InvoiceFields, float64) {
	t := normalizeText(text)
	var f domain.InvoiceFields
	matched := 0

	if v := applyRules(invoiceNumberRules, t); v != "" {
		f.InvoiceNumber = v
		matched++
	}
	if v := applyRules(partnerNameRules, t); v != "" {
		f.PartnerName = v
		matched++
	}
	if v := applyRules(cuiRules, t); v != "" {
		f.PartnerCUI = v
		matched++
	}
	if v := ParseDate(applyRules(issueDateRules, t)); v != "" {
		f.IssueDate = v
		matched++
	} else if m := dateToken.FindString(t); m != "" {
		// No labeled issue date: fall back to the first date-shaped
		// token anywhere in the document.
		if v := ParseDate(m); v != "" {
			f.IssueDate = v
			matched++
		}
	}
	if v := ParseDate(applyRules(dueDateRules, t)); v != "" {
		f.DueDate = v
		matched++
	}
	if v := ParseAmount(applyRules(totalAmountRules, t)); v > 0 {
		f.TotalAmount = v
		matched++
	}
	if v := ParseAmount(applyRules(vatAmountRules, t)); v > 0 {
		f.VATAmount = v
		matched++
	}
	if v := ParseAmount(applyRules(baseAmountRules, t)); v > 0 {
		f.AmountWithoutVAT = v
		matched++
	}

	// Last resort when no labeled total matched and it cannot be derived
	// from labeled components: the largest decimal-looking token in the
	// document is assumed to be the total.
	if f.TotalAmount == 0 && !(f.VATAmount > 0 && f.AmountWithoutVAT > 0) {
		if v := largestAmount(t); v > 0 {
			f.TotalAmount = v
			matched++
		}
	}

	reconcileAmounts(&f)
	f.Currency = currency.Detect(t)

	conf := float64(matched) / float64(invoiceTargetFields)
	if conf > 1 {
		conf = 1
	}
	return f, conf
}

func largestAmount(text string) float64 {
	// Date fragments like 15.03.2024 contain decimal-looking substrings;
	// drop them before scanning.
	text = dateToken.ReplaceAllString(text, " ")
	max := 0.0
	for _, tok := range decimalLooking.FindAllString(text, -1) {
		if v := ParseAmount(tok); v > max {
			max = v
		}
	}
	return max
}

// reconcileAmounts derives whichever of base, VAT and total is missing so
// that base + VAT == total holds on the result. A lone total is split
// assuming the standard VAT rate.
func reconcileAmounts(f *domain.InvoiceFields) {
	total, vat, base := f.TotalAmount, f.VATAmount, f.AmountWithoutVAT
	switch {
	case total > 0 && vat > 0 && base == 0:
		f.AmountWithoutVAT = round2(total - vat)
	case total > 0 && base > 0 && vat == 0:
		f.VATAmount = round2(total - base)
	case base > 0 && vat > 0 && total == 0:
		f.TotalAmount = round2(base + vat)
	case total > 0 && vat == 0 && base == 0:
		f.VATAmount = round2(total - total/(1+standardVATRate))
		f.AmountWithoutVAT = round2(total - f.VATAmount)
	}
}
