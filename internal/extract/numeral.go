// Package extract recovers structured invoice fields and bank statement
// lines from flattened document text. Everything in here is a pure
// function over strings: malformed tokens degrade to zero values and
// never abort processing of the rest of the document.
package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount classification. Romanian documents write 1.234,56 where
// international ones write 1,234.56; both occur in the wild, sometimes
// on the same statement.
var (
	roGroupedAmount = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+(?:,\d{1,2})?$`)
	usGroupedAmount = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?$`)
	commaDecimal    = regexp.MustCompile(`^\d+,\d{1,2}$`)
)

// ParseAmount converts a locale-ambiguous numeric string to a float.
// Classification is most-specific-first; anything unparseable yields 0.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	switch {
	case roGroupedAmount.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case usGroupedAmount.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case commaDecimal.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if neg {
		v = -v
	}
	return v
}

// dateToken matches day[./-]month[./-]year fragments anywhere in text.
var dateToken = regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})\b`)

// ParseDate normalizes a day-first date fragment to ISO YYYY-MM-DD.
// Two-digit years are expanded with a 20 prefix. Only a month <= 12 and
// day <= 31 sanity check is applied, no full calendar validation; the
// day-first reading is the fixed locale assumption, so 03/04/2024 is
// April 3rd. Returns "" for anything that fails.
func ParseDate(raw string) string {
	m := dateToken.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	yearStr := m[3]
	if len(yearStr) == 2 {
		yearStr = "20" + yearStr
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1000 {
		return ""
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// round2 rounds a monetary value to 2 decimals. Done through decimal to
// avoid float drift on amounts like 1190.00 - 190.00.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
