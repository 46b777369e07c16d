package fieldtype

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var decimalPattern = regexp.MustCompile(`^[-+]?\d{1,11}(\.\d{1,10})?$`)

// ParseDecimal parses a fixed-point decimal with at most ten fraction digits.
// Binary floating point is never involved.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatDecimal returns the canonical text of d ("1.10" becomes "1.1")
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}
