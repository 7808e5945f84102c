package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency parses a CMS currency cell ("$1,234.56", quoted or bare) into a
// decimal. Blank or unparseable cells return zero; the addenda use empty
// cells for packaged codes.
func Currency(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", ",", "", "\"", "").Replace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Ratio parses a bare decimal factor such as a wage index ("0.9123") or a
// code pair percent multiplier ("0.2173"). A trailing percent sign is
// accepted and divided out. Blank or unparseable input returns zero.
func Ratio(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if strings.HasSuffix(s, "%") {
		d, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(s, "%")))
		if err != nil {
			return decimal.Zero
		}
		return d.Div(decimal.NewFromInt(100))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
