// Package money parses the monetary cell values found in delivery
// platform exports. Inputs arrive as free text with mixed currency
// symbols and locale formatting; a value that cannot be parsed is
// worth nothing rather than fatal to the batch.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var symbolReplacer = strings.NewReplacer(
	"$", "",
	"￥", "",
	"¥", "",
	",", "",
	" ", "",
	"\u00a0", "",
)

// Parse converts a raw monetary string to a decimal amount.
// Currency symbols, thousands separators and stray whitespace are
// stripped first. Refunds stay negative. Any parse failure, including
// empty cells and textual null markers, yields exactly zero; Parse
// never returns an error.
func Parse(raw string) decimal.Decimal {
	s := symbolReplacer.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero
	}
	switch strings.ToLower(s) {
	case "nan", "null", "none", "n/a", "-":
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
