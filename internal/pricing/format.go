package pricing

import "github.com/shopspring/decimal"

// Format renders an amount for display, e.g. "R$ 40.90".
func Format(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// Fixed renders an amount with exactly two decimals and no currency symbol.
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}
