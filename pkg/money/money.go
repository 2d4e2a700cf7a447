package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders an amount with the storefront currency prefix and two
// decimal places, e.g. "S/ 180.00".
func Format(prefix string, amount decimal.Decimal) string {
	p := strings.TrimSpace(prefix)
	if p == "" {
		return amount.StringFixed(2)
	}
	return p + " " + amount.StringFixed(2)
}

// Subtotal multiplies a unit price by a quantity.
func Subtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
