package cart

import (
	"github.com/cesarmodas/storefront-cart/pkg/money"
	"github.com/shopspring/decimal"
)

// LineItem is one product entry in the cart. Name is the identity key: two
// adds with the same name collapse into one line with a higher quantity.
type LineItem struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal returns unit price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return money.Subtotal(li.UnitPrice, li.Quantity)
}
