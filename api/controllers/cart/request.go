package cart

import "github.com/shopspring/decimal"

// AddItemRequest adds one unit of a product to the cart.
type AddItemRequest struct {
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// QuantityRequest shifts the quantity of the line at the addressed index.
type QuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}
