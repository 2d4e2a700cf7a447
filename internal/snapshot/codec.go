package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/cesarmodas/storefront-cart/internal/cart"
	"github.com/shopspring/decimal"
)

// record is the persisted wire layout: an ordered list of
// {name, unit_price, quantity} objects, replaced whole on every save.
type record struct {
	Name      string      `json:"name"`
	UnitPrice json.Number `json:"unit_price"`
	Quantity  int         `json:"quantity"`
}

func encode(items []cart.LineItem) ([]byte, error) {
	records := make([]record, len(items))
	for i, it := range items {
		records[i] = record{
			Name:      it.Name,
			UnitPrice: json.Number(it.UnitPrice.String()),
			Quantity:  it.Quantity,
		}
	}
	return json.Marshal(records)
}

func decode(data []byte) ([]cart.LineItem, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding cart snapshot: %w", err)
	}

	items := make([]cart.LineItem, 0, len(records))
	for _, r := range records {
		price, err := decimal.NewFromString(r.UnitPrice.String())
		if err != nil {
			return nil, fmt.Errorf("decoding unit price %q: %w", r.UnitPrice, err)
		}
		if r.Quantity < 1 {
			return nil, fmt.Errorf("snapshot line %q has quantity %d", r.Name, r.Quantity)
		}
		items = append(items, cart.LineItem{Name: r.Name, UnitPrice: price, Quantity: r.Quantity})
	}
	return items, nil
}
