package cart

import (
	"github.com/cesarmodas/storefront-cart/internal/notify"
	"github.com/cesarmodas/storefront-cart/internal/session"
	"github.com/cesarmodas/storefront-cart/pkg/money"
)

// ItemDTO is one cart line as the API exposes it.
type ItemDTO struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// StateDTO is the full cart state plus the rebuilt surfaces. The browser
// swaps each surface's fragment in place after every mutation.
type StateDTO struct {
	Items     []ItemDTO         `json:"items"`
	Total     string            `json:"total"`
	ItemCount int               `json:"item_count"`
	Surfaces  map[string]string `json:"surfaces"`
	Shell     notify.State      `json:"shell"`
}

func newStateDTO(eng *session.Engine, currencyPrefix string) StateDTO {
	items := eng.Cart.Items()
	dto := StateDTO{
		Items:     make([]ItemDTO, 0, len(items)),
		Total:     money.Format(currencyPrefix, eng.Cart.Total()),
		ItemCount: eng.Cart.ItemCount(),
		Surfaces:  eng.Page.Snapshot(),
		Shell:     eng.Shell.Snapshot(),
	}
	for _, it := range items {
		dto.Items = append(dto.Items, ItemDTO{
			Name:      it.Name,
			UnitPrice: money.Format(currencyPrefix, it.UnitPrice),
			Quantity:  it.Quantity,
			Subtotal:  money.Format(currencyPrefix, it.Subtotal()),
		})
	}
	return dto
}
