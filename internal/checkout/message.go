package checkout

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cesarmodas/storefront-cart/internal/cart"
	"github.com/cesarmodas/storefront-cart/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order dates render day-first, es-PE style.
const dateLayout = "02/01/2006"

// OrderRequest freezes everything the order message needs at submit time.
// The cart keeps mutating afterwards; the request does not.
type OrderRequest struct {
	ID          uuid.UUID       `json:"id"`
	Form        OrderForm       `json:"form"`
	Items       []cart.LineItem `json:"items"`
	Total       decimal.Decimal `json:"total"`
	SubmittedAt time.Time       `json:"submitted_at"`
	WhatsAppURL string          `json:"whatsapp_url"`
}

// BuildMessage renders the plain-text order message handed to WhatsApp.
// Section order and wording are fixed storefront copy, the stray asterisk on
// the products header included.
func BuildMessage(storeName, currencyPrefix string, req OrderRequest) string {
	var b strings.Builder

	b.WriteString("*NUEVA COMPRA — " + storeName + "*\n\n")

	b.WriteString("*CLIENTE*\n")
	b.WriteString("Nombre: " + req.Form.FullName() + "\n")
	b.WriteString("Email: " + req.Form.Email + "\n")
	b.WriteString("Teléfono: " + req.Form.Phone + "\n\n")

	b.WriteString("*DIRECCIÓN DE ENTREGA*\n")
	b.WriteString(req.Form.FullAddress() + "\n")
	if req.Form.Reference != "" {
		b.WriteString("Referencia: " + req.Form.Reference + "\n")
	}

	b.WriteString("\n*MÉTODO DE PAGO*\n" + req.Form.PaymentMethod + "\n\n")

	b.WriteString("*PRODUCTOS:\n")
	for _, it := range req.Items {
		b.WriteString("  • " + it.Name + " (×" + strconv.Itoa(it.Quantity) + ") — " + money.Format(currencyPrefix, it.Subtotal()) + "\n")
	}

	b.WriteString("\n*TOTAL: " + money.Format(currencyPrefix, req.Total) + "*\n\n")

	if req.Form.Notes != "" {
		b.WriteString("*Notas Especiales:*\n" + req.Form.Notes + "\n\n")
	}

	b.WriteString("Fecha: " + req.SubmittedAt.Format(dateLayout))

	return b.String()
}

// WhatsAppLink builds the wa.me deep link carrying the URL-encoded message.
func WhatsAppLink(number, message string) string {
	u := url.URL{Scheme: "https", Host: "wa.me", Path: "/" + number}
	q := url.Values{}
	q.Set("text", message)
	u.RawQuery = q.Encode()
	return u.String()
}
