package view

import "html/template"

// The list surface is regenerated in full on every render, empty state
// included. The empty block used to live inside the list container as a
// persistent node; the first populated render destroyed it and every later
// lookup failed silently. Emitting it as content avoids that class of bug.
var emptyStateTmpl = template.Must(template.New("empty").Parse(`<div class="drawer-empty">
  <svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.2" width="56" height="56">
    <path d="M6 2L3 6v14a2 2 0 002 2h14a2 2 0 002-2V6l-3-4z"/>
    <line x1="3" y1="6" x2="21" y2="6"/>
    <path d="M16 10a4 4 0 01-8 0"/>
  </svg>
  <p>Tu bolsa está vacía</p>
</div>`))

var itemListTmpl = template.Must(template.New("items").Parse(`{{range .}}<div class="cart-item">
  <div class="cart-item-info">
    <div class="cart-item-name">{{.Name}}</div>
    <div class="cart-item-qty">
      <button class="qty-btn" data-action="decrement" data-index="{{.Index}}" title="Quitar uno">−</button>
      <span>{{.Quantity}}</span>
      <button class="qty-btn" data-action="increment" data-index="{{.Index}}" title="Agregar uno">+</button>
      · {{.UnitPrice}} c/u
    </div>
  </div>
  <div class="cart-item-price">{{.Subtotal}}</div>
  <button class="cart-item-remove" data-action="remove" data-index="{{.Index}}" title="Eliminar">×</button>
</div>
{{end}}`))

var summaryTmpl = template.Must(template.New("summary").Parse(`{{range .Lines}}<div class="modal-summary-item">
  <span>{{.Name}} (×{{.Quantity}})</span>
  <strong>{{.Subtotal}}</strong>
</div>
{{end}}<div class="modal-summary-total">
  <span>Total</span>
  <span>{{.Total}}</span>
</div>`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<strong>Resumen del Pedido</strong>
Cliente: {{.Customer}}<br>
Email: {{.Email}}<br>
Teléfono: {{.Phone}}<br>
Dirección: {{.Address}}<br>
Método de pago: {{.PaymentMethod}}
<span class="success-total">Total: {{.Total}}</span>
Fecha: {{.Date}}`))

var noticesTmpl = template.Must(template.New("notices").Parse(`{{range .}}<div class="notif">{{.}}</div>
{{end}}`))
