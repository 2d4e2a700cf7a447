package view

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/cesarmodas/storefront-cart/internal/cart"
	"github.com/cesarmodas/storefront-cart/pkg/logger"
	"github.com/cesarmodas/storefront-cart/pkg/metrics"
	"github.com/cesarmodas/storefront-cart/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Renderer derives every dependent surface from cart state. Render is
// idempotent: given the same items it produces the same content, and it
// never assumes anything about what a previous call wrote.
type Renderer struct {
	page     *Page
	currency string
	logg     *logger.Logger
	metrics  *metrics.CartMetrics
}

// NewRenderer builds a renderer writing to the given page.
func NewRenderer(page *Page, currencyPrefix string, logg *logger.Logger, m *metrics.CartMetrics) (*Renderer, error) {
	if page == nil {
		return nil, fmt.Errorf("page required")
	}
	return &Renderer{page: page, currency: currencyPrefix, logg: logg, metrics: m}, nil
}

// Page returns the page this renderer writes to.
func (r *Renderer) Page() *Page {
	return r.page
}

type itemRow struct {
	Index     int
	Name      string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

// Render rebuilds the badges, the item list and the total from the items.
// Each surface update is independent and best-effort: an absent surface is
// skipped, a failing one is logged without aborting the rest.
func (r *Renderer) Render(items []cart.LineItem) {
	r.metrics.IncRender()

	var errs error

	count := 0
	total := decimal.Zero
	for _, it := range items {
		count += it.Quantity
		total = total.Add(it.Subtotal())
	}

	badge := strconv.Itoa(count)
	for _, name := range r.page.BadgeNames() {
		errs = multierr.Append(errs, r.apply(name, func() (string, error) {
			return badge, nil
		}))
	}

	errs = multierr.Append(errs, r.apply(SurfaceDrawerItems, func() (string, error) {
		return r.itemListHTML(items)
	}))

	errs = multierr.Append(errs, r.apply(SurfaceDrawerTotal, func() (string, error) {
		return money.Format(r.currency, total), nil
	}))

	if errs != nil {
		r.metrics.IncRenderFailure()
		if r.logg != nil {
			r.logg.Error(context.Background(), "some surfaces failed to rebuild", errs)
		}
	}
}

// SummaryData feeds the modal order summary.
type SummaryData struct {
	Lines []itemRow
	Total string
}

// RenderSummary rebuilds the modal order summary surface.
func (r *Renderer) RenderSummary(items []cart.LineItem, total decimal.Decimal) {
	data := SummaryData{Total: money.Format(r.currency, total)}
	for i, it := range items {
		data.Lines = append(data.Lines, r.row(i, it))
	}

	if err := r.apply(SurfaceModalSummary, func() (string, error) {
		var buf bytes.Buffer
		if err := summaryTmpl.Execute(&buf, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}); err != nil {
		r.metrics.IncRenderFailure()
		if r.logg != nil {
			r.logg.Error(context.Background(), "order summary failed to rebuild", err)
		}
	}
}

// ConfirmationData feeds the post-checkout confirmation surface.
type ConfirmationData struct {
	Customer      string
	Email         string
	Phone         string
	Address       string
	PaymentMethod string
	Total         string
	Date          string
}

// RenderConfirmation rebuilds the confirmation surface.
func (r *Renderer) RenderConfirmation(data ConfirmationData) {
	if err := r.apply(SurfaceConfirmation, func() (string, error) {
		var buf bytes.Buffer
		if err := confirmationTmpl.Execute(&buf, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}); err != nil {
		r.metrics.IncRenderFailure()
		if r.logg != nil {
			r.logg.Error(context.Background(), "confirmation failed to rebuild", err)
		}
	}
}

// RenderNotices rebuilds the toast surface from the live notices.
func (r *Renderer) RenderNotices(messages []string) {
	if err := r.apply(SurfaceNotices, func() (string, error) {
		var buf bytes.Buffer
		if err := noticesTmpl.Execute(&buf, messages); err != nil {
			return "", err
		}
		return buf.String(), nil
	}); err != nil {
		r.metrics.IncRenderFailure()
		if r.logg != nil {
			r.logg.Error(context.Background(), "notices failed to rebuild", err)
		}
	}
}

// apply replaces the named surface's content. Absent surfaces are skipped; a
// panicking producer is contained to this one surface.
func (r *Renderer) apply(name string, produce func() (string, error)) (err error) {
	surface, ok := r.page.Lookup(name)
	if !ok {
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("surface %s: panic: %v", name, rec)
		}
	}()

	content, err := produce()
	if err != nil {
		return fmt.Errorf("surface %s: %w", name, err)
	}
	surface.Set(content)
	return nil
}

func (r *Renderer) itemListHTML(items []cart.LineItem) (string, error) {
	var buf bytes.Buffer
	if len(items) == 0 {
		if err := emptyStateTmpl.Execute(&buf, nil); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	rows := make([]itemRow, len(items))
	for i, it := range items {
		rows[i] = r.row(i, it)
	}
	if err := itemListTmpl.Execute(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) row(index int, it cart.LineItem) itemRow {
	return itemRow{
		Index:     index,
		Name:      it.Name,
		Quantity:  it.Quantity,
		UnitPrice: money.Format(r.currency, it.UnitPrice),
		Subtotal:  money.Format(r.currency, it.Subtotal()),
	}
}
