package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/cesarmodas/storefront-cart/internal/cart"
	"github.com/cesarmodas/storefront-cart/internal/notify"
	"github.com/cesarmodas/storefront-cart/internal/view"
	"github.com/cesarmodas/storefront-cart/pkg/clock"
	pkgerrors "github.com/cesarmodas/storefront-cart/pkg/errors"
	"github.com/cesarmodas/storefront-cart/pkg/logger"
	"github.com/cesarmodas/storefront-cart/pkg/metrics"
	"github.com/cesarmodas/storefront-cart/pkg/money"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State tracks where the checkout dialog is in its lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateFormOpen   State = "form_open"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateConfirmed  State = "confirmed"
)

// Cart is the slice of the cart store the flow needs.
type Cart interface {
	Items() []cart.LineItem
	Total() decimal.Decimal
	Clear(ctx context.Context)
}

// SummaryRenderer rebuilds the modal summary and the confirmation surface.
type SummaryRenderer interface {
	RenderSummary(items []cart.LineItem, total decimal.Decimal)
	RenderConfirmation(data view.ConfirmationData)
}

// Dialogs is the slice of the notification shell the flow drives.
type Dialogs interface {
	Notify(message string)
	CloseDrawer()
	OpenModal()
	CloseModal()
	ShowConfirmation()
	HideConfirmation()
}

// Launcher hands the finished order link to the outside world. Open is
// fire-and-forget from the flow's point of view.
type Launcher interface {
	Open(ctx context.Context, link string) error
}

// LogLauncher records the handoff link. It stands in wherever no browser is
// attached, the link still travels back in the submit response.
type LogLauncher struct {
	Logger *logger.Logger
}

func (l LogLauncher) Open(ctx context.Context, link string) error {
	if l.Logger != nil {
		l.Logger.Info(l.Logger.WithField(ctx, "link", link), "order handed off")
	}
	return nil
}

// FlowParams wires a checkout flow.
type FlowParams struct {
	Cart     Cart
	Renderer SummaryRenderer
	Shell    Dialogs
	Launcher Launcher
	Clock    clock.Clock
	Validate *validator.Validate
	Logger   *logger.Logger
	Metrics  *metrics.CartMetrics

	StoreName      string
	WhatsAppNumber string
	CurrencyPrefix string
	ConfirmDelay   time.Duration
	ConfirmTimeout time.Duration
}

// Flow is the checkout state machine for one session. Idle, form open,
// validating, submitting, confirmed, back to idle. Invalid input returns to
// the open form with the typed fields kept.
type Flow struct {
	mu       sync.Mutex
	state    State
	form     OrderForm
	cart     Cart
	renderer SummaryRenderer
	shell    Dialogs
	launcher Launcher
	clk      clock.Clock
	validate *validator.Validate
	logg     *logger.Logger
	metrics  *metrics.CartMetrics

	storeName      string
	whatsAppNumber string
	currencyPrefix string
	confirmDelay   time.Duration
	confirmTimeout time.Duration

	confirmTimer clock.Cancel
	dismissTimer clock.Cancel
}

// NewFlow builds a checkout flow in the idle state.
func NewFlow(params FlowParams) *Flow {
	clk := params.Clock
	if clk == nil {
		clk = clock.System()
	}
	v := params.Validate
	if v == nil {
		v = validator.New()
	}
	launcher := params.Launcher
	if launcher == nil {
		launcher = LogLauncher{Logger: params.Logger}
	}
	return &Flow{
		state:          StateIdle,
		cart:           params.Cart,
		renderer:       params.Renderer,
		shell:          params.Shell,
		launcher:       launcher,
		clk:            clk,
		validate:       v,
		logg:           params.Logger,
		metrics:        params.Metrics,
		storeName:      params.StoreName,
		whatsAppNumber: params.WhatsAppNumber,
		currencyPrefix: params.CurrencyPrefix,
		confirmDelay:   params.ConfirmDelay,
		confirmTimeout: params.ConfirmTimeout,
	}
}

// State returns the current lifecycle state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Form returns the last submitted fields, kept across a failed validation so
// the customer never retypes them.
func (f *Flow) Form() OrderForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// Open renders the order summary, closes the cart drawer and opens the
// checkout modal. An empty cart gets a notice and the flow stays idle.
// Opening an already open form is a no-op.
func (f *Flow) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateFormOpen {
		return nil
	}
	if f.state != StateIdle {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already in progress")
	}

	items := f.cart.Items()
	if len(items) == 0 {
		f.shell.Notify(notify.NoticeCheckoutEmpty)
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	f.renderer.RenderSummary(items, f.cart.Total())
	f.shell.CloseDrawer()
	f.shell.OpenModal()
	f.state = StateFormOpen
	return nil
}

// Cancel closes the form without submitting. The cart is untouched.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateFormOpen || f.state == StateValidating {
		f.state = StateIdle
	}
	f.shell.CloseModal()
}

// Submit validates the form and, when valid, freezes the order, hands the
// WhatsApp link to the launcher and schedules confirmation. Invalid input
// keeps the form open with a notice; the typed fields survive.
func (f *Flow) Submit(ctx context.Context, form OrderForm) (*OrderRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateFormOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout form is not open")
	}

	items := f.cart.Items()
	if len(items) == 0 {
		f.shell.Notify(notify.NoticeSubmitEmpty)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	f.state = StateValidating
	form.Trim()
	f.form = form

	if err := f.validate.Struct(form); err != nil {
		f.state = StateFormOpen
		f.shell.Notify(notify.NoticeFormIncomplete)
		f.metrics.IncCheckout("invalid")
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order form incomplete")
	}

	f.state = StateSubmitting

	order := OrderRequest{
		ID:          uuid.New(),
		Form:        form,
		Items:       items,
		Total:       f.cart.Total(),
		SubmittedAt: f.clk.Now(),
	}
	message := BuildMessage(f.storeName, f.currencyPrefix, order)
	order.WhatsAppURL = WhatsAppLink(f.whatsAppNumber, message)

	go func(link string) {
		if err := f.launcher.Open(context.Background(), link); err != nil {
			f.metrics.IncCheckout("handoff_failed")
			if f.logg != nil {
				f.logg.Error(context.Background(), "order handoff failed", err)
			}
		}
	}(order.WhatsAppURL)

	f.metrics.IncCheckout("submitted")
	f.confirmTimer = f.clk.AfterFunc(f.confirmDelay, func() {
		f.confirm(order)
	})

	return &order, nil
}

// confirm finishes a submission: confirmation surface up, modal down, cart
// cleared, form reset. Auto-dismiss is scheduled from here.
func (f *Flow) confirm(order OrderRequest) {
	f.mu.Lock()
	if f.state != StateSubmitting {
		f.mu.Unlock()
		return
	}
	f.state = StateConfirmed
	f.form = OrderForm{}
	f.confirmTimer = nil
	f.dismissTimer = f.clk.AfterFunc(f.confirmTimeout, f.Dismiss)
	f.mu.Unlock()

	f.renderer.RenderConfirmation(view.ConfirmationData{
		Customer:      order.Form.FullName(),
		Email:         order.Form.Email,
		Phone:         order.Form.Phone,
		Address:       order.Form.FullAddress(),
		PaymentMethod: order.Form.PaymentMethod,
		Total:         money.Format(f.currencyPrefix, order.Total),
		Date:          order.SubmittedAt.Format(dateLayout),
	})
	f.shell.CloseModal()
	f.shell.ShowConfirmation()

	f.cart.Clear(context.Background())
	f.metrics.IncCheckout("confirmed")
}

// Dismiss hides the confirmation and returns to idle. Safe to call at any
// time and any number of times; a pending auto-dismiss timer is cancelled.
func (f *Flow) Dismiss() {
	f.mu.Lock()
	if f.dismissTimer != nil {
		f.dismissTimer()
		f.dismissTimer = nil
	}
	if f.state == StateConfirmed {
		f.state = StateIdle
	}
	f.mu.Unlock()

	f.shell.HideConfirmation()
}
