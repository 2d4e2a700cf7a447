package checkout

import (
	"net/http"

	"github.com/cesarmodas/storefront-cart/api/middleware"
	"github.com/cesarmodas/storefront-cart/api/responses"
	"github.com/cesarmodas/storefront-cart/api/validators"
	checkoutflow "github.com/cesarmodas/storefront-cart/internal/checkout"
	"github.com/cesarmodas/storefront-cart/internal/notify"
	"github.com/cesarmodas/storefront-cart/internal/session"
	pkgerrors "github.com/cesarmodas/storefront-cart/pkg/errors"
	"github.com/cesarmodas/storefront-cart/pkg/logger"
)

// StateDTO mirrors the checkout lifecycle for the browser.
type StateDTO struct {
	State    checkoutflow.State     `json:"state"`
	Form     checkoutflow.OrderForm `json:"form"`
	Surfaces map[string]string      `json:"surfaces"`
	Shell    notify.State           `json:"shell"`
}

// SubmittedDTO returns the frozen order handoff.
type SubmittedDTO struct {
	OrderID     string             `json:"order_id"`
	WhatsAppURL string             `json:"whatsapp_url"`
	State       checkoutflow.State `json:"state"`
	Surfaces    map[string]string  `json:"surfaces"`
	Shell       notify.State       `json:"shell"`
}

// Open renders the order summary and opens the checkout modal. An empty
// cart is rejected with the storefront notice.
func Open(mgr *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := eng.Flow.Open(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStateDTO(eng))
	}
}

// Cancel closes the checkout form, cart untouched.
func Cancel(mgr *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eng.Flow.Cancel()

		responses.WriteSuccess(w, newStateDTO(eng))
	}
}

// Submit validates the order form and hands the order off. The flow owns
// validation so invalid input keeps the form open with the typed fields and
// a notice; the handler only relays the outcome.
func Submit(mgr *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var form checkoutflow.OrderForm
		if err := validators.DecodeJSON(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := eng.Flow.Submit(r.Context(), form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, SubmittedDTO{
			OrderID:     order.ID.String(),
			WhatsAppURL: order.WhatsAppURL,
			State:       eng.Flow.State(),
			Surfaces:    eng.Page.Snapshot(),
			Shell:       eng.Shell.Snapshot(),
		})
	}
}

// Dismiss hides the confirmation panel.
func Dismiss(mgr *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eng.Flow.Dismiss()

		responses.WriteSuccess(w, newStateDTO(eng))
	}
}

func newStateDTO(eng *session.Engine) StateDTO {
	return StateDTO{
		State:    eng.Flow.State(),
		Form:     eng.Flow.Form(),
		Surfaces: eng.Page.Snapshot(),
		Shell:    eng.Shell.Snapshot(),
	}
}

func engineFromRequest(mgr *session.Manager, r *http.Request) (*session.Engine, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session missing")
	}
	eng, err := mgr.Engine(r.Context(), sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building session engine")
	}
	return eng, nil
}
