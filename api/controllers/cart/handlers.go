package cart

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cesarmodas/storefront-cart/api/middleware"
	"github.com/cesarmodas/storefront-cart/api/responses"
	"github.com/cesarmodas/storefront-cart/api/validators"
	"github.com/cesarmodas/storefront-cart/internal/notify"
	"github.com/cesarmodas/storefront-cart/internal/session"
	pkgerrors "github.com/cesarmodas/storefront-cart/pkg/errors"
	"github.com/cesarmodas/storefront-cart/pkg/logger"
)

// Fetch returns the current cart state and surfaces without mutating
// anything.
func Fetch(mgr *session.Manager, currencyPrefix string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStateDTO(eng, currencyPrefix))
	}
}

// AddItem puts one unit of the product in the cart, opens the drawer so the
// customer sees it land and toasts the addition.
func AddItem(mgr *session.Manager, currencyPrefix string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.UnitPrice.IsNegative() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative"))
			return
		}

		name := strings.TrimSpace(payload.Name)
		eng.Cart.Add(r.Context(), name, payload.UnitPrice)
		eng.Shell.OpenDrawer()
		eng.Shell.Notify(notify.NoticeAdded(name))

		responses.WriteSuccess(w, newStateDTO(eng, currencyPrefix))
	}
}

// ChangeQuantity shifts the quantity of the line at {index}. Dropping to
// zero removes the line; an out-of-range index leaves the cart untouched.
func ChangeQuantity(mgr *session.Manager, currencyPrefix string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		index, err := indexParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload QuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eng.Cart.ChangeQuantity(r.Context(), index, payload.Delta)

		responses.WriteSuccess(w, newStateDTO(eng, currencyPrefix))
	}
}

// RemoveItem deletes the line at {index}. Out-of-range is a no-op.
func RemoveItem(mgr *session.Manager, currencyPrefix string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		index, err := indexParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eng.Cart.Remove(r.Context(), index)

		responses.WriteSuccess(w, newStateDTO(eng, currencyPrefix))
	}
}

// Clear empties the cart, with a different toast when it was already empty.
func Clear(mgr *session.Manager, currencyPrefix string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if eng.Cart.Len() == 0 {
			eng.Shell.Notify(notify.NoticeAlreadyEmpty)
		} else {
			eng.Cart.Clear(r.Context())
			eng.Shell.Notify(notify.NoticeCleared)
		}

		responses.WriteSuccess(w, newStateDTO(eng, currencyPrefix))
	}
}

// OpenDrawer opens the cart drawer.
func OpenDrawer(mgr *session.Manager, currencyPrefix string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eng.Shell.OpenDrawer()
		responses.WriteSuccess(w, newStateDTO(eng, currencyPrefix))
	}
}

// CloseDrawer closes the cart drawer.
func CloseDrawer(mgr *session.Manager, currencyPrefix string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := engineFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eng.Shell.CloseDrawer()
		responses.WriteSuccess(w, newStateDTO(eng, currencyPrefix))
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

func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item index")
	}
	return index, nil
}
