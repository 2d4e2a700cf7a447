package controllers

import (
	"net/http"

	"github.com/cesarmodas/storefront-cart/api/middleware"
	"github.com/cesarmodas/storefront-cart/api/responses"
	"github.com/cesarmodas/storefront-cart/internal/session"
	pkgerrors "github.com/cesarmodas/storefront-cart/pkg/errors"
	"github.com/cesarmodas/storefront-cart/pkg/logger"
)

// DismissAll is the Escape key over HTTP: drawer, modal and confirmation
// all close, pending timers cancelled.
func DismissAll(mgr *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		eng, err := mgr.Engine(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building session engine"))
			return
		}

		eng.DismissAll()

		responses.WriteSuccess(w, map[string]any{
			"shell":    eng.Shell.Snapshot(),
			"surfaces": eng.Page.Snapshot(),
		})
	}
}
