package middleware

import (
	"fmt"
	"net/http"

	"github.com/cesarmodas/storefront-cart/api/responses"
	pkgerrors "github.com/cesarmodas/storefront-cart/pkg/errors"
	"github.com/cesarmodas/storefront-cart/pkg/logger"
)

// Recoverer turns handler panics into logged 500 envelopes so one broken
// render cannot take the session API down.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": rec})
						logg.Error(ctx, "panic.recovered", err)
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
