package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cesarmodas/storefront-cart/api/controllers"
	cartcontrollers "github.com/cesarmodas/storefront-cart/api/controllers/cart"
	checkoutcontrollers "github.com/cesarmodas/storefront-cart/api/controllers/checkout"
	"github.com/cesarmodas/storefront-cart/api/middleware"
	"github.com/cesarmodas/storefront-cart/internal/session"
	"github.com/cesarmodas/storefront-cart/pkg/config"
	"github.com/cesarmodas/storefront-cart/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessions *session.Manager,
	gatherer prometheus.Gatherer,
	snapshotPingers ...controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, snapshotPingers...))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	currency := cfg.UI.CurrencyPrefix

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(sessions, currency, logg))
			r.Delete("/", cartcontrollers.Clear(sessions, currency, logg))
			r.Post("/items", cartcontrollers.AddItem(sessions, currency, logg))
			r.Post("/items/{index}/quantity", cartcontrollers.ChangeQuantity(sessions, currency, logg))
			r.Delete("/items/{index}", cartcontrollers.RemoveItem(sessions, currency, logg))
			r.Post("/drawer/open", cartcontrollers.OpenDrawer(sessions, currency, logg))
			r.Post("/drawer/close", cartcontrollers.CloseDrawer(sessions, currency, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/open", checkoutcontrollers.Open(sessions, logg))
			r.Post("/cancel", checkoutcontrollers.Cancel(sessions, logg))
			r.Post("/submit", checkoutcontrollers.Submit(sessions, logg))
			r.Post("/dismiss", checkoutcontrollers.Dismiss(sessions, logg))
		})

		r.Post("/dismiss-all", controllers.DismissAll(sessions, logg))
	})

	return r
}
