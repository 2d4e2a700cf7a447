package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records counters for cart mutations, renders and checkouts.
type CartMetrics struct {
	mutations        *prometheus.CounterVec
	renders          prometheus.Counter
	renderFailures   prometheus.Counter
	snapshotFailures prometheus.Counter
	checkouts        *prometheus.CounterVec
}

// NewCartMetrics registers the storefront metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	renders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "view_renders_total",
		Help: "Full view rebuilds.",
	})
	renderFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "view_render_failures_total",
		Help: "Surface updates that failed during a rebuild.",
	})
	snapshotFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_snapshot_failures_total",
		Help: "Best-effort snapshot writes that failed.",
	})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(mutations, renders, renderFailures, snapshotFailures, checkouts)
	return &CartMetrics{
		mutations:        mutations,
		renders:          renders,
		renderFailures:   renderFailures,
		snapshotFailures: snapshotFailures,
		checkouts:        checkouts,
	}
}

// IncMutation increments the mutation counter for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncRender increments the full-rebuild counter.
func (c *CartMetrics) IncRender() {
	if c == nil || c.renders == nil {
		return
	}
	c.renders.Inc()
}

// IncRenderFailure increments the per-surface failure counter.
func (c *CartMetrics) IncRenderFailure() {
	if c == nil || c.renderFailures == nil {
		return
	}
	c.renderFailures.Inc()
}

// IncSnapshotFailure increments the swallowed snapshot write failures.
func (c *CartMetrics) IncSnapshotFailure() {
	if c == nil || c.snapshotFailures == nil {
		return
	}
	c.snapshotFailures.Inc()
}

// IncCheckout increments the checkout counter for the given outcome.
func (c *CartMetrics) IncCheckout(outcome string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
