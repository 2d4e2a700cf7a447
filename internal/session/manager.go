package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cesarmodas/storefront-cart/internal/cart"
	"github.com/cesarmodas/storefront-cart/internal/checkout"
	"github.com/cesarmodas/storefront-cart/internal/notify"
	"github.com/cesarmodas/storefront-cart/internal/view"
	"github.com/cesarmodas/storefront-cart/pkg/clock"
	"github.com/cesarmodas/storefront-cart/pkg/config"
	"github.com/cesarmodas/storefront-cart/pkg/logger"
	"github.com/cesarmodas/storefront-cart/pkg/metrics"
	"github.com/go-playground/validator/v10"
)

// Engine bundles everything one session owns: its page, its cart, its
// checkout flow and the chrome around them. One browser session, one engine.
type Engine struct {
	SessionID string
	Page      *view.Page
	Renderer  *view.Renderer
	Shell     *notify.Shell
	Cart      *cart.Store
	Flow      *checkout.Flow

	lastSeen time.Time
}

// DismissAll is the Escape key: every dialog closes, whatever was pending is
// cancelled.
func (e *Engine) DismissAll() {
	e.Shell.DismissAll()
}

// ManagerParams wires a session manager.
type ManagerParams struct {
	Snapshots cart.SnapshotStore
	Config    *config.Config
	Logger    *logger.Logger
	Metrics   *metrics.CartMetrics
	Clock     clock.Clock
	Validate  *validator.Validate
	Launcher  checkout.Launcher
}

// Manager holds the live engines keyed by session id and builds them lazily.
// The snapshot store seeds a cart the first time its session shows up.
type Manager struct {
	mu      sync.Mutex
	engines map[string]*Engine
	params  ManagerParams
	clk     clock.Clock
}

// NewManager builds an empty session registry.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if params.Config == nil {
		return nil, fmt.Errorf("config required")
	}
	clk := params.Clock
	if clk == nil {
		clk = clock.System()
	}
	if params.Validate == nil {
		params.Validate = validator.New()
	}
	return &Manager{
		engines: map[string]*Engine{},
		params:  params,
		clk:     clk,
	}, nil
}

// Engine returns the engine for the session, building and restoring it on
// first touch.
func (m *Manager) Engine(ctx context.Context, sessionID string) (*Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eng, ok := m.engines[sessionID]; ok {
		eng.lastSeen = m.clk.Now()
		return eng, nil
	}

	eng, err := m.build(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m.engines[sessionID] = eng
	return eng, nil
}

func (m *Manager) build(ctx context.Context, sessionID string) (*Engine, error) {
	cfg := m.params.Config

	page := view.DefaultPage()
	renderer, err := view.NewRenderer(page, cfg.UI.CurrencyPrefix, m.params.Logger, m.params.Metrics)
	if err != nil {
		return nil, err
	}

	shell := notify.NewShell(renderer, m.clk, cfg.UI.ToastDuration)

	store, err := cart.NewStore(cart.StoreParams{
		Key:       cfg.Snapshot.KeyPrefix + ":" + sessionID,
		Snapshots: m.params.Snapshots,
		Renderer:  renderer,
		Logger:    m.params.Logger,
		Metrics:   m.params.Metrics,
	})
	if err != nil {
		return nil, err
	}
	store.Restore(ctx)

	flow := checkout.NewFlow(checkout.FlowParams{
		Cart:           store,
		Renderer:       renderer,
		Shell:          shell,
		Launcher:       m.params.Launcher,
		Clock:          m.clk,
		Validate:       m.params.Validate,
		Logger:         m.params.Logger,
		Metrics:        m.params.Metrics,
		StoreName:      cfg.Checkout.StoreName,
		WhatsAppNumber: cfg.Checkout.WhatsAppNumber,
		CurrencyPrefix: cfg.UI.CurrencyPrefix,
		ConfirmDelay:   cfg.Checkout.ConfirmDelay,
		ConfirmTimeout: cfg.Checkout.ConfirmTimeout,
	})

	// Escape closes the form and the confirmation along with the dialogs.
	shell.OnDismissAll(flow.Cancel)
	shell.OnDismissAll(flow.Dismiss)

	return &Engine{
		SessionID: sessionID,
		Page:      page,
		Renderer:  renderer,
		Shell:     shell,
		Cart:      store,
		Flow:      flow,
		lastSeen:  m.clk.Now(),
	}, nil
}

// Len reports the number of live engines.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.engines)
}

// Sweep drops engines idle for longer than ttl and reports how many were
// dropped. Snapshots stay put, so a swept session rebuilds from storage on
// its next request.
func (m *Manager) Sweep(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.clk.Now().Add(-ttl)
	dropped := 0
	for id, eng := range m.engines {
		if eng.lastSeen.Before(cutoff) {
			delete(m.engines, id)
			dropped++
		}
	}
	return dropped
}
