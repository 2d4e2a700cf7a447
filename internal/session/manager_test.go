package session

import (
	"context"
	"testing"
	"time"

	"github.com/cesarmodas/storefront-cart/internal/checkout"
	"github.com/cesarmodas/storefront-cart/internal/snapshot"
	"github.com/cesarmodas/storefront-cart/internal/view"
	"github.com/cesarmodas/storefront-cart/pkg/config"
	"github.com/shopspring/decimal"
)

func testConfig() *config.Config {
	return &config.Config{
		Snapshot: config.SnapshotConfig{
			Driver:    config.SnapshotDriverMemory,
			KeyPrefix: "cm_carrito",
		},
		Checkout: config.CheckoutConfig{
			StoreName:      "CESAR MODAS",
			WhatsAppNumber: "51969216414",
			ConfirmDelay:   500 * time.Millisecond,
			ConfirmTimeout: 15 * time.Second,
		},
		UI: config.UIConfig{
			CurrencyPrefix: "S/",
			ToastDuration:  2600 * time.Millisecond,
		},
	}
}

func TestEngineIsPerSessionAndReused(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager(ManagerParams{
		Snapshots: snapshot.NewMemory(),
		Config:    testConfig(),
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	ctx := context.Background()

	a1, err := mgr.Engine(ctx, "session-a")
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	a2, err := mgr.Engine(ctx, "session-a")
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if a1 != a2 {
		t.Fatalf("same session must reuse the engine")
	}

	b, err := mgr.Engine(ctx, "session-b")
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if a1 == b {
		t.Fatalf("sessions must not share an engine")
	}

	a1.Cart.Add(ctx, "Blusa", decimal.NewFromInt(50))
	if b.Cart.ItemCount() != 0 {
		t.Fatalf("carts must be isolated per session")
	}
	if mgr.Len() != 2 {
		t.Fatalf("expected 2 live engines, got %d", mgr.Len())
	}
}

func TestEngineRestoresFromSnapshotOnFirstTouch(t *testing.T) {
	t.Parallel()

	snapshots := snapshot.NewMemory()
	ctx := context.Background()

	first, err := NewManager(ManagerParams{Snapshots: snapshots, Config: testConfig()})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	eng, err := first.Engine(ctx, "session-a")
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	eng.Cart.Add(ctx, "Falda", decimal.NewFromInt(80))

	// A fresh registry simulates a process restart over the same storage.
	second, err := NewManager(ManagerParams{Snapshots: snapshots, Config: testConfig()})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	restored, err := second.Engine(ctx, "session-a")
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}

	if restored.Cart.ItemCount() != 1 {
		t.Fatalf("cart must seed from the snapshot, got %d items", restored.Cart.ItemCount())
	}
	items := restored.Cart.Items()
	if items[0].Name != "Falda" || !items[0].UnitPrice.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("unexpected restored line %+v", items[0])
	}

	// The restore render already populated the surfaces.
	list, _ := restored.Page.Lookup(view.SurfaceDrawerItems)
	if list.Contents() == "" {
		t.Fatalf("restore must render the initial view")
	}
}

func TestDismissAllClosesEveryDialog(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager(ManagerParams{Snapshots: snapshot.NewMemory(), Config: testConfig()})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	ctx := context.Background()

	eng, err := mgr.Engine(ctx, "session-a")
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	eng.Cart.Add(ctx, "Blusa", decimal.NewFromInt(50))
	eng.Shell.OpenDrawer()
	if err := eng.Flow.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}

	eng.DismissAll()

	state := eng.Shell.Snapshot()
	if state.DrawerOpen || state.ModalOpen || state.ConfirmationOpen {
		t.Fatalf("dismiss-all left a dialog open: %+v", state)
	}
	if eng.Flow.State() != checkout.StateIdle {
		t.Fatalf("flow must return to idle, got %s", eng.Flow.State())
	}
}

func TestSweepDropsIdleEngines(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager(ManagerParams{Snapshots: snapshot.NewMemory(), Config: testConfig()})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	ctx := context.Background()

	if _, err := mgr.Engine(ctx, "session-a"); err != nil {
		t.Fatalf("Engine: %v", err)
	}

	if dropped := mgr.Sweep(time.Hour); dropped != 0 {
		t.Fatalf("fresh engine must survive the sweep, dropped %d", dropped)
	}
	if dropped := mgr.Sweep(-time.Second); dropped != 1 {
		t.Fatalf("idle engine must be swept, dropped %d", dropped)
	}
	if mgr.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", mgr.Len())
	}
}
