package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cesarmodas/storefront-cart/api/middleware"
	checkoutflow "github.com/cesarmodas/storefront-cart/internal/checkout"
	"github.com/cesarmodas/storefront-cart/internal/session"
	"github.com/cesarmodas/storefront-cart/internal/snapshot"
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

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	mgr, err := session.NewManager(session.ManagerParams{
		Snapshots: snapshot.NewMemory(),
		Config:    testConfig(),
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func seedCart(t *testing.T, mgr *session.Manager, sessionID string) {
	t.Helper()
	eng, err := mgr.Engine(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	eng.Cart.Add(context.Background(), "Blusa", decimal.NewFromInt(50))
}

func doJSON(t *testing.T, handler http.HandlerFunc, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/checkout", nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func validFormJSON() string {
	form := checkoutflow.OrderForm{
		Name:          "María",
		Surname:       "López",
		Email:         "maria@example.com",
		Phone:         "999111222",
		Region:        "Lima",
		District:      "Miraflores",
		Street:        "Av. Grau",
		StreetNumber:  "123",
		PaymentMethod: "Yape",
	}
	payload, _ := json.Marshal(form)
	return string(payload)
}

func TestOpenEmptyCartRejected(t *testing.T) {
	mgr := newTestManager(t)

	resp := doJSON(t, Open(mgr, nil), "s1", "")
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", resp.Code, resp.Body.String())
	}

	eng, _ := mgr.Engine(context.Background(), "s1")
	notices := eng.Shell.Notices()
	if len(notices) != 1 || notices[0] != "Agrega productos a tu bolsa primero" {
		t.Fatalf("expected empty-cart notice, got %v", notices)
	}
}

func TestOpenRendersSummary(t *testing.T) {
	mgr := newTestManager(t)
	seedCart(t, mgr, "s1")
	eng, _ := mgr.Engine(context.Background(), "s1")
	eng.Shell.OpenDrawer()

	resp := doJSON(t, Open(mgr, nil), "s1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data StateDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.State != checkoutflow.StateFormOpen {
		t.Fatalf("expected form_open, got %s", envelope.Data.State)
	}
	if !envelope.Data.Shell.ModalOpen {
		t.Fatalf("modal must open")
	}
	if envelope.Data.Shell.DrawerOpen {
		t.Fatalf("the drawer must close when the purchase modal opens")
	}
	if !strings.Contains(envelope.Data.Surfaces["modalResumen"], "Blusa") {
		t.Fatalf("summary surface must list the cart")
	}
}

func TestSubmitInvalidFormKeepsItOpen(t *testing.T) {
	mgr := newTestManager(t)
	seedCart(t, mgr, "s1")
	doJSON(t, Open(mgr, nil), "s1", "")

	resp := doJSON(t, Submit(mgr, nil), "s1", `{"name":"María"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}

	eng, _ := mgr.Engine(context.Background(), "s1")
	if eng.Flow.State() != checkoutflow.StateFormOpen {
		t.Fatalf("form must stay open, got %s", eng.Flow.State())
	}
	if eng.Flow.Form().Name != "María" {
		t.Fatalf("typed fields must be kept, got %+v", eng.Flow.Form())
	}
	if eng.Cart.ItemCount() != 1 {
		t.Fatalf("cart must be untouched")
	}
}

func TestSubmitValidReturnsHandoffLink(t *testing.T) {
	mgr := newTestManager(t)
	seedCart(t, mgr, "s1")
	doJSON(t, Open(mgr, nil), "s1", "")

	resp := doJSON(t, Submit(mgr, nil), "s1", validFormJSON())
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data SubmittedDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID == "" {
		t.Fatalf("expected an order id")
	}
	if !strings.Contains(envelope.Data.WhatsAppURL, "wa.me/51969216414") {
		t.Fatalf("unexpected handoff link %q", envelope.Data.WhatsAppURL)
	}
	if envelope.Data.State != checkoutflow.StateSubmitting {
		t.Fatalf("expected submitting, got %s", envelope.Data.State)
	}
}

func TestCancelAndDismiss(t *testing.T) {
	mgr := newTestManager(t)
	seedCart(t, mgr, "s1")
	doJSON(t, Open(mgr, nil), "s1", "")

	resp := doJSON(t, Cancel(mgr, nil), "s1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200 got %d", resp.Code)
	}

	eng, _ := mgr.Engine(context.Background(), "s1")
	if eng.Flow.State() != checkoutflow.StateIdle {
		t.Fatalf("expected idle after cancel, got %s", eng.Flow.State())
	}
	if eng.Cart.ItemCount() != 1 {
		t.Fatalf("cancel must not clear the cart")
	}

	resp = doJSON(t, Dismiss(mgr, nil), "s1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("dismiss: expected 200 got %d", resp.Code)
	}
}
