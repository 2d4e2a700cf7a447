package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cesarmodas/storefront-cart/api/middleware"
	"github.com/cesarmodas/storefront-cart/internal/session"
	"github.com/cesarmodas/storefront-cart/internal/snapshot"
	"github.com/cesarmodas/storefront-cart/internal/view"
	"github.com/cesarmodas/storefront-cart/pkg/config"
	"github.com/cesarmodas/storefront-cart/pkg/types"
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

func newCartRouter(mgr *session.Manager) http.Handler {
	r := chi.NewRouter()
	r.Get("/cart", Fetch(mgr, "S/", nil))
	r.Delete("/cart", Clear(mgr, "S/", nil))
	r.Post("/cart/items", AddItem(mgr, "S/", nil))
	r.Post("/cart/items/{index}/quantity", ChangeQuantity(mgr, "S/", nil))
	r.Delete("/cart/items/{index}", RemoveItem(mgr, "S/", nil))
	return r
}

func doJSON(t *testing.T, handler http.Handler, method, target, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func decodeState(t *testing.T, resp *httptest.ResponseRecorder) StateDTO {
	t.Helper()
	var envelope struct {
		Data StateDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestAddItemRendersAndNotifies(t *testing.T) {
	router := newCartRouter(newTestManager(t))

	resp := doJSON(t, router, http.MethodPost, "/cart/items", "s1", `{"name":"Blusa","unit_price":50}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	state := decodeState(t, resp)
	if len(state.Items) != 1 || state.Items[0].Name != "Blusa" || state.Items[0].Quantity != 1 {
		t.Fatalf("unexpected items %+v", state.Items)
	}
	if state.Total != "S/ 50.00" || state.ItemCount != 1 {
		t.Fatalf("unexpected totals %s / %d", state.Total, state.ItemCount)
	}
	if !strings.Contains(state.Surfaces[view.SurfaceDrawerItems], "Blusa") {
		t.Fatalf("drawer surface must carry the new item")
	}
	if len(state.Shell.Notices) != 1 || state.Shell.Notices[0] != "✓ Blusa agregado a tu bolsa" {
		t.Fatalf("expected add toast, got %v", state.Shell.Notices)
	}
	if !state.Shell.DrawerOpen {
		t.Fatalf("adding an item must open the drawer")
	}
}

func TestAddItemValidation(t *testing.T) {
	router := newCartRouter(newTestManager(t))

	resp := doJSON(t, router, http.MethodPost, "/cart/items", "s1", `{"unit_price":50}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing name must 400, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPost, "/cart/items", "s1", `{"name":"Blusa","unit_price":-1}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("negative price must 400, got %d", resp.Code)
	}
}

func TestRepeatAddKeepsFirstPrice(t *testing.T) {
	router := newCartRouter(newTestManager(t))

	doJSON(t, router, http.MethodPost, "/cart/items", "s1", `{"name":"Blusa","unit_price":50}`)
	resp := doJSON(t, router, http.MethodPost, "/cart/items", "s1", `{"name":"Blusa","unit_price":99}`)

	state := decodeState(t, resp)
	if len(state.Items) != 1 || state.Items[0].Quantity != 2 {
		t.Fatalf("repeat add must merge lines, got %+v", state.Items)
	}
	if state.Items[0].UnitPrice != "S/ 50.00" || state.Total != "S/ 100.00" {
		t.Fatalf("first-seen price must win, got %+v", state.Items[0])
	}
}

func TestChangeQuantityToZeroRemovesLine(t *testing.T) {
	router := newCartRouter(newTestManager(t))

	doJSON(t, router, http.MethodPost, "/cart/items", "s1", `{"name":"Blusa","unit_price":50}`)
	resp := doJSON(t, router, http.MethodPost, "/cart/items/0/quantity", "s1", `{"delta":-1}`)

	state := decodeState(t, resp)
	if len(state.Items) != 0 {
		t.Fatalf("quantity zero must remove the line, got %+v", state.Items)
	}
	if !strings.Contains(state.Surfaces[view.SurfaceDrawerItems], "Tu bolsa está vacía") {
		t.Fatalf("drawer must show the empty state again")
	}
}

func TestOutOfRangeIndexIsNoOp(t *testing.T) {
	router := newCartRouter(newTestManager(t))

	doJSON(t, router, http.MethodPost, "/cart/items", "s1", `{"name":"Blusa","unit_price":50}`)

	resp := doJSON(t, router, http.MethodDelete, "/cart/items/7", "s1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("out-of-range remove must still 200, got %d", resp.Code)
	}
	if state := decodeState(t, resp); len(state.Items) != 1 {
		t.Fatalf("out-of-range remove must not mutate, got %+v", state.Items)
	}

	resp = doJSON(t, router, http.MethodDelete, "/cart/items/notanumber", "s1", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric index must 400, got %d", resp.Code)
	}
}

func TestClearEmptyCartNotice(t *testing.T) {
	router := newCartRouter(newTestManager(t))

	resp := doJSON(t, router, http.MethodDelete, "/cart", "s1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	state := decodeState(t, resp)
	if len(state.Shell.Notices) != 1 || state.Shell.Notices[0] != "La bolsa ya está vacía" {
		t.Fatalf("expected already-empty notice, got %v", state.Shell.Notices)
	}

	doJSON(t, router, http.MethodPost, "/cart/items", "s1", `{"name":"Blusa","unit_price":50}`)
	resp = doJSON(t, router, http.MethodDelete, "/cart", "s1", "")
	state = decodeState(t, resp)
	if len(state.Items) != 0 {
		t.Fatalf("clear must empty the cart, got %+v", state.Items)
	}
	found := false
	for _, n := range state.Shell.Notices {
		if n == "Bolsa vaciada" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected cleared notice, got %v", state.Shell.Notices)
	}
}

func TestSessionsDoNotShareCarts(t *testing.T) {
	router := newCartRouter(newTestManager(t))

	doJSON(t, router, http.MethodPost, "/cart/items", "s1", `{"name":"Blusa","unit_price":50}`)

	resp := doJSON(t, router, http.MethodGet, "/cart", "s2", "")
	if state := decodeState(t, resp); len(state.Items) != 0 {
		t.Fatalf("second session must start empty, got %+v", state.Items)
	}
}

func TestMissingSessionFails(t *testing.T) {
	router := newCartRouter(newTestManager(t))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without session context, got %d", resp.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}
