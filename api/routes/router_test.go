package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cesarmodas/storefront-cart/internal/session"
	"github.com/cesarmodas/storefront-cart/internal/snapshot"
	"github.com/cesarmodas/storefront-cart/pkg/config"
	"github.com/cesarmodas/storefront-cart/pkg/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		Session: config.SessionConfig{
			CookieName: "cm_session",
			TTL:        720 * time.Hour,
		},
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

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()

	registry := prometheus.NewRegistry()
	mgr, err := session.NewManager(session.ManagerParams{
		Snapshots: snapshot.NewMemory(),
		Config:    cfg,
		Metrics:   metrics.NewCartMetrics(registry),
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return NewRouter(cfg, nil, mgr, registry)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartSurvivesAcrossRequestsViaCookie(t *testing.T) {
	router := newTestRouter(t)

	// First request gets a fresh session cookie.
	add := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"name":"Blusa","unit_price":50}`))
	add.Header.Set("Content-Type", "application/json")
	addResp := httptest.NewRecorder()
	router.ServeHTTP(addResp, add)
	if addResp.Code != http.StatusOK {
		t.Fatalf("add: expected 200 got %d: %s", addResp.Code, addResp.Body.String())
	}

	cookies := addResp.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected a session cookie, got %v", cookies)
	}

	// The same cookie sees the same cart.
	fetch := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	fetch.AddCookie(cookies[0])
	fetchResp := httptest.NewRecorder()
	router.ServeHTTP(fetchResp, fetch)
	if fetchResp.Code != http.StatusOK {
		t.Fatalf("fetch: expected 200 got %d", fetchResp.Code)
	}

	var envelope struct {
		Data struct {
			ItemCount int `json:"item_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(fetchResp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ItemCount != 1 {
		t.Fatalf("cookie session must keep its cart, got %d items", envelope.Data.ItemCount)
	}

	// A cookie-less request starts over.
	fresh := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	freshResp := httptest.NewRecorder()
	router.ServeHTTP(freshResp, fresh)

	var freshEnvelope struct {
		Data struct {
			ItemCount int `json:"item_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(freshResp.Body).Decode(&freshEnvelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if freshEnvelope.Data.ItemCount != 0 {
		t.Fatalf("new session must start empty, got %d items", freshEnvelope.Data.ItemCount)
	}
}

func TestDismissAllRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dismiss-all", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
