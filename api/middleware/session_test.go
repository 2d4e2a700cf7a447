package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cesarmodas/storefront-cart/pkg/config"
)

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{CookieName: "cm_session", TTL: 720 * time.Hour}
}

func TestSessionAssignsCookieToNewVisitor(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Session(sessionConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatalf("handler must see a session id")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("session id must be a uuid, got %q", seen)
	}

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "cm_session" || cookies[0].Value != seen {
		t.Fatalf("cookie must carry the session id, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
}

func TestSessionReusesValidCookie(t *testing.T) {
	t.Parallel()

	existing := uuid.NewString()

	var seen string
	handler := Session(sessionConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cm_session", Value: existing})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != existing {
		t.Fatalf("valid cookie must be reused, got %q want %q", seen, existing)
	}
}

func TestSessionReplacesMalformedCookie(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Session(sessionConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cm_session", Value: "not-a-uuid"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "not-a-uuid" || seen == "" {
		t.Fatalf("malformed cookie must be replaced, got %q", seen)
	}
}
