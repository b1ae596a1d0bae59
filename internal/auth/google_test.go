package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newGoogleRouter(svc *GoogleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestStartRequiresConfiguration(t *testing.T) {
	r := newGoogleRouter(NewGoogleService("", "", "", "http://localhost:5173/auth", nil))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestStartRedirectsWithState(t *testing.T) {
	svc := NewGoogleService("client", "secret", "http://localhost:8080/api/v1/auth/google/callback", "http://localhost:5173/auth", nil)
	r := newGoogleRouter(svc)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	loc, err := url.Parse(resp.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" || loc.Query().Get("client_id") != "client" {
		t.Fatalf("unexpected redirect %s", loc)
	}
	if !svc.stateStore.consume(state) {
		t.Fatalf("expected state to be stored")
	}
}

func TestCallbackRejectsMissingOrUnknownState(t *testing.T) {
	r := newGoogleRouter(NewGoogleService("client", "secret", "http://cb", "http://ui", nil))
	for _, path := range []string{
		"/api/v1/auth/google/callback",
		"/api/v1/auth/google/callback?state=nope&code=abc",
	} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, resp.Code)
		}
	}
}

func TestStateStoreExpiry(t *testing.T) {
	s := newStateStore()
	s.put("old", time.Now().Add(-time.Second))
	s.put("fresh", time.Now().Add(time.Minute))
	if s.consume("old") {
		t.Fatalf("expected expired state rejected")
	}
	if !s.consume("fresh") {
		t.Fatalf("expected fresh state accepted")
	}
	if s.consume("fresh") {
		t.Fatalf("expected state to be single use")
	}
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("http://localhost:5173/auth?next=%2Fdash", "abc")
	if err != nil {
		t.Fatalf("appendToken: %v", err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("token") != "abc" || u.Query().Get("next") != "/dash" {
		t.Fatalf("unexpected url %s", got)
	}
	if _, err := appendToken("", "abc"); err == nil {
		t.Fatalf("expected error for empty redirect")
	}
}
