package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSWildcard(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t, happyMock(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interview/health", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
}

func TestCORSAllowList(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t, happyMock(), func(c *Config) {
		c.CORS.AllowedOrigins = []string{"https://mockmate.dev"}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interview/health", nil)
	req.Header.Set("Origin", "https://mockmate.dev")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://mockmate.dev" {
		t.Errorf("allow-origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/interview/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin = %q, want unset for unlisted origin", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t, happyMock(), func(c *Config) {
		c.Auth.Token = "secret"
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/interview/speak", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("allow-methods header missing")
	}
}
