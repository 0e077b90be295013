package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsHandler(config CORSConfig) http.Handler {
	return CORS(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS_AllowedOrigin(t *testing.T) {
	handler := corsHandler(DefaultCORSConfig())

	req := httptest.NewRequest("GET", "http://example.com/api/v1/events/types", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected allowed origin header, got %q", got)
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	handler := corsHandler(DefaultCORSConfig())

	req := httptest.NewRequest("GET", "http://example.com/api/v1/events/types", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("request itself should still succeed, got %d", w.Code)
	}
}

func TestCORS_WildcardSubdomain(t *testing.T) {
	handler := corsHandler(CORSConfig{
		AllowedOrigins: []string{"*.pulsegraph.example.com"},
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Authorization"},
	})

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	req.Header.Set("Origin", "https://app.pulsegraph.example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.pulsegraph.example.com" {
		t.Errorf("expected wildcard match, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := corsHandler(DefaultCORSConfig())

	req := httptest.NewRequest(http.MethodOptions, "http://example.com/api/v1/events/ingest", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected Allow-Methods header on preflight")
	}
	if w.Header().Get("Access-Control-Max-Age") != "300" {
		t.Errorf("expected Max-Age 300, got %q", w.Header().Get("Access-Control-Max-Age"))
	}
}
