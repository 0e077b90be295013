package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID_GeneratesNewID(t *testing.T) {
	var capturedRequestID string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedRequestID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "http://example.com/test", nil)
	w := httptest.NewRecorder()

	RequestID(handler).ServeHTTP(w, req)

	if capturedRequestID == "" {
		t.Fatal("expected request ID in context")
	}
	if _, err := uuid.Parse(capturedRequestID); err != nil {
		t.Errorf("expected valid UUID, got %q: %v", capturedRequestID, err)
	}
	if w.Header().Get("X-Request-ID") != capturedRequestID {
		t.Errorf("response header %q doesn't match context %q",
			w.Header().Get("X-Request-ID"), capturedRequestID)
	}
}

func TestRequestID_PropagatesExistingID(t *testing.T) {
	var capturedRequestID string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedRequestID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "http://example.com/test", nil)
	req.Header.Set("X-Request-ID", "existing-req-123")
	w := httptest.NewRecorder()

	RequestID(handler).ServeHTTP(w, req)

	if capturedRequestID != "existing-req-123" {
		t.Errorf("expected request ID 'existing-req-123', got %q", capturedRequestID)
	}
	if w.Header().Get("X-Request-ID") != "existing-req-123" {
		t.Errorf("expected response header 'existing-req-123', got %q", w.Header().Get("X-Request-ID"))
	}
}

func TestRequestID_UniqueIDs(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := RequestID(handler)

	requestIDs := make(map[string]bool)
	for i := 0; i < 100; i++ {
		w := httptest.NewRecorder()
		middleware.ServeHTTP(w, httptest.NewRequest("GET", "http://example.com/test", nil))

		requestID := w.Header().Get("X-Request-ID")
		if requestIDs[requestID] {
			t.Errorf("duplicate request ID generated: %s", requestID)
		}
		requestIDs[requestID] = true
	}
}

func TestGetRequestID_EmptyContext(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.com/test", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
