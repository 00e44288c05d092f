package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKey(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	fixedKey := func() (string, error) { return "secret-key", nil }

	t.Run("allows requests with the correct key", func(t *testing.T) {
		handler := APIKey(fixedKey)(next)

		req := httptest.NewRequest(http.MethodPost, "/api/valuations", nil)
		req.Header.Set("X-API-Key", "secret-key")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects requests without a key", func(t *testing.T) {
		handler := APIKey(fixedKey)(next)

		req := httptest.NewRequest(http.MethodPost, "/api/valuations", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects requests with a wrong key", func(t *testing.T) {
		handler := APIKey(fixedKey)(next)

		req := httptest.NewRequest(http.MethodPost, "/api/valuations", nil)
		req.Header.Set("X-API-Key", "wrong-key")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 503 when no key is configured", func(t *testing.T) {
		handler := APIKey(func() (string, error) { return "", nil })(next)

		req := httptest.NewRequest(http.MethodPost, "/api/valuations", nil)
		req.Header.Set("X-API-Key", "anything")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 503 when key resolution fails", func(t *testing.T) {
		handler := APIKey(func() (string, error) { return "", errors.New("store unavailable") })(next)

		req := httptest.NewRequest(http.MethodPost, "/api/valuations", nil)
		req.Header.Set("X-API-Key", "anything")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})
}
