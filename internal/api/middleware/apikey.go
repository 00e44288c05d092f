package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/kingstons-portal/irr-engine-backend/internal/api/response"
)

// APIKey guards mutating routes with the internal API key presented in the
// X-API-Key header. The expected key is resolved per request so a key rotated
// in the system_setting store takes effect without a restart.
//
// Requests are rejected with 503 when no key is configured at all: the
// trigger surface must never be silently open.
func APIKey(resolve func() (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			expected, err := resolve()
			if err != nil {
				log.Printf("api key resolution failed: %v", err)
				response.RespondError(w, http.StatusServiceUnavailable, "internal API key unavailable", "")
				return
			}
			if expected == "" {
				response.RespondError(w, http.StatusServiceUnavailable, "internal API key not configured", "")
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				response.RespondError(w, http.StatusUnauthorized, "API key required", "")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "invalid API key", "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
