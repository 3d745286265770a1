package http

import (
	"crypto/subtle"
	"net/http"
)

// apiKeyMiddleware validates the X-API-Key header against the
// configured shared secret. An unset secret means the API surface is
// not provisioned: reject with 503 rather than silently serving
// unauthenticated requests.
func apiKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				http.Error(w, "API key not configured", http.StatusServiceUnavailable)
				return
			}

			got := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
