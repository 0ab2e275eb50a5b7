package gateway

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authHeader is checked before the standard Authorization header so the
// browser client can send the token without clobbering other auth schemes.
const authHeader = "X-APP-TOKEN"

// authMiddleware validates the shared app token using constant-time
// comparison. It accepts the token via the X-APP-TOKEN header or as an
// Authorization Bearer credential. When no token is configured the
// middleware passes everything through. Preflight requests and the health
// endpoint always pass.
func authMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.IsConfigured() || r.Method == http.MethodOptions || isHealthPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if constantTimeEqual(r.Header.Get(authHeader), cfg.Token) {
				next.ServeHTTP(w, r)
				return
			}

			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				if constantTimeEqual(after, cfg.Token) {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusUnauthorized, "unauthorized")
		})
	}
}

func isHealthPath(path string) bool {
	return strings.TrimSuffix(path, "/") == "/api/v1/interview/health"
}

// constantTimeEqual compares two strings in constant time.
func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
