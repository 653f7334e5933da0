package middleware

import (
	"context"
	"net/http"
	"strings"

	"tourbook/pkg/logger"
	"tourbook/pkg/token"
)

const ClaimsKey contextKey = "auth_claims"

// Authenticate verifies the bearer access token and stores its claims on the
// request context. Routes listed in skipPrefixes stay public.
func Authenticate(secret string, log *logger.Logger, skipPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			claims, err := token.Parse(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Warn("Rejected request with invalid token", "path", r.URL.Path, "error", err)
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the authenticated claims, if any.
func ClaimsFrom(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*token.Claims)
	return claims, ok
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
