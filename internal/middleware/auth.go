package middleware

import (
	"net/http"
	"strings"

	"github.com/aora/backend/internal/auth"
	"github.com/aora/backend/internal/logging"
)

// TokenVerifier validates an access token and returns the owning account id.
type TokenVerifier interface {
	Verify(accessToken string) (string, error)
}

// RequireAuth rejects requests lacking a valid bearer token and stores the
// authenticated account identifier on the request context.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="aora"`)
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			accountID, err := verifier.Verify(token)
			if err != nil {
				logging.FromContext(r.Context()).Warn("rejected bearer token", "error", err)
				w.Header().Set("WWW-Authenticate", `Bearer realm="aora"`)
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := auth.WithAccountID(r.Context(), accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
