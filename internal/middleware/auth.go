package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"loom/internal/domain/models"
	"loom/internal/httputil"
)

// TokenVerifier validates a bearer token and returns the caller's identity.
type TokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

// Auth extracts the bearer token and attaches the caller's identity to the
// request context. A missing or invalid token degrades the request to
// anonymous rather than rejecting it; handlers that need identity respond
// 401 themselves.
func Auth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				ident, err := verifier.Verify(token)
				if err != nil {
					logger.Debug("token verification failed", "path", r.URL.Path, "error", err)
				} else {
					r = httputil.WithIdentity(r, ident)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
