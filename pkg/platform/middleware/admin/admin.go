// Package admin guards the operator endpoints (reindex, repair queue) with a
// shared token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	request "hrcatalog/pkg/platform/middleware/request"
	"hrcatalog/pkg/requestcontext"
	"hrcatalog/pkg/secrets"
)

const (
	TokenHeader = "X-Admin-Token"
	ActorHeader = "X-Admin-Actor-ID"
)

// RequireAdminToken rejects requests whose X-Admin-Token does not match
// expectedToken. An empty expectedToken disables the admin surface entirely.
// The X-Admin-Actor-ID header, when safe, becomes the request actor so
// reindex writes are attributed to the operator.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return guard(func(token string) bool {
		return expectedToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) == 1
	}, logger)
}

// RequireAdminTokenHash is RequireAdminToken against a bcrypt hash, so the
// plain token never sits in the environment.
func RequireAdminTokenHash(hash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return guard(func(token string) bool {
		return hash != "" && token != "" && secrets.Verify(token, hash) == nil
	}, logger)
}

func guard(accept func(token string) bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !accept(r.Header.Get(TokenHeader)) {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}

			if actor := strings.TrimSpace(r.Header.Get(ActorHeader)); request.IsValidToken(actor) {
				ctx = requestcontext.WithActor(ctx, "admin:"+actor)
			} else {
				ctx = requestcontext.WithActor(ctx, "admin")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
