package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/docfold-labs/docfold/pkg/apierr"
)

func writeAuthError(w http.ResponseWriter, e *apierr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status())
	json.NewEncoder(w).Encode(e.Response())
}

// RequireAuth validates the Bearer token and injects the Principal into the
// context.
func RequireAuth(tokens *Tokens, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeAuthError(w, apierr.Unauthorized())
				return
			}

			principal, err := tokens.Verify(raw)
			if err != nil {
				logger.Warn("auth failed", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
				writeAuthError(w, apierr.Unauthorized())
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole checks that the Principal has one of the given roles. Admins
// always pass.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				writeAuthError(w, apierr.Unauthorized())
				return
			}

			if p.IsAdmin() || p.HasRole(roles...) {
				next.ServeHTTP(w, r)
				return
			}

			writeAuthError(w, apierr.Forbidden())
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return ""
}
