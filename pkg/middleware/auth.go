package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/inbox/pkg/auth"
	"github.com/shashiranjanraj/inbox/pkg/response"
)

// Auth validates the Bearer token and injects the authenticated identity into
// the request context. Handlers read it back with auth.IdentityFromCtx; there
// is no shared "current user" anywhere.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := auth.WithIdentity(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
