package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/xpense/xpense-server/internal/models"
	"github.com/xpense/xpense-server/internal/services"
)

type contextKey string

const userContextKey = contextKey("user")

// Middleware protects routes with persisted bearer tokens. The token
// value is taken from the Authorization header, or from the "token"
// query parameter for websocket clients that cannot set headers. The
// resolved user is placed on the request context.
func Middleware(tokens services.TokenServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := ""
			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				value = after
			}
			if value == "" {
				// Query decoding turns an unescaped + into a space.
				// Token values are base64 and never contain spaces, so
				// restore them for clients that append the raw value.
				value = strings.ReplaceAll(r.URL.Query().Get("token"), " ", "+")
			}
			if value == "" {
				http.Error(w, "Missing bearer token", http.StatusUnauthorized)
				return
			}

			user, err := tokens.Authenticate(value)
			if err != nil {
				http.Error(w, "Invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed on the context
// by Middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}
