package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nikhilverma/shopline/pkg/auth"
	"github.com/nikhilverma/shopline/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// Auth requires a valid Bearer token and stores the user's id and role in
// the request context for handlers and the RBAC layer.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		ctx = context.WithValue(ctx, roleKey{}, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth decodes a Bearer token when present but lets anonymous
// requests through (the storefront cart works for guests too).
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if claims, err := auth.ValidateToken(token); err == nil {
				ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
				ctx = context.WithValue(ctx, roleKey{}, claims.Role)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// UserIDFromCtx returns the authenticated user's id, if any.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey{}).(uint)
	return id, ok
}

// RoleFromCtx returns the authenticated user's role, if any.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok
}
