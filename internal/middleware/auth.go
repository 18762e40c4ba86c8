// Package middleware provides HTTP middleware for authentication, request
// logging and metrics collection.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/okhalid/habitsync/internal/auth"
)

type authCtxKey int

const claimsKey authCtxKey = 0

// WithAuth attaches auth claims to the request context when a valid bearer
// token is present. Requests without a token pass through unauthenticated.
func WithAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if strings.HasPrefix(h, "Bearer ") {
				tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
				if claims, err := jwtManager.Validate(tok); err == nil {
					ctx := context.WithValue(r.Context(), claimsKey, claims)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests that did not carry a valid token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(claimsKey).(*auth.Claims); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UID returns the authenticated user's UID from the request context.
func UID(ctx context.Context) (string, bool) {
	if c, ok := ctx.Value(claimsKey).(*auth.Claims); ok && c.UID != "" {
		return c.UID, true
	}
	return "", false
}
