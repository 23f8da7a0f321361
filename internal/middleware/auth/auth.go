package auth

import (
	"context"
	"net/http"
	"strings"

	"matchplanner/internal/identity"
)

type contextKey struct{}

var identityKey = contextKey{}

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*identity.Identity, error)
}

// Bearer authenticates every request with the external identity provider
// and stores the resolved identity in the request context.
func Bearer(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			id, err := verifier.VerifyToken(r.Context(), strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the identity stored by Bearer, nil when the request
// was not authenticated.
func FromContext(ctx context.Context) *identity.Identity {
	id, _ := ctx.Value(identityKey).(*identity.Identity)
	return id
}

// WithIdentity injects an identity directly, for tests.
func WithIdentity(ctx context.Context, id *identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// RequireAdmin gates a route to admin callers.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromContext(r.Context())
		if !id.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
