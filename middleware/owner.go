package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const OwnerContextKey = contextKey("owner")

// AnonymousOwner scopes requests that carry no owner identity. Authentication
// lives in front of this service; by the time a request arrives, the gateway
// has either set X-Owner-ID or stripped it.
const AnonymousOwner = "anonymous"

// Owner resolves the owner id for the request and stores it in the context.
func Owner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get("X-Owner-ID"))
		if owner == "" {
			owner = AnonymousOwner
		}

		ctx := context.WithValue(r.Context(), OwnerContextKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerFromContext returns the owner id set by the Owner middleware.
func OwnerFromContext(ctx context.Context) string {
	if owner, ok := ctx.Value(OwnerContextKey).(string); ok && owner != "" {
		return owner
	}
	return AnonymousOwner
}
