package middleware

import (
	"context"
	"net/http"
)

type contextKeyType string

const (
	userIDKey   contextKeyType = "user_id"
	userNameKey contextKeyType = "user_name"
)

// Identity extracts the X-User-ID and X-User-Name headers set by the edge
// gateway and injects them into the request context. The headers are trusted
// verbatim; token verification happens upstream. Requests without the
// headers pass through untouched, handlers decide whether identity is
// required for their route.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if userID := r.Header.Get("X-User-ID"); userID != "" {
				ctx = context.WithValue(ctx, userIDKey, userID)
			}
			if userName := r.Header.Get("X-User-Name"); userName != "" {
				ctx = context.WithValue(ctx, userNameKey, userName)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// UserNameFromContext extracts the user display name from the request context.
func UserNameFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(userNameKey).(string); ok {
		return name
	}
	return ""
}
