package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/schoolplanner/backend/internal/api"
	"github.com/schoolplanner/backend/internal/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// Authenticator resolves an Authorization header to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (string, error)
}

// RequireAuth validates the bearer token on every request and injects the
// resolved user id into the request context.
func RequireAuth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrMissingHeader):
					api.Error(w, http.StatusUnauthorized, "invalid_token", "Missing authorization header")
				case errors.Is(err, auth.ErrMalformedHeader):
					api.Error(w, http.StatusUnauthorized, "invalid_token", "Invalid authorization header")
				case errors.Is(err, auth.ErrTokenExpired):
					api.Error(w, http.StatusUnauthorized, "invalid_token", "Token expired")
				case errors.Is(err, auth.ErrInvalidToken):
					api.Error(w, http.StatusUnauthorized, "invalid_token", "Invalid token")
				default:
					api.StorageError(w, err)
				}
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id, or "" outside RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
