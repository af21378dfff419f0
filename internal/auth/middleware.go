package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/medbook/clinic-server/internal/user"
)

// Identity is the authenticated caller: the account id and its role.
// Role-specific profile ids are resolved downstream by the services.
type Identity struct {
	UserID uuid.UUID
	Role   user.Role
}

type contextKey string

const identityKey contextKey = "identity"

// Middleware validates the bearer token and stores the caller identity
// in the request context. Requests without a valid token get 401.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "authorization header required")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				unauthorized(w, "authorization header must be a bearer token")
				return
			}

			ident, err := ValidateToken(parts[1], secret)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles rejects authenticated callers whose role is not in the
// allowed set. Must run after Middleware.
func RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := IdentityFrom(r.Context())
			if !ok {
				unauthorized(w, "authentication required")
				return
			}

			for _, role := range roles {
				if ident.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			forbidden(w, "you do not have permission to access this resource")
		})
	}
}

// IdentityFrom retrieves the caller identity set by Middleware.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*Identity)
	return ident, ok
}

// WithIdentity returns a context carrying the given identity. Used by
// handler tests to skip the token round trip.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeAuthError(w, http.StatusUnauthorized, "unauthorized", msg)
}

func forbidden(w http.ResponseWriter, msg string) {
	writeAuthError(w, http.StatusForbidden, "forbidden", msg)
}

func writeAuthError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"details": msg,
	})
}
