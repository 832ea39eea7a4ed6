package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/psyportal/psyportal/internal/platform/apperr"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityResolver turns a verified token subject into a live identity. It
// must fail for unknown or deactivated users.
type IdentityResolver func(ctx context.Context, userID string) (*Identity, error)

// BearerAuth extracts and verifies the bearer token, resolves the subject to
// a live user, and stores the identity on the request context. Missing
// header, malformed header, bad signature, expiry, and dead subjects all
// collapse to the same 401 so callers cannot distinguish them.
func BearerAuth(issuer *TokenIssuer, resolve IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperr.Unauthenticated("could not validate credentials")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperr.Unauthenticated("could not validate credentials")
			}

			subject, err := issuer.Verify(parts[1])
			if err != nil {
				return apperr.Unauthenticated("could not validate credentials")
			}

			identity, err := resolve(c.Request().Context(), subject)
			if err != nil || identity == nil {
				return apperr.Unauthenticated("could not validate credentials")
			}

			ctx := context.WithValue(c.Request().Context(), identityKey, identity)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// IdentityFromContext returns the resolved identity, or nil outside an
// authenticated request.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// WithIdentity returns a context carrying the given identity. Used by tests
// and internal calls that bypass the HTTP middleware.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// RequireRole returns middleware that rejects requests whose identity does
// not hold one of the given roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFromContext(c.Request().Context())
			if id == nil {
				return apperr.Unauthenticated("could not validate credentials")
			}
			for _, r := range roles {
				if id.Role == r {
					return next(c)
				}
			}
			return apperr.Forbidden("insufficient permissions")
		}
	}
}
