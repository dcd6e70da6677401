package middleware

import (
	"context"
	"net/http"

	jwtinfra "github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/jwt"
)

type contextKey string

const identityKey contextKey = "identity"

// Cookie names for the portal session. The access cookie is short-lived;
// the refresh cookie lets the resolver mint a new access token in-line.
const (
	AccessCookieName  = "medoh-session"
	RefreshCookieName = "medoh-refresh"
)

// Identity is the resolved caller. Absent from context means anonymous.
type Identity struct {
	UserID string
	Role   string
}

// Session resolves the caller's identity from the session cookies before
// any handler runs. When the access token has expired but the refresh
// token is still good, a fresh access token is signed and the cookie is
// rewritten on the outgoing response. Resolution never blocks a request:
// any failure degrades to anonymous.
func Session(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if provider == nil {
				next.ServeHTTP(w, r)
				return
			}

			if c, err := r.Cookie(AccessCookieName); err == nil {
				if claims, err := provider.Verify(c.Value); err == nil {
					next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
					return
				}
			}

			// Access token missing or stale, try the refresh token.
			c, err := r.Cookie(RefreshCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := provider.Verify(c.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			access, err := provider.SignAccess(claims.UserID, claims.Role)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     AccessCookieName,
				Value:    access,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
		})
	}
}

func withIdentity(ctx context.Context, claims *jwtinfra.Claims) context.Context {
	return WithIdentity(ctx, &Identity{UserID: claims.UserID, Role: claims.Role})
}

// WithIdentity returns a context carrying the resolved identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the resolved identity from the request context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}
