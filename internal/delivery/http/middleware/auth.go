package middleware

import (
	"context"
	"net/http"
	"strings"

	h "confbooking/internal/delivery/http/helpers"
	"confbooking/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// SetIdentity returns a context with the acting identity set. Used by auth middleware.
func SetIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the authenticated identity from the context, if present.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// identity in the request context. If the token is missing or invalid, it
// responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFromRequest(r, verifier)
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or missing token")
				return
			}
			next(w, r.WithContext(SetIdentity(r.Context(), identity)))
		}
	}
}

// OptionalAuth resolves the identity when a valid Bearer token is present and
// otherwise lets the request through unauthenticated. The active-conference
// endpoint uses it: guests see base pricing, members see discounts.
func OptionalAuth(verifier domain.TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if identity, ok := identityFromRequest(r, verifier); ok {
				r = r.WithContext(SetIdentity(r.Context(), identity))
			}
			next(w, r)
		}
	}
}

func identityFromRequest(r *http.Request, verifier domain.TokenVerifier) (*domain.Identity, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return nil, false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return nil, false
	}
	identity, err := verifier.Verify(token)
	if err != nil {
		return nil, false
	}
	return identity, true
}
