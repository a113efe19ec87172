package auth

import (
	"context"
)

// contextKey is a private type for context keys, preventing collisions with
// values stored by other packages.
type contextKey string

const principalContextKey contextKey = "auth_principal"

// NewContextWithPrincipal returns a child context carrying the authenticated
// principal. Set once per request by the middleware; nothing outlives the
// request.
func NewContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext extracts the authenticated principal, if one was
// resolved for this request. Handlers on protected routes must treat a
// missing principal as unauthenticated and deny, never default-allow.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	return p, ok
}
