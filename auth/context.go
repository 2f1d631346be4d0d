package auth

import "context"

// ctxKey is a private type for context keys in this package.
type ctxKey string

var claimsCtxKey = ctxKey("claims")

// WithClaims stores the authenticated caller's claims in the context.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromCtx retrieves the authenticated caller's claims, if any.
func ClaimsFromCtx(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(Claims)
	return claims, ok
}
