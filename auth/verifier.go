package auth

import "context"

// Verifier is a strategy that accepts or rejects a bearer token as authentic
// and returns the identity claims it carries.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Chain orders verifiers into a single authentication decision. Verifiers
// are tried in order and the first success wins, so exactly one verifier's
// claims are trusted per request. The external-issuer verifier is expected
// first: locally minted tokens always fail it fast, and its claims are
// authoritative when a token could structurally satisfy both.
type Chain struct {
	verifiers []Verifier
}

var _ Verifier = (*Chain)(nil)

func NewChain(verifiers ...Verifier) *Chain {
	return &Chain{verifiers: verifiers}
}

// Verify runs the chain. An empty token or exhaustion of all verifiers
// yields ErrUnauthenticated; individual verifier failures are not exposed.
func (c *Chain) Verify(ctx context.Context, token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrUnauthenticated
	}

	for _, v := range c.verifiers {
		claims, err := v.Verify(ctx, token)
		if err == nil {
			return claims, nil
		}
	}

	return Claims{}, ErrUnauthenticated
}
