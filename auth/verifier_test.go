package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gelozr/gate/auth"
)

type mockVerifier struct {
	claims     auth.Claims
	err        error
	called     bool
	lastTokens []string
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	m.called = true
	m.lastTokens = append(m.lastTokens, token)

	if m.err != nil {
		return auth.Claims{}, m.err
	}
	return m.claims, nil
}

func TestChain_Verify(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	t.Run("first verifier wins", func(t *testing.T) {
		t.Parallel()

		first := &mockVerifier{claims: auth.Claims{Email: "first@x.com"}}
		second := &mockVerifier{claims: auth.Claims{Email: "second@x.com"}}
		chain := auth.NewChain(first, second)

		claims, err := chain.Verify(context.Background(), "token")
		if err != nil {
			t.Fatalf("Verify() error = %v, want nil", err)
		}
		if claims.Email != "first@x.com" {
			t.Errorf("claims from %q, want first verifier's", claims.Email)
		}
		if second.called {
			t.Errorf("second verifier must not run after the first succeeds")
		}
	})

	t.Run("falls through on failure", func(t *testing.T) {
		t.Parallel()

		first := &mockVerifier{err: boom}
		second := &mockVerifier{claims: auth.Claims{Email: "second@x.com"}}
		chain := auth.NewChain(first, second)

		claims, err := chain.Verify(context.Background(), "token")
		if err != nil {
			t.Fatalf("Verify() error = %v, want nil", err)
		}
		if claims.Email != "second@x.com" {
			t.Errorf("claims from %q, want second verifier's", claims.Email)
		}
	})

	t.Run("all fail", func(t *testing.T) {
		t.Parallel()

		chain := auth.NewChain(&mockVerifier{err: boom}, &mockVerifier{err: boom})

		if _, err := chain.Verify(context.Background(), "token"); !errors.Is(err, auth.ErrUnauthenticated) {
			t.Errorf("Verify() error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("empty token short-circuits", func(t *testing.T) {
		t.Parallel()

		v := &mockVerifier{claims: auth.Claims{}}
		chain := auth.NewChain(v)

		if _, err := chain.Verify(context.Background(), ""); !errors.Is(err, auth.ErrUnauthenticated) {
			t.Errorf("Verify() error = %v, want ErrUnauthenticated", err)
		}
		if v.called {
			t.Errorf("no verifier may run for an empty token")
		}
	})

	t.Run("no verifiers", func(t *testing.T) {
		t.Parallel()

		if _, err := auth.NewChain().Verify(context.Background(), "token"); !errors.Is(err, auth.ErrUnauthenticated) {
			t.Errorf("Verify() error = %v, want ErrUnauthenticated", err)
		}
	})
}

func TestLocalVerifier_Verify(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)
	verifier := auth.NewLocalVerifier(codec)

	access, err := codec.MintAccess(testUser())
	if err != nil {
		t.Fatalf("MintAccess() error = %v, want nil", err)
	}
	refresh, err := codec.MintRefresh(testUser())
	if err != nil {
		t.Fatalf("MintRefresh() error = %v, want nil", err)
	}

	claims, err := verifier.Verify(context.Background(), access)
	if err != nil {
		t.Fatalf("Verify(access) error = %v, want nil", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-1")
	}

	// A refresh token must never pass as an access token.
	if _, err := verifier.Verify(context.Background(), refresh); err == nil {
		t.Errorf("Verify(refresh) expected error, got nil")
	}
}
