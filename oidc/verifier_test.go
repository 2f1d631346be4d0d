package oidc_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gelozr/gate/auth"
	"github.com/gelozr/gate/oidc"
)

const (
	testIssuer   = "https://issuer.test"
	testAudience = "client-id-1"
	testKid      = "key-1"
)

func newSigningKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v, want nil", err)
	}
	return key
}

// jwksServer publishes the key's public half the way a provider does and
// counts how often it is fetched.
func jwksServer(t *testing.T, pub *rsa.PublicKey) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var fetches atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)

		set := map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": testKid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		}
		if err := json.NewEncoder(w).Encode(set); err != nil {
			t.Errorf("encode jwks: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, &fetches
}

func signRS256(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.RegisteredClaims) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid

	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() error = %v, want nil", err)
	}
	return signed
}

func providerClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testAudience},
		Subject:   "oauth-user-1",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	key := newSigningKey(t)
	srv, _ := jwksServer(t, &key.PublicKey)
	verifier := oidc.NewVerifier(testIssuer, testAudience, oidc.WithJWKSURL(srv.URL))

	token := signRS256(t, key, testKid, providerClaims())

	claims, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify() error = %v, want nil", err)
	}
	if claims.Subject != "oauth-user-1" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "oauth-user-1")
	}
}

func TestVerifier_Verify_Rejections(t *testing.T) {
	t.Parallel()

	key := newSigningKey(t)
	srv, _ := jwksServer(t, &key.PublicKey)
	verifier := oidc.NewVerifier(testIssuer, testAudience, oidc.WithJWKSURL(srv.URL))

	wrongIssuer := providerClaims()
	wrongIssuer.Issuer = "https://evil.test"

	wrongAudience := providerClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}

	noExpiry := providerClaims()
	noExpiry.ExpiresAt = nil

	otherKey := newSigningKey(t)

	hsToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, providerClaims()).SignedString([]byte("local-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v, want nil", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "wrong issuer", token: signRS256(t, key, testKid, wrongIssuer), wantErr: auth.ErrTokenInvalid},
		{name: "wrong audience", token: signRS256(t, key, testKid, wrongAudience), wantErr: auth.ErrTokenInvalid},
		{name: "missing expiry", token: signRS256(t, key, testKid, noExpiry), wantErr: auth.ErrTokenInvalid},
		{name: "unknown kid", token: signRS256(t, key, "rotated-away", providerClaims()), wantErr: auth.ErrTokenInvalid},
		{name: "wrong key", token: signRS256(t, otherKey, testKid, providerClaims()), wantErr: auth.ErrTokenInvalid},
		{name: "symmetric alg", token: hsToken, wantErr: auth.ErrTokenInvalid},
		{name: "garbage", token: "not-a-token", wantErr: auth.ErrTokenInvalid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := verifier.Verify(context.Background(), tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifier_Verify_Expired(t *testing.T) {
	t.Parallel()

	key := newSigningKey(t)
	srv, _ := jwksServer(t, &key.PublicKey)
	verifier := oidc.NewVerifier(testIssuer, testAudience, oidc.WithJWKSURL(srv.URL))

	claims := providerClaims()
	claims.IssuedAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Hour))
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	if _, err := verifier.Verify(context.Background(), signRS256(t, key, testKid, claims)); !errors.Is(err, auth.ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestVerifier_KeyCaching(t *testing.T) {
	t.Parallel()

	key := newSigningKey(t)
	srv, fetches := jwksServer(t, &key.PublicKey)
	verifier := oidc.NewVerifier(testIssuer, testAudience,
		oidc.WithJWKSURL(srv.URL),
		oidc.WithCacheTTL(time.Hour),
	)

	token := signRS256(t, key, testKid, providerClaims())

	for i := 0; i < 5; i++ {
		if _, err := verifier.Verify(context.Background(), token); err != nil {
			t.Fatalf("Verify() error = %v, want nil", err)
		}
	}

	if got := fetches.Load(); got != 1 {
		t.Errorf("key set fetched %d times within the TTL, want 1", got)
	}
}

func TestVerifier_KeyFetchFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	key := newSigningKey(t)
	verifier := oidc.NewVerifier(testIssuer, testAudience, oidc.WithJWKSURL(srv.URL))

	// Fail closed when keys cannot be fetched, even for a well-formed token.
	token := signRS256(t, key, testKid, providerClaims())
	if _, err := verifier.Verify(context.Background(), token); !errors.Is(err, auth.ErrTokenInvalid) {
		t.Errorf("Verify() error = %v, want ErrTokenInvalid", err)
	}
}
