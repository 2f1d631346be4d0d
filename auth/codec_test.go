package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gelozr/gate/auth"
)

var (
	accessSecret  = []byte("access-secret-for-tests")
	refreshSecret = []byte("refresh-secret-for-tests")
)

func newCodec(t *testing.T) *auth.Codec {
	t.Helper()

	codec, err := auth.NewCodec(accessSecret, refreshSecret)
	if err != nil {
		t.Fatalf("NewCodec() error = %v, want nil", err)
	}
	return codec
}

func testUser() auth.User {
	return auth.User{
		ID:    "user-1",
		Email: "ann@x.com",
		Name:  "Ann",
	}
}

func TestNewCodec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		access  []byte
		refresh []byte
		wantErr bool
	}{
		{name: "valid", access: accessSecret, refresh: refreshSecret},
		{name: "empty access secret", access: nil, refresh: refreshSecret, wantErr: true},
		{name: "empty refresh secret", access: accessSecret, refresh: nil, wantErr: true},
		{name: "identical secrets", access: accessSecret, refresh: accessSecret, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := auth.NewCodec(tt.access, tt.refresh)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCodec() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestCodec_MintAccess(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)
	user := testUser()

	token, err := codec.MintAccess(user)
	if err != nil {
		t.Fatalf("MintAccess() error = %v, want nil", err)
	}

	claims, err := codec.ParseAccess(token)
	if err != nil {
		t.Fatalf("ParseAccess() error = %v, want nil", err)
	}

	if claims.Subject != user.ID {
		t.Errorf("Subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.Name != user.Name {
		t.Errorf("Name = %q, want %q", claims.Name, user.Name)
	}
	if claims.ID == "" {
		t.Errorf("expected a non-empty jti")
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != auth.AccessTokenTTL {
		t.Errorf("lifetime = %v, want %v", lifetime, auth.AccessTokenTTL)
	}
}

func TestCodec_MintRefresh(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)

	token, err := codec.MintRefresh(testUser())
	if err != nil {
		t.Fatalf("MintRefresh() error = %v, want nil", err)
	}

	claims, err := codec.ParseRefresh(token)
	if err != nil {
		t.Fatalf("ParseRefresh() error = %v, want nil", err)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != auth.RefreshTokenTTL {
		t.Errorf("lifetime = %v, want %v", lifetime, auth.RefreshTokenTTL)
	}
}

func TestCodec_SecretsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)

	access, err := codec.MintAccess(testUser())
	if err != nil {
		t.Fatalf("MintAccess() error = %v, want nil", err)
	}
	refresh, err := codec.MintRefresh(testUser())
	if err != nil {
		t.Fatalf("MintRefresh() error = %v, want nil", err)
	}

	if _, err := codec.ParseRefresh(access); !errors.Is(err, auth.ErrTokenInvalid) {
		t.Errorf("ParseRefresh(access token) error = %v, want ErrTokenInvalid", err)
	}
	if _, err := codec.ParseAccess(refresh); !errors.Is(err, auth.ErrTokenInvalid) {
		t.Errorf("ParseAccess(refresh token) error = %v, want ErrTokenInvalid", err)
	}
}

func TestCodec_ParseAccess_Tampered(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)

	token, err := codec.MintAccess(testUser())
	if err != nil {
		t.Fatalf("MintAccess() error = %v, want nil", err)
	}

	// Flipping a byte in the header, payload, or signature must invalidate
	// the token. The final character is skipped: its low base64 bits are
	// padding and do not survive decoding.
	for _, i := range []int{0, len(token) / 2, len(token) - 2} {
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'z'
		} else {
			mutated[i] = 'A'
		}

		if _, err := codec.ParseAccess(string(mutated)); err == nil {
			t.Errorf("ParseAccess() accepted a token with byte %d flipped", i)
		}
	}
}

func TestCodec_ParseAccess_WrongSecret(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)

	other, err := auth.NewCodec([]byte("some-other-access-secret"), refreshSecret)
	if err != nil {
		t.Fatalf("NewCodec() error = %v, want nil", err)
	}

	token, err := other.MintAccess(testUser())
	if err != nil {
		t.Fatalf("MintAccess() error = %v, want nil", err)
	}

	if _, err := codec.ParseAccess(token); !errors.Is(err, auth.ErrTokenInvalid) {
		t.Errorf("ParseAccess() error = %v, want ErrTokenInvalid", err)
	}
}

func TestCodec_ParseAccess_Expired(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)

	// Sign an already expired token with the real access secret.
	claims := auth.Claims{
		Email: "ann@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(accessSecret)
	if err != nil {
		t.Fatalf("SignedString() error = %v, want nil", err)
	}

	if _, err := codec.ParseAccess(expired); !errors.Is(err, auth.ErrTokenExpired) {
		t.Errorf("ParseAccess() error = %v, want ErrTokenExpired", err)
	}
}

func TestCodec_ParseAccess_Malformed(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "definitely not a token"},
		{name: "two segments", token: "aaaa.bbbb"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := codec.ParseAccess(tt.token); !errors.Is(err, auth.ErrTokenInvalid) {
				t.Errorf("ParseAccess(%q) error = %v, want ErrTokenInvalid", tt.token, err)
			}
		})
	}
}
