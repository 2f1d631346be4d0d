package auth

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token lifetimes are fixed per token class.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is the identity payload carried inside every token this service
// mints. Subject holds the user id; ID (jti) makes each token distinct so
// rotation always produces a new value.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and parses the two token classes. Each class uses its own HMAC
// secret so leaking one does not compromise the other. Codec is stateless
// and safe for concurrent use.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
}

// NewCodec builds a Codec from the two signing secrets. Secrets must be
// non-empty and distinct.
func NewCodec(accessSecret, refreshSecret []byte) (*Codec, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, errors.New("codec: signing secret is empty")
	}
	if bytes.Equal(accessSecret, refreshSecret) {
		return nil, errors.New("codec: access and refresh secrets must differ")
	}

	return &Codec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
	}, nil
}

// MintAccess signs a short-lived access token for the user.
func (c *Codec) MintAccess(u User) (string, error) {
	return c.sign(u, c.accessSecret, AccessTokenTTL)
}

// MintRefresh signs a refresh token for the user.
func (c *Codec) MintRefresh(u User) (string, error) {
	return c.sign(u, c.refreshSecret, RefreshTokenTTL)
}

// ParseAccess verifies an access token's signature and expiry.
func (c *Codec) ParseAccess(token string) (Claims, error) {
	return c.parse(token, c.accessSecret)
}

// ParseRefresh verifies a refresh token's signature and expiry.
func (c *Codec) ParseRefresh(token string) (Claims, error) {
	return c.parse(token, c.refreshSecret)
}

func (c *Codec) sign(u User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// parse maps every structural and signature defect to ErrTokenInvalid;
// only expiry keeps its own sentinel, and that solely for logging.
func (c *Codec) parse(tokenStr string, secret []byte) (Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	return *claims, nil
}
