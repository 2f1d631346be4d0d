package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const exchangeTimeout = 10 * time.Second

// Identity is the subset of id_token claims the service cares about.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// TokenSet holds the provider's tokens from a completed code exchange.
// These are the provider's materials, distinct from this service's own
// access/refresh tokens.
type TokenSet struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Identity     Identity
}

// ExchangeError carries the provider's failure response. The body is kept
// for server-side logging only and is deliberately left out of Error().
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("oauth exchange failed: provider returned %d", e.StatusCode)
}

// ExchangeClient trades an authorization code for provider tokens at the
// issuer's token endpoint.
type ExchangeClient struct {
	conf *oauth2.Config
}

func NewExchangeClient(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint) *ExchangeClient {
	return &ExchangeClient{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
		},
	}
}

// Exchange posts the code, client credentials, redirect URI and grant type
// to the token endpoint. A non-2xx provider response surfaces as an
// *ExchangeError. The id_token claims are decoded without local signature
// verification: trust in this token class comes from the TLS-authenticated
// call to the token endpoint itself.
func (c *ExchangeClient) Exchange(ctx context.Context, code string) (TokenSet, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return TokenSet{}, &ExchangeError{
				StatusCode: rerr.Response.StatusCode,
				Body:       string(rerr.Body),
			}
		}
		return TokenSet{}, fmt.Errorf("exchange code: %w", err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return TokenSet{}, errors.New("token response is missing id_token")
	}

	identity, err := decodeIdentity(idToken)
	if err != nil {
		return TokenSet{}, fmt.Errorf("decode id_token: %w", err)
	}

	return TokenSet{
		IDToken:      idToken,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
		Identity:     identity,
	}, nil
}

func decodeIdentity(idToken string) (Identity, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return Identity{}, errors.New("id_token is not a JWT")
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return Identity{}, fmt.Errorf("decode payload: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return Identity{}, fmt.Errorf("unmarshal claims: %w", err)
	}

	return identity, nil
}
