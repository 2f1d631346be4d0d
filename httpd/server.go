// Package httpd exposes the authentication core over HTTP. It is the only
// layer that translates failure results into status codes; everything below
// it returns typed errors.
package httpd

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/gelozr/gate/auth"
	"github.com/gelozr/gate/log"
	"github.com/gelozr/gate/oidc"
)

// Handler bundles the auth services behind the HTTP surface.
type Handler struct {
	creds    *auth.CredentialService
	sessions *auth.SessionService
	chain    *auth.Chain
	exchange *oidc.ExchangeClient
	logger   log.Logger

	// secureCookies marks the refresh cookie Secure; enabled in production.
	secureCookies bool
	limiter       *ipLimiter
}

type Option func(*Handler)

func WithLogger(l log.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithExchangeClient enables the OAuth callback endpoint.
func WithExchangeClient(c *oidc.ExchangeClient) Option {
	return func(h *Handler) { h.exchange = c }
}

func WithSecureCookies(secure bool) Option {
	return func(h *Handler) { h.secureCookies = secure }
}

// WithLoginRateLimit overrides the default per-IP limit on the credential
// endpoints.
func WithLoginRateLimit(r rate.Limit, burst int) Option {
	return func(h *Handler) { h.limiter = newIPLimiter(r, burst) }
}

func New(creds *auth.CredentialService, sessions *auth.SessionService, chain *auth.Chain, opts ...Option) *Handler {
	h := &Handler{
		creds:    creds,
		sessions: sessions,
		chain:    chain,
		logger:   log.Discard(),
		// 10 attempts/min with a small burst keeps credential stuffing slow
		// without bothering real users.
		limiter: newIPLimiter(rate.Limit(10.0/60.0), 10),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Router assembles the HTTP surface.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(h.recoverPanics)
	r.Use(h.logRequests)

	r.Route("/auth", func(r chi.Router) {
		r.With(h.rateLimit).Post("/register", h.register)
		r.With(h.rateLimit).Post("/login", h.login)
		r.Post("/refresh", h.refresh)
		r.Post("/logout", h.logout)
		r.With(h.RequireAuth).Get("/me", h.me)
	})

	r.Post("/oauth/google/callback", h.oauthCallback)

	return r
}

// NewServer wraps the handler in an http.Server with timeouts so a slow
// client cannot hold a connection open indefinitely.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
