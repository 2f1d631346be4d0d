package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2/google"

	"github.com/gelozr/gate/auth"
	"github.com/gelozr/gate/config"
	"github.com/gelozr/gate/event"
	"github.com/gelozr/gate/hash"
	"github.com/gelozr/gate/httpd"
	"github.com/gelozr/gate/log"
	"github.com/gelozr/gate/oidc"
	"github.com/gelozr/gate/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := log.NewSlogLogger(log.Config{
		LogLevel:  cfg.LogLevel,
		LogFormat: cfg.LogFormat,
	})

	codec, err := auth.NewCodec([]byte(cfg.AccessTokenSecret), []byte(cfg.RefreshTokenSecret))
	if err != nil {
		return fmt.Errorf("build codec: %w", err)
	}

	var store auth.UserStore = auth.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		store = postgres.NewUserStore(db)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory user store")
	}

	var deny auth.Denylist = auth.NewMemoryDenylist()
	if cfg.RedisAddr != "" {
		deny = auth.NewRedisDenylist(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	broker := newAuditBroker(logger)

	creds, err := auth.NewCredentialService(store, hash.New(), codec,
		auth.WithCredentialLogger(logger),
		auth.WithCredentialEvents(broker),
	)
	if err != nil {
		return fmt.Errorf("build credential service: %w", err)
	}

	sessions := auth.NewSessionService(store, codec,
		auth.WithSessionLogger(logger),
		auth.WithSessionEvents(broker),
		auth.WithDenylist(deny),
	)

	// External-issuer verification first; locally minted tokens always fail
	// it fast, and its claims win when a token could satisfy both.
	var verifiers []auth.Verifier
	if cfg.OAuthAudience != "" {
		verifiers = append(verifiers, oidc.NewVerifier(cfg.OAuthIssuer, cfg.OAuthAudience,
			oidc.WithCacheTTL(cfg.JWKSCacheTTL),
		))
	}
	verifiers = append(verifiers, auth.NewLocalVerifier(codec))

	opts := []httpd.Option{
		httpd.WithLogger(logger),
		httpd.WithSecureCookies(cfg.IsProduction()),
	}
	if cfg.OAuthClientID != "" {
		opts = append(opts, httpd.WithExchangeClient(
			oidc.NewExchangeClient(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRedirectURL, google.Endpoint),
		))
	}

	api := httpd.New(creds, sessions, auth.NewChain(verifiers...), opts...)
	srv := httpd.NewServer(cfg.HTTPAddr, api.Router())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr, "env", cfg.Env)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	}
}

// newAuditBroker wires a subscriber per auth event so every credential and
// session transition leaves a log line.
func newAuditBroker(logger log.Logger) *event.Broker {
	broker := event.NewBroker()
	audit := logger.With("component", "audit")

	registered := event.NewBus[auth.UserRegistered]()
	registered.Subscribe(func(_ context.Context, e auth.UserRegistered) error {
		audit.Info("user registered", "user_id", e.UserID, "email", e.Email)
		return nil
	})
	broker.Register(registered)

	loggedIn := event.NewBus[auth.UserLoggedIn]()
	loggedIn.Subscribe(func(_ context.Context, e auth.UserLoggedIn) error {
		audit.Info("user logged in", "user_id", e.UserID)
		return nil
	})
	broker.Register(loggedIn)

	refreshed := event.NewBus[auth.SessionRefreshed]()
	refreshed.Subscribe(func(_ context.Context, e auth.SessionRefreshed) error {
		audit.Info("session refreshed", "user_id", e.UserID, "rotated_jti", e.RotatedJTI)
		return nil
	})
	broker.Register(refreshed)

	loggedOut := event.NewBus[auth.UserLoggedOut]()
	loggedOut.Subscribe(func(_ context.Context, e auth.UserLoggedOut) error {
		audit.Info("user logged out", "user_id", e.UserID)
		return nil
	})
	broker.Register(loggedOut)

	return broker
}
