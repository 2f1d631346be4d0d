// Package config loads process-wide configuration from the environment.
// Secrets and OAuth settings are read once at startup and passed explicitly
// into component constructors; nothing reads the environment mid-request.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Signing secrets are kept per token class so leaking one does not
	// compromise the other.
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`

	OAuthClientID     string        `env:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string        `env:"OAUTH_CLIENT_SECRET"`
	OAuthRedirectURL  string        `env:"OAUTH_REDIRECT_URL"`
	OAuthIssuer       string        `env:"OAUTH_ISSUER" envDefault:"https://accounts.google.com"`
	OAuthAudience     string        `env:"OAUTH_AUDIENCE"`
	JWKSCacheTTL      time.Duration `env:"JWKS_CACHE_TTL" envDefault:"1h"`

	// Optional backends. Empty values fall back to in-memory implementations.
	DatabaseURL string `env:"DATABASE_URL"`
	RedisAddr   string `env:"REDIS_ADDR"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads a .env file if present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}
