package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gelozr/gate/event"
	"github.com/gelozr/gate/log"
)

// SessionService validates and rotates refresh tokens and drives logout.
// Tokens are self-contained; with no Denylist configured, rotation does not
// invalidate the superseded token server-side. Wiring a Denylist gives
// at-most-once refresh semantics.
type SessionService struct {
	store  UserStore
	codec  *Codec
	deny   Denylist
	events *event.Broker
	logger log.Logger
}

type SessionOption func(*SessionService)

func WithSessionLogger(l log.Logger) SessionOption {
	return func(s *SessionService) { s.logger = l }
}

func WithSessionEvents(b *event.Broker) SessionOption {
	return func(s *SessionService) { s.events = b }
}

// WithDenylist enables server-side revocation of rotated and logged-out
// refresh tokens.
func WithDenylist(d Denylist) SessionOption {
	return func(s *SessionService) { s.deny = d }
}

func NewSessionService(store UserStore, codec *Codec, opts ...SessionOption) *SessionService {
	s := &SessionService{
		store:  store,
		codec:  codec,
		logger: log.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Refresh exchanges a valid refresh token for a new token pair. The user
// must still exist: a deleted account invalidates every outstanding refresh
// token. The presented token's jti is denylisted on success, so it cannot be
// replayed once rotated.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.codec.ParseRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	if s.deny != nil {
		revoked, err := s.deny.Revoked(ctx, claims.ID)
		if err != nil {
			// Fail closed: an unreachable denylist must not admit a
			// possibly revoked token.
			s.logger.Warn("denylist check failed", "error", err)
			return TokenPair{}, ErrTokenInvalid
		}
		if revoked {
			return TokenPair{}, ErrTokenInvalid
		}
	}

	user, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return TokenPair{}, ErrUserNotFound
		}
		return TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	pair, err := mintPair(s.codec, user)
	if err != nil {
		return TokenPair{}, err
	}

	s.revoke(ctx, claims)

	publish(ctx, s.events, s.logger, SessionRefreshed{UserID: user.ID, RotatedJTI: claims.ID, At: time.Now()})

	return pair, nil
}

// Logout revokes the presented refresh token. An absent or already invalid
// token is not an error; the session is gone either way. Clearing the cookie
// is the HTTP boundary's job.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.codec.ParseRefresh(refreshToken)
	if err != nil {
		return nil
	}

	s.revoke(ctx, claims)

	publish(ctx, s.events, s.logger, UserLoggedOut{UserID: claims.Subject, At: time.Now()})

	return nil
}

// revoke records the token's jti until its natural expiry. A denylist write
// failure downgrades rotation to the stateless behavior; it is logged, not
// surfaced, since the new pair has already been minted.
func (s *SessionService) revoke(ctx context.Context, claims Claims) {
	if s.deny == nil || claims.ExpiresAt == nil {
		return
	}

	if err := s.deny.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Warn("denylist revoke failed", "jti", claims.ID, "error", err)
	}
}
