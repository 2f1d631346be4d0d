package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/gelozr/gate/event"
	"github.com/gelozr/gate/hash"
	"github.com/gelozr/gate/log"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 6

// TokenPair is the result of a successful login or refresh. The refresh
// token travels only inside an HTTP-only cookie, never in a JSON body.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput is the registration request payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// CredentialService registers accounts and checks login credentials.
type CredentialService struct {
	store  UserStore
	hasher hash.Hasher
	codec  *Codec
	events *event.Broker
	logger log.Logger

	// dummyHash is compared against when the email is unknown so a login
	// miss costs the same as a hash mismatch.
	dummyHash string
}

type CredentialOption func(*CredentialService)

func WithCredentialLogger(l log.Logger) CredentialOption {
	return func(s *CredentialService) { s.logger = l }
}

func WithCredentialEvents(b *event.Broker) CredentialOption {
	return func(s *CredentialService) { s.events = b }
}

func NewCredentialService(store UserStore, hasher hash.Hasher, codec *Codec, opts ...CredentialOption) (*CredentialService, error) {
	s := &CredentialService{
		store:  store,
		hasher: hasher,
		codec:  codec,
		logger: log.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	dummy, err := hasher.Hash("gate.credential.dummy")
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

// Register creates a new account with a hashed password. A duplicate email
// surfaces as ErrEmailTaken and nothing else about the collision.
func (s *CredentialService) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := validateRegistration(in); err != nil {
		return User{}, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
	})
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.events, s.logger, UserRegistered{UserID: user.ID, Email: user.Email, At: time.Now()})

	return user, nil
}

// Login checks the credentials and mints a token pair. Unknown email and
// wrong password are indistinguishable to the caller, and both paths run a
// hash comparison so neither returns measurably faster.
func (s *CredentialService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_, _ = s.hasher.Check(password, s.dummyHash)
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Check(password, user.PasswordHash)
	if err != nil {
		return TokenPair{}, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return TokenPair{}, ErrInvalidCredentials
	}

	pair, err := mintPair(s.codec, user)
	if err != nil {
		return TokenPair{}, err
	}

	publish(ctx, s.events, s.logger, UserLoggedIn{UserID: user.ID, At: time.Now()})

	return pair, nil
}

func validateRegistration(in RegisterInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return fmt.Errorf("%w: email is not valid", ErrValidation)
	}

	if len(in.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	return nil
}

func mintPair(codec *Codec, user User) (TokenPair, error) {
	access, err := codec.MintAccess(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint access token: %w", err)
	}

	refresh, err := codec.MintRefresh(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
