package auth

import "errors"

var (
	// ErrValidation marks malformed registration input. The boundary maps it
	// to a 400 response carrying the wrapped detail.
	ErrValidation = errors.New("validation failed")

	// ErrEmailTaken is returned on a duplicate registration. It reveals
	// nothing beyond the email collision.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must never be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid covers malformed structure and bad signatures.
	ErrTokenInvalid = errors.New("token is invalid")

	// ErrTokenExpired is kept distinct for logging only; the HTTP boundary
	// collapses it into the same response as ErrTokenInvalid.
	ErrTokenExpired = errors.New("token is expired")

	ErrUserNotFound = errors.New("user not found")

	// ErrUnauthenticated is the chain's terminal failure: no verifier
	// accepted the presented token.
	ErrUnauthenticated = errors.New("unauthenticated")
)
