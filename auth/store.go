package auth

import "context"

// User is the credential record as the auth core sees it. The store owns the
// full schema; this core only reads these fields and writes them once at
// registration. PasswordHash never leaves the package in a response body.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
}

// UserStore is the external credential record store. Email uniqueness is the
// store's responsibility; Create reports a collision as ErrEmailTaken.
// Lookups report a missing record as ErrUserNotFound.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}
