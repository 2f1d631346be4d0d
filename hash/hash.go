// Package hash provides one-way password hashing behind a small interface so
// the credential layer never touches a concrete algorithm.
package hash

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

var ErrHasherNotFound = errors.New("hasher not found")

type Method string

const (
	Bcrypt   Method = "bcrypt"
	Argon2ID Method = "argon2id"
)

// Hasher performs one-way password hashing and verification.
// Check must not error on a plain mismatch; a mismatch is (false, nil).
type Hasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) (bool, error)
}

// Manager is a thread-safe Hasher registry with a default method.
// It implements Hasher itself by delegating to the default.
type Manager struct {
	mu            sync.RWMutex
	hashers       map[Method]Hasher
	defaultHasher Method
}

var _ Hasher = (*Manager)(nil)

// New returns a Manager pre-configured with Bcrypt and Argon2ID hashers,
// defaulting to Bcrypt.
func New() *Manager {
	m := &Manager{
		hashers:       make(map[Method]Hasher),
		defaultHasher: Bcrypt,
	}

	m.hashers[Bcrypt] = BcryptHasher{}
	m.hashers[Argon2ID] = Argon2IDHasher{}

	return m
}

// Hash generates a password hash using the default Method.
func (m *Manager) Hash(password string) (string, error) {
	return m.MustHasher(m.defaultHasher).Hash(password)
}

// Check verifies a password against a hash using the default Method.
func (m *Manager) Check(password, hash string) (bool, error) {
	return m.MustHasher(m.defaultHasher).Check(password, hash)
}

// Hasher looks up a Hasher by Method. Returns ErrHasherNotFound if missing.
func (m *Manager) Hasher(mt Method) (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if hasher, ok := m.hashers[mt]; ok {
		return hasher, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrHasherNotFound, mt)
}

// MustHasher returns a Hasher for the Method or panics if not registered.
func (m *Manager) MustHasher(mt Method) Hasher {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if hasher, ok := m.hashers[mt]; ok {
		return hasher
	}

	panic(fmt.Sprintf("hasher '%s' not found", mt))
}

// Extend registers a new Hasher under the given Method, overwriting if existing.
func (m *Manager) Extend(mt Method, hasher Hasher) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hashers[mt] = hasher
}

// SetDefault changes the default Method used by Hash and Check.
// Returns ErrHasherNotFound if the Method is not registered.
func (m *Manager) SetDefault(mt Method) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.hashers[mt]; !ok {
		return fmt.Errorf("%w: %s", ErrHasherNotFound, mt)
	}

	m.defaultHasher = mt
	return nil
}

// BcryptHasher implements Hasher using the bcrypt algorithm.
type BcryptHasher struct{}

var _ Hasher = BcryptHasher{}

// Hash returns the bcrypt hash of the password using DefaultCost.
func (BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(bytes), nil
}

// Check compares a plaintext password against a bcrypt hash.
func (BcryptHasher) Check(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("bcrypt compare password hash: %w", err)
		}
	}

	return true, nil
}

// Argon2IDHasher implements Hasher using the argon2id algorithm.
type Argon2IDHasher struct{}

var _ Hasher = Argon2IDHasher{}

// Hash returns the argon2id hash of the password using DefaultParams.
func (Argon2IDHasher) Hash(password string) (string, error) {
	s, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("argon hash: %w", err)
	}
	return s, nil
}

// Check compares a plaintext password against an argon2id hash.
func (Argon2IDHasher) Check(password, hash string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return false, fmt.Errorf("argon compare password hash: %w", err)
	}
	return ok, nil
}
