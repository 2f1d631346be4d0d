package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a map-backed UserStore for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]User
	byID    map[string]string // id -> email
}

var _ UserStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byEmail: make(map[string]User),
		byID:    make(map[string]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, user User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return User{}, ErrEmailTaken
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	s.byEmail[user.Email] = user
	s.byID[user.ID] = user.Email

	return user, nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return User{}, ErrUserNotFound
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if email, ok := s.byID[id]; ok {
		return s.byEmail[email], nil
	}
	return User{}, ErrUserNotFound
}

// Delete removes a user record. Outstanding refresh tokens for the user stop
// working on the next rotation.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}

	delete(s.byID, id)
	delete(s.byEmail, email)
	return nil
}
