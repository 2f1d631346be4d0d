package auth

import (
	"context"
	"sync"
	"time"
)

// Denylist records refresh token ids (jti) that must no longer be accepted.
// Entries only need to live until the token's own expiry.
type Denylist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	Revoked(ctx context.Context, jti string) (bool, error)
}

// MemoryDenylist is a map-backed Denylist for single-process deployments.
// Expired entries are pruned opportunistically on writes.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

var _ Denylist = (*MemoryDenylist)(nil)

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		entries: make(map[string]time.Time),
	}
}

func (d *MemoryDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for id, exp := range d.entries {
		if now.After(exp) {
			delete(d.entries, id)
		}
	}

	if expiresAt.After(now) {
		d.entries[jti] = expiresAt
	}

	return nil
}

func (d *MemoryDenylist) Revoked(ctx context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.entries[jti]
	if !ok {
		return false, nil
	}

	return time.Now().Before(exp), nil
}
