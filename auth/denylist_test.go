package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/gelozr/gate/auth"
)

func TestMemoryDenylist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	deny := auth.NewMemoryDenylist()

	revoked, err := deny.Revoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Revoked() error = %v, want nil", err)
	}
	if revoked {
		t.Errorf("Revoked() = true before any Revoke")
	}

	if err := deny.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke() error = %v, want nil", err)
	}

	revoked, err = deny.Revoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Revoked() error = %v, want nil", err)
	}
	if !revoked {
		t.Errorf("Revoked() = false after Revoke")
	}
}

func TestMemoryDenylist_ExpiredEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	deny := auth.NewMemoryDenylist()

	// An entry whose token has already expired never needs to block anything.
	if err := deny.Revoke(ctx, "stale", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke() error = %v, want nil", err)
	}

	revoked, err := deny.Revoked(ctx, "stale")
	if err != nil {
		t.Fatalf("Revoked() error = %v, want nil", err)
	}
	if revoked {
		t.Errorf("Revoked() = true for an entry past its token expiry")
	}
}
