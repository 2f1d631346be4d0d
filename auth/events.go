package auth

import (
	"context"
	"time"

	"github.com/gelozr/gate/event"
	"github.com/gelozr/gate/log"
)

// Audit events emitted by the credential and session services. Subscribers
// are optional; emitting with no broker configured is a no-op.

type UserRegistered struct {
	UserID string
	Email  string
	At     time.Time
}

type UserLoggedIn struct {
	UserID string
	At     time.Time
}

type SessionRefreshed struct {
	UserID     string
	RotatedJTI string
	At         time.Time
}

type UserLoggedOut struct {
	UserID string
	At     time.Time
}

// publish emits an event, logging instead of failing: audit delivery never
// blocks an auth operation.
func publish(ctx context.Context, events *event.Broker, logger log.Logger, evt any) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, evt); err != nil {
		logger.Warn("publish event", "event", evt, "error", err)
	}
}
