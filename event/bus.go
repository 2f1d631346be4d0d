package event

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Handler consumes one event. A non-nil error is reported to the publisher
// but does not stop other handlers.
type Handler[T any] func(context.Context, T) error

// Bus fans a single event type out to its subscribers.
type Bus[T any] struct {
	mu       sync.RWMutex
	handlers []Handler[T]
	evt      T
}

var _ Publisher = (*Bus[any])(nil)

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{}
}

func (b *Bus[T]) Subscribe(h Handler[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus[T]) Publish(ctx context.Context, evt any) error {
	b.mu.RLock()
	handlers := append([]Handler[T]{}, b.handlers...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	e, ok := evt.(T)
	if !ok {
		return fmt.Errorf("invalid event type: %T", evt)
	}

	var errs []error
	for _, handle := range handlers {
		if err := handle(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (b *Bus[T]) Key() string {
	return reflect.TypeOf(b.evt).String()
}
