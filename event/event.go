// Package event provides a minimal in-process publish/subscribe mechanism.
// Buses are typed; a Broker routes published values to the bus registered
// for their dynamic type. Publishing a type with no registered bus is a
// no-op, so emitters never depend on listeners being wired.
package event

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Publisher is the dynamic face of a typed Bus.
type Publisher interface {
	Publish(ctx context.Context, event any) error
	Key() string
}

// Broker routes events to the bus registered for their type.
type Broker struct {
	mu    sync.RWMutex
	buses map[string]Publisher
}

func NewBroker() *Broker {
	return &Broker{
		buses: make(map[string]Publisher),
	}
}

func (b *Broker) Register(bus Publisher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buses[bus.Key()] = bus
}

func (b *Broker) Publish(ctx context.Context, event any) error {
	if event == nil {
		return fmt.Errorf("event is nil")
	}

	t := reflect.TypeOf(event).String()

	b.mu.RLock()
	bus, ok := b.buses[t]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	return bus.Publish(ctx, event)
}
