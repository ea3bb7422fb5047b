// Package bus is the trainer's in-process publish/subscribe dispatcher.
//
// Delivery is synchronous: Publish returns only after every listener that was
// subscribed to the name at the time of the call has run. A listener may
// publish again; the nested publish completes before the outer one moves on
// to its next listener.
package bus

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/eartrainer/sdk/contracts"
)

// Listener receives the payload of one published event.
type Listener func(payload any)

// Bus dispatches named events to listeners in subscription order.
type Bus struct {
	logger    contracts.Logger
	mu        sync.RWMutex
	listeners map[contracts.EventName][]Listener
}

// New creates an empty bus.
func New(logger contracts.Logger) *Bus {
	return &Bus{
		logger:    logger,
		listeners: make(map[contracts.EventName][]Listener),
	}
}

// Subscribe registers fn for name. Listeners live as long as the bus.
func (b *Bus) Subscribe(name contracts.EventName, fn Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = append(b.listeners[name], fn)
}

// Publish invokes every listener currently subscribed to name.
func (b *Bus) Publish(name contracts.EventName, payload any) {
	b.mu.RLock()
	snapshot := b.listeners[name]
	b.mu.RUnlock()

	b.logger.Debug("event published",
		b.logger.Field().String("event", string(name)),
		b.logger.Field().Int("listeners", len(snapshot)))

	for _, fn := range snapshot {
		fn(payload)
	}
}

// On subscribes a listener that expects payloads of type T. Payloads of any
// other type are logged and dropped.
func On[T any](b *Bus, name contracts.EventName, fn func(T)) {
	b.Subscribe(name, func(payload any) {
		v, ok := payload.(T)
		if !ok {
			b.logger.Warn("unexpected payload type",
				b.logger.Field().String("event", string(name)),
				b.logger.Field().String("type", fmt.Sprintf("%T", payload)))
			return
		}
		fn(v)
	})
}

// OnSignal subscribes a listener that ignores the payload.
func OnSignal(b *Bus, name contracts.EventName, fn func()) {
	b.Subscribe(name, func(any) { fn() })
}
