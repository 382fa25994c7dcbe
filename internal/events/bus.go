package events

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles a published event.
type Handler func(Event)

type subscription struct {
	id        string
	eventType string
	handler   Handler
}

// Bus is a synchronous, process-wide publish/subscribe registry.
// Handlers run on the publisher's goroutine in registration order.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription

	logger *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subscriptions: make(map[string][]subscription),
		logger:        logger,
	}
}

// Subscribe registers a handler for one event type and returns the
// subscription ID.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.subscriptions[eventType] = append(b.subscriptions[eventType], subscription{
		id:        id,
		eventType: eventType,
		handler:   handler,
	})
	return id
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(handler Handler) string {
	return b.Subscribe(wildcard, handler)
}

// Unsubscribe removes a subscription by ID. Returns false if it was not found.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id != id {
				continue
			}
			b.subscriptions[eventType] = append(subs[:i:i], subs[i+1:]...)
			if len(b.subscriptions[eventType]) == 0 {
				delete(b.subscriptions, eventType)
			}
			return true
		}
	}
	return false
}

// Listen subscribes handler to each of eventTypes and returns a function
// that removes all of them. The returned function is safe to call more than once.
func (b *Bus) Listen(handler Handler, eventTypes ...string) func() {
	ids := make([]string, 0, len(eventTypes))
	for _, eventType := range eventTypes {
		ids = append(ids, b.Subscribe(eventType, handler))
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, id := range ids {
				b.Unsubscribe(id)
			}
		})
	}
}

// Publish dispatches event to handlers of its type, then to wildcard handlers.
// A panicking handler is logged and does not stop delivery.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	specific := append([]subscription(nil), b.subscriptions[event.EventType()]...)
	all := append([]subscription(nil), b.subscriptions[wildcard]...)
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub, event)
	}
	for _, sub := range all {
		b.safeCall(sub, event)
	}
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.subscriptions {
		count += len(subs)
	}
	return count
}

func (b *Bus) safeCall(sub subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event", event.EventType()),
				zap.String("subscription", sub.id),
				zap.Error(fmt.Errorf("%v", r)),
				zap.Stack("stack"))
		}
	}()
	sub.handler(event)
}
