// file: internal/events/events.go
package events

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Event is a domain event published on the bus.
type Event interface {
	GetEventID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetUserID() *int64
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	UserID    *int64    `json:"user_id,omitempty"`
}

func (e *BaseEvent) GetEventID() string      { return e.EventID }
func (e *BaseEvent) GetEventType() string    { return e.EventType }
func (e *BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e *BaseEvent) GetUserID() *int64       { return e.UserID }

// NewBaseEvent fills the common fields for a fresh event.
func NewBaseEvent(eventType string, userID *int64) BaseEvent {
	id, _ := uuid.NewV4()
	return BaseEvent{
		EventID:   id.String(),
		EventType: eventType,
		Timestamp: time.Now(),
		UserID:    userID,
	}
}

// Handler consumes events of a subscribed type.
type Handler func(ctx context.Context, event Event) error

// Bus is an in-process publish/subscribe bus. Handlers for an event type run
// sequentially per event; PublishAsync detaches delivery from the caller.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewBus creates an event bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for an event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

// Publish delivers the event to all handlers for its type, returning the
// first handler error.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.GetEventType()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// PublishAsync delivers the event on a new goroutine. Handler failures are
// logged and never surfaced to the publisher; a failed notification must not
// roll back the state change that raised it.
func (b *Bus) PublishAsync(event Event) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.Publish(ctx, event); err != nil {
			b.logger.Warn("Async event handler failed",
				zap.String("event_type", event.GetEventType()),
				zap.String("event_id", event.GetEventID()),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until all in-flight async deliveries complete. Used on
// shutdown and in tests.
func (b *Bus) Wait() {
	b.wg.Wait()
}
