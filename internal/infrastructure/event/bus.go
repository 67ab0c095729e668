package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/erp/ledger/internal/domain/shared"
)

// InMemoryEventBus delivers domain events to subscribed handlers
// synchronously, in the caller's goroutine. A failing handler is
// logged and skipped so the remaining handlers still run.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewInMemoryEventBus builds a bus with an empty handler registry.
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish delivers each event to every matching handler. Handler
// errors never propagate to the publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		for _, handler := range b.registry.GetHandlers(evt.EventType()) {
			if err := b.deliver(ctx, handler, evt); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. With no explicit eventTypes the
// handler's own EventTypes() is consulted; a nil result subscribes it
// to every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe drops a handler from every event type.
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start marks the bus as running.
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop waits for in-flight deliveries and marks the bus stopped.
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.wg.Wait()
	b.logger.Info("event bus stopped")
	return nil
}

// deliver invokes a single handler, converting a panic into an error
// so one misbehaving subscriber cannot take down the publisher.
func (b *InMemoryEventBus) deliver(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return handler.Handle(ctx, evt)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
