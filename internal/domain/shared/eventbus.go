package shared

import "context"

// EventHandler reacts to domain events delivered by the bus.
type EventHandler interface {
	// Handle processes a single event. Returning an error does not stop
	// delivery to other handlers.
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants. A nil or empty
	// slice subscribes the handler to every event.
	EventTypes() []string
}

// EventPublisher is the write side of the bus.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber is the registration side of the bus.
type EventSubscriber interface {
	// Subscribe registers a handler. Explicit eventTypes override the
	// handler's own EventTypes; with neither, the handler gets all events.
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes the handler from every subscription.
	Unsubscribe(handler EventHandler)
}

// EventBus wires publication and subscription together with a lifecycle.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
