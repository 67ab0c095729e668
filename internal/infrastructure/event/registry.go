package event

import (
	"sync"

	"github.com/erp/ledger/internal/domain/shared"
)

// HandlerRegistry maps event types to their subscribed handlers.
// Handlers registered without event types go into the wildcard set
// and receive every published event.
type HandlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		byType: make(map[string][]shared.EventHandler),
	}
}

// Register subscribes a handler to the given event types, or to all
// events when none are given.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.wildcard = append(r.wildcard, handler)
		return
	}

	for _, eventType := range eventTypes {
		r.byType[eventType] = append(r.byType[eventType], handler)
	}
}

// Unregister removes a handler from the wildcard set and from every
// event type it was subscribed to.
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = withoutHandler(r.wildcard, handler)

	for eventType, handlers := range r.byType {
		r.byType[eventType] = withoutHandler(handlers, handler)
		if len(r.byType[eventType]) == 0 {
			delete(r.byType, eventType)
		}
	}
}

// GetHandlers returns the type-specific handlers for eventType
// followed by the wildcard handlers.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.byType[eventType]
	result := make([]shared.EventHandler, 0, len(typed)+len(r.wildcard))
	result = append(result, typed...)
	result = append(result, r.wildcard...)

	return result
}

// GetAllHandlers returns every distinct registered handler.
func (r *HandlerRegistry) GetAllHandlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[shared.EventHandler]bool)
	result := make([]shared.EventHandler, 0)

	appendUnseen := func(handlers []shared.EventHandler) {
		for _, h := range handlers {
			if !seen[h] {
				seen[h] = true
				result = append(result, h)
			}
		}
	}

	appendUnseen(r.wildcard)
	for _, handlers := range r.byType {
		appendUnseen(handlers)
	}

	return result
}

func withoutHandler(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	result := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			result = append(result, h)
		}
	}
	return result
}
