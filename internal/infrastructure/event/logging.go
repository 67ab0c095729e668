package event

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingHandler writes an audit log line for every domain event published
// on the bus. It subscribes to all event types.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle logs the event metadata
func (h *LoggingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice so the handler receives all events
func (h *LoggingHandler) EventTypes() []string {
	return nil
}
