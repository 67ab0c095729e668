package counting

import (
	"github.com/erp/ledger/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCountSession = "CountSession"

// Event type constants
const (
	EventTypeSessionValidated = "CountSessionValidated"
)

// SessionValidatedEvent is raised when a count session is validated and its
// adjustments are handed to the stock ledger
type SessionValidatedEvent struct {
	shared.BaseDomainEvent
	SessionNumber   string       `json:"session_number"`
	Category        string       `json:"category,omitempty"`
	AdjustmentCount int          `json:"adjustment_count"`
	Adjustments     []Adjustment `json:"adjustments"`
}

// NewSessionValidatedEvent creates a new SessionValidatedEvent
func NewSessionValidatedEvent(s *CountSession, adjustments []Adjustment) *SessionValidatedEvent {
	return &SessionValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionValidated, AggregateTypeCountSession, s.ID),
		SessionNumber:   s.SessionNumber,
		Category:        s.Category,
		AdjustmentCount: len(adjustments),
		Adjustments:     adjustments,
	}
}

// EventType returns the event type name
func (e *SessionValidatedEvent) EventType() string {
	return EventTypeSessionValidated
}
