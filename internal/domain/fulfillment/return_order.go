package fulfillment

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnStatus represents the status of a return order (RMA). The lifecycle
// is strictly linear with one command per edge and no back-transitions.
type ReturnStatus string

const (
	ReturnStatusCreated   ReturnStatus = "CREATED"
	ReturnStatusReceived  ReturnStatus = "RECEIVED"
	ReturnStatusInspected ReturnStatus = "INSPECTED"
	ReturnStatusClosed    ReturnStatus = "CLOSED"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusCreated, ReturnStatusReceived, ReturnStatusInspected, ReturnStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusCreated:
		return target == ReturnStatusReceived
	case ReturnStatusReceived:
		return target == ReturnStatusInspected
	case ReturnStatusInspected:
		return target == ReturnStatusClosed
	case ReturnStatusClosed:
		return false // Terminal state
	}
	return false
}

// Next returns the single forward status, or the status itself when terminal
func (s ReturnStatus) Next() ReturnStatus {
	switch s {
	case ReturnStatusCreated:
		return ReturnStatusReceived
	case ReturnStatusReceived:
		return ReturnStatusInspected
	case ReturnStatusInspected:
		return ReturnStatusClosed
	}
	return s
}

// ReturnDecision is the disposition of a return, fixed at creation. It
// determines which external effect fires when the return closes.
type ReturnDecision string

const (
	ReturnDecisionRestock    ReturnDecision = "RESTOCK"
	ReturnDecisionDestroy    ReturnDecision = "DESTROY"
	ReturnDecisionCreditNote ReturnDecision = "CREDIT_NOTE"
)

// IsValid checks if the decision is valid
func (d ReturnDecision) IsValid() bool {
	switch d {
	case ReturnDecisionRestock, ReturnDecisionDestroy, ReturnDecisionCreditNote:
		return true
	}
	return false
}

// String returns the string representation of ReturnDecision
func (d ReturnDecision) String() string {
	return string(d)
}

// ReturnOrder represents a post-delivery return (RMA) keyed to an order and
// product pair
type ReturnOrder struct {
	shared.BaseAggregateRoot
	ReturnNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNumber      string          `gorm:"type:varchar(50);not null"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductReference string          `gorm:"type:varchar(50);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason           string          `gorm:"type:varchar(255);not null"`
	Decision         ReturnDecision  `gorm:"type:varchar(20);not null"`
	Status           ReturnStatus    `gorm:"type:varchar(20);not null;default:'CREATED'"`
	ClosedAt         *time.Time
}

// TableName returns the table name for GORM
func (ReturnOrder) TableName() string {
	return "return_orders"
}

// NewReturnOrder creates a new return order in CREATED status
func NewReturnOrder(returnNumber string, orderID uuid.UUID, orderNumber string, productID uuid.UUID, productReference string, quantity decimal.Decimal, reason string, decision ReturnDecision) (*ReturnOrder, error) {
	if returnNumber == "" {
		return nil, shared.NewValidationError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	if reason == "" {
		return nil, shared.NewValidationError("INVALID_REASON", "Return reason cannot be empty")
	}
	if !decision.IsValid() {
		return nil, shared.NewValidationError("INVALID_DECISION", "Invalid return decision")
	}

	return &ReturnOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReturnNumber:      returnNumber,
		OrderID:           orderID,
		OrderNumber:       orderNumber,
		ProductID:         productID,
		ProductReference:  productReference,
		Quantity:          quantity,
		Reason:            reason,
		Decision:          decision,
		Status:            ReturnStatusCreated,
	}, nil
}

// MarkReceived transitions CREATED -> RECEIVED
func (r *ReturnOrder) MarkReceived() error {
	return r.transitionTo(ReturnStatusReceived)
}

// MarkInspected transitions RECEIVED -> INSPECTED
func (r *ReturnOrder) MarkInspected() error {
	return r.transitionTo(ReturnStatusInspected)
}

// Close transitions INSPECTED -> CLOSED and emits the closure event carrying
// the disposition; the stock or finance effect is applied by the caller in
// the same unit of work.
func (r *ReturnOrder) Close() error {
	if err := r.transitionTo(ReturnStatusClosed); err != nil {
		return err
	}

	now := time.Now()
	r.ClosedAt = &now
	r.AddDomainEvent(NewReturnClosedEvent(r))
	if r.Decision == ReturnDecisionCreditNote {
		r.AddDomainEvent(NewCreditRequestedEvent(r))
	}

	return nil
}

func (r *ReturnOrder) transitionTo(target ReturnStatus) error {
	if !r.Status.CanTransitionTo(target) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition return from %s to %s", r.Status, target))
	}

	r.Status = target
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}
