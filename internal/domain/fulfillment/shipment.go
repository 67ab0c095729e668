package fulfillment

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// ShipmentStatus represents the status of a shipment. DELAYED is a flagged
// sibling of SHIPPED, not a forward step: a delayed shipment can resume
// transit or be delivered, nothing else.
type ShipmentStatus string

const (
	ShipmentStatusPrepared  ShipmentStatus = "PREPARED"
	ShipmentStatusShipped   ShipmentStatus = "SHIPPED"
	ShipmentStatusDelayed   ShipmentStatus = "DELAYED"
	ShipmentStatusDelivered ShipmentStatus = "DELIVERED"
)

// IsValid checks if the status is a valid ShipmentStatus
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusPrepared, ShipmentStatusShipped, ShipmentStatusDelayed, ShipmentStatusDelivered:
		return true
	}
	return false
}

// String returns the string representation of ShipmentStatus
func (s ShipmentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	switch s {
	case ShipmentStatusPrepared:
		return target == ShipmentStatusShipped
	case ShipmentStatusShipped:
		return target == ShipmentStatusDelayed || target == ShipmentStatusDelivered
	case ShipmentStatusDelayed:
		return target == ShipmentStatusShipped || target == ShipmentStatusDelivered
	case ShipmentStatusDelivered:
		return false // Terminal state
	}
	return false
}

// Shipment represents a physical outbound delivery for a sales order
type Shipment struct {
	shared.BaseAggregateRoot
	ShipmentNumber string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	OrderNumber    string         `gorm:"type:varchar(50);not null"`
	Transporter    string         `gorm:"type:varchar(100);not null"`
	TrackingNumber string         `gorm:"type:varchar(100)"`
	Status         ShipmentStatus `gorm:"type:varchar(20);not null;default:'PREPARED'"`
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

// TableName returns the table name for GORM
func (Shipment) TableName() string {
	return "shipments"
}

// NewShipment creates a new shipment in PREPARED status. The order-side guard
// (the order must be ready to ship) is enforced by the order aggregate inside
// the same unit of work.
func NewShipment(shipmentNumber string, orderID uuid.UUID, orderNumber, transporter, trackingNumber string) (*Shipment, error) {
	if shipmentNumber == "" {
		return nil, shared.NewValidationError("INVALID_SHIPMENT_NUMBER", "Shipment number cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if transporter == "" {
		return nil, shared.NewValidationError("INVALID_TRANSPORTER", "Transporter cannot be empty")
	}

	return &Shipment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ShipmentNumber:    shipmentNumber,
		OrderID:           orderID,
		OrderNumber:       orderNumber,
		Transporter:       transporter,
		TrackingNumber:    trackingNumber,
		Status:            ShipmentStatusPrepared,
	}, nil
}

// TransitionTo applies a status change through the transition table
func (s *Shipment) TransitionTo(target ShipmentStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", "Invalid shipment status")
	}
	if !s.Status.CanTransitionTo(target) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition shipment from %s to %s", s.Status, target))
	}

	now := time.Now()
	s.Status = target
	switch target {
	case ShipmentStatusShipped:
		if s.ShippedAt == nil {
			s.ShippedAt = &now
		}
	case ShipmentStatusDelivered:
		s.DeliveredAt = &now
		s.AddDomainEvent(NewShipmentDeliveredEvent(s))
	}
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// MarkShipped transitions PREPARED -> SHIPPED
func (s *Shipment) MarkShipped() error {
	return s.TransitionTo(ShipmentStatusShipped)
}

// MarkDelayed flags an in-transit shipment as delayed
func (s *Shipment) MarkDelayed() error {
	return s.TransitionTo(ShipmentStatusDelayed)
}

// MarkDelivered completes the shipment. The caller must deliver the order in
// the same unit of work.
func (s *Shipment) MarkDelivered() error {
	return s.TransitionTo(ShipmentStatusDelivered)
}
