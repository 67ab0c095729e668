package stock

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeMovementRecorded    = "MovementRecorded"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
	EventTypeStockDepleted       = "StockDepleted"
)

// ProductCreatedEvent is raised when a product enters the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductReference string `json:"product_reference"`
	ProductName      string `json:"product_name"`
	Category         string `json:"category,omitempty"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		ProductReference: p.Reference,
		ProductName:      p.Name,
		Category:         p.Category,
	}
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return EventTypeProductCreated
}

// MovementRecordedEvent is raised for every movement appended to the ledger
type MovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID       uuid.UUID       `json:"movement_id"`
	ProductReference string          `json:"product_reference"`
	MovementType     MovementType    `json:"movement_type"`
	Quantity         decimal.Decimal `json:"quantity"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	Source           MovementSource  `json:"source"`
	RefDocument      string          `json:"ref_document,omitempty"`
}

// NewMovementRecordedEvent creates a new MovementRecordedEvent
func NewMovementRecordedEvent(p *Product, m *Movement) *MovementRecordedEvent {
	return &MovementRecordedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeMovementRecorded, AggregateTypeProduct, p.ID),
		MovementID:       m.ID,
		ProductReference: m.ProductReference,
		MovementType:     m.Type,
		Quantity:         m.Quantity,
		BalanceAfter:     m.BalanceAfter,
		Source:           m.Source,
		RefDocument:      m.RefDocument,
	}
}

// EventType returns the event type name
func (e *MovementRecordedEvent) EventType() string {
	return EventTypeMovementRecorded
}

// StockBelowThresholdEvent is raised when a movement leaves the quantity on
// hand at or below the minimum threshold
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductReference string          `json:"product_reference"`
	QuantityOnHand   decimal.Decimal `json:"quantity_on_hand"`
	MinThreshold     decimal.Decimal `json:"min_threshold"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(p *Product) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeProduct, p.ID),
		ProductReference: p.Reference,
		QuantityOnHand:   p.QuantityOnHand,
		MinThreshold:     p.MinThreshold,
	}
}

// EventType returns the event type name
func (e *StockBelowThresholdEvent) EventType() string {
	return EventTypeStockBelowThreshold
}

// StockDepletedEvent is raised when a movement leaves the product out of stock
type StockDepletedEvent struct {
	shared.BaseDomainEvent
	ProductReference string `json:"product_reference"`
}

// NewStockDepletedEvent creates a new StockDepletedEvent
func NewStockDepletedEvent(p *Product) *StockDepletedEvent {
	return &StockDepletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockDepleted, AggregateTypeProduct, p.ID),
		ProductReference: p.Reference,
	}
}

// EventType returns the event type name
func (e *StockDepletedEvent) EventType() string {
	return EventTypeStockDepleted
}
