package fulfillment

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSalesOrder  = "SalesOrder"
	AggregateTypeShipment    = "Shipment"
	AggregateTypeReturnOrder = "ReturnOrder"
)

// Event type constants
const (
	EventTypeOrderCreated      = "SalesOrderCreated"
	EventTypeOrderConfirmed    = "SalesOrderConfirmed"
	EventTypeOrderReserved     = "SalesOrderReserved"
	EventTypeOrderShipped      = "SalesOrderShipped"
	EventTypeOrderDelivered    = "SalesOrderDelivered"
	EventTypeShipmentDelivered = "ShipmentDelivered"
	EventTypeReturnClosed      = "ReturnClosed"
	EventTypeCreditRequested   = "CreditRequested"
)

// OrderCreatedEvent is raised when a sales order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string `json:"order_number"`
	CustomerName string `json:"customer_name"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *SalesOrder) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeSalesOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderConfirmedEvent is raised when a sales order is confirmed
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(o *SalesOrder) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeSalesOrder, o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// EventType returns the event type name
func (e *OrderConfirmedEvent) EventType() string {
	return EventTypeOrderConfirmed
}

// OrderReservedEvent is raised when allocation runs and the order is reserved
type OrderReservedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string     `json:"order_number"`
	StockState  StockState `json:"stock_state"`
}

// NewOrderReservedEvent creates a new OrderReservedEvent
func NewOrderReservedEvent(o *SalesOrder) *OrderReservedEvent {
	return &OrderReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReserved, AggregateTypeSalesOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		StockState:      o.StockState,
	}
}

// EventType returns the event type name
func (e *OrderReservedEvent) EventType() string {
	return EventTypeOrderReserved
}

// OrderShippedEvent is raised when a shipment is created for the order
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *SalesOrder) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeSalesOrder, o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// EventType returns the event type name
func (e *OrderShippedEvent) EventType() string {
	return EventTypeOrderShipped
}

// OrderDeliveredEvent is raised when the order is delivered
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *SalesOrder) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeSalesOrder, o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// EventType returns the event type name
func (e *OrderDeliveredEvent) EventType() string {
	return EventTypeOrderDelivered
}

// ShipmentDeliveredEvent is raised when a shipment reaches DELIVERED
type ShipmentDeliveredEvent struct {
	shared.BaseDomainEvent
	ShipmentNumber string    `json:"shipment_number"`
	OrderID        uuid.UUID `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
}

// NewShipmentDeliveredEvent creates a new ShipmentDeliveredEvent
func NewShipmentDeliveredEvent(s *Shipment) *ShipmentDeliveredEvent {
	return &ShipmentDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentDelivered, AggregateTypeShipment, s.ID),
		ShipmentNumber:  s.ShipmentNumber,
		OrderID:         s.OrderID,
		OrderNumber:     s.OrderNumber,
	}
}

// EventType returns the event type name
func (e *ShipmentDeliveredEvent) EventType() string {
	return EventTypeShipmentDelivered
}

// ReturnClosedEvent is raised when a return order closes, carrying the
// disposition so downstream effects can fire
type ReturnClosedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber     string          `json:"return_number"`
	OrderNumber      string          `json:"order_number"`
	ProductReference string          `json:"product_reference"`
	Quantity         decimal.Decimal `json:"quantity"`
	Decision         ReturnDecision  `json:"decision"`
}

// NewReturnClosedEvent creates a new ReturnClosedEvent
func NewReturnClosedEvent(r *ReturnOrder) *ReturnClosedEvent {
	return &ReturnClosedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeReturnClosed, AggregateTypeReturnOrder, r.ID),
		ReturnNumber:     r.ReturnNumber,
		OrderNumber:      r.OrderNumber,
		ProductReference: r.ProductReference,
		Quantity:         r.Quantity,
		Decision:         r.Decision,
	}
}

// EventType returns the event type name
func (e *ReturnClosedEvent) EventType() string {
	return EventTypeReturnClosed
}

// CreditRequestedEvent is raised when a return closes with a credit-note
// disposition; the credit itself is issued by finance, outside this core
type CreditRequestedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string          `json:"return_number"`
	OrderNumber  string          `json:"order_number"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewCreditRequestedEvent creates a new CreditRequestedEvent
func NewCreditRequestedEvent(r *ReturnOrder) *CreditRequestedEvent {
	return &CreditRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditRequested, AggregateTypeReturnOrder, r.ID),
		ReturnNumber:    r.ReturnNumber,
		OrderNumber:     r.OrderNumber,
		Quantity:        r.Quantity,
	}
}

// EventType returns the event type name
func (e *CreditRequestedEvent) EventType() string {
	return EventTypeCreditRequested
}
