package fulfillment

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a sales order. The lifecycle is
// strictly linear; only forward transitions are exposed as commands.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusReserved  OrderStatus = "RESERVED"
	OrderStatusPrepared  OrderStatus = "PREPARED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusClosed    OrderStatus = "CLOSED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusConfirmed, OrderStatusReserved, OrderStatusPrepared,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusNew:
		return target == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return target == OrderStatusReserved
	case OrderStatusReserved:
		return target == OrderStatusPrepared
	case OrderStatusPrepared:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered:
		return target == OrderStatusClosed
	case OrderStatusClosed:
		return false // Terminal state
	}
	return false
}

// StockState is the aggregate reservation state of an order. It is derived
// from the lines and never set directly.
type StockState string

const (
	StockStateReserved  StockState = "RESERVED"
	StockStatePartial   StockState = "PARTIAL"
	StockStateBackorder StockState = "BACKORDER"
	StockStateNone      StockState = "NONE"
)

// String returns the string representation of StockState
func (s StockState) String() string {
	return string(s)
}

// OrderLine represents a line item of a sales order. ReservedQty and
// BackorderQty are populated by the allocation step; AvailableQty is the
// ledger snapshot observed at allocation time.
type OrderLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductReference string          `gorm:"type:varchar(50);not null"`
	ProductName      string          `gorm:"type:varchar(255);not null"`
	OrderedQty       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AvailableQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQty      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BackorderQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "sales_order_lines"
}

// NewOrderLine creates a new order line
func NewOrderLine(orderID, productID uuid.UUID, productReference, productName string, orderedQty, unitPrice decimal.Decimal) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productReference == "" {
		return nil, shared.NewValidationError("INVALID_PRODUCT_REFERENCE", "Product reference cannot be empty")
	}
	if orderedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderLine{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		ProductReference: productReference,
		ProductName:      productName,
		OrderedQty:       orderedQty,
		UnitPrice:        unitPrice,
		AvailableQty:     decimal.Zero,
		ReservedQty:      decimal.Zero,
		BackorderQty:     decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Allocate reserves as much of the ordered quantity as the available figure
// permits and places the remainder on backorder. Maintains the invariant
// reserved + backorder == ordered.
func (l *OrderLine) Allocate(available decimal.Decimal) {
	if available.IsNegative() {
		available = decimal.Zero
	}
	reserved := decimal.Min(l.OrderedQty, available)

	l.AvailableQty = available
	l.ReservedQty = reserved
	l.BackorderQty = l.OrderedQty.Sub(reserved)
	l.UpdatedAt = time.Now()
}

// DeriveStockState computes the aggregate stock state from order lines:
// NONE if the total quantity is zero; BACKORDER if everything is on
// backorder; PARTIAL if some of it is; RESERVED if everything is reserved.
func DeriveStockState(lines []OrderLine) StockState {
	total := decimal.Zero
	reserved := decimal.Zero
	backorder := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.OrderedQty)
		reserved = reserved.Add(line.ReservedQty)
		backorder = backorder.Add(line.BackorderQty)
	}

	switch {
	case total.IsZero():
		return StockStateNone
	case backorder.Equal(total):
		return StockStateBackorder
	case backorder.GreaterThan(decimal.Zero) && backorder.LessThan(total):
		return StockStatePartial
	case reserved.Equal(total):
		return StockStateReserved
	default:
		return StockStateNone
	}
}

// SalesOrder represents a customer order and is the aggregate root for the
// fulfillment lifecycle
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string      `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName string      `gorm:"type:varchar(255);not null"`
	PromisedDate time.Time   `gorm:"type:timestamptz;not null"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'NEW'"`
	StockState   StockState  `gorm:"type:varchar(20);not null;default:'NONE'"`
	Lines        []OrderLine `gorm:"foreignKey:OrderID;references:ID"`
	ConfirmedAt  *time.Time
	ReservedAt   *time.Time
	PreparedAt   *time.Time
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	ClosedAt     *time.Time
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a new sales order in NEW status
func NewSalesOrder(orderNumber, customerName string, promisedDate time.Time) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerName:      customerName,
		PromisedDate:      promisedDate,
		Status:            OrderStatusNew,
		StockState:        StockStateNone,
		Lines:             make([]OrderLine, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddLine adds a line item to the order. Only allowed in NEW status.
func (o *SalesOrder) AddLine(productID uuid.UUID, productReference, productName string, orderedQty, unitPrice decimal.Decimal) error {
	if o.Status != OrderStatusNew {
		return shared.NewPreconditionError("INVALID_STATE", "Cannot add lines to an order that left NEW status")
	}
	for _, line := range o.Lines {
		if line.ProductID == productID {
			return shared.NewValidationError("DUPLICATE_PRODUCT", "Product already exists in order")
		}
	}

	line, err := NewOrderLine(o.ID, productID, productReference, productName, orderedQty, unitPrice)
	if err != nil {
		return err
	}

	o.Lines = append(o.Lines, *line)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Reschedule updates the promised date. Allowed until the order ships.
func (o *SalesOrder) Reschedule(promisedDate time.Time) error {
	switch o.Status {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusClosed:
		return shared.NewPreconditionError("INVALID_STATE", "Cannot reschedule an order that already shipped")
	}

	o.PromisedDate = promisedDate
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Confirm transitions NEW -> CONFIRMED. Requires at least one line.
func (o *SalesOrder) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewValidationError("NO_LINES", "Cannot confirm an order without lines")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// ApplyAllocation writes per-line reservation figures (product reference ->
// available quantity observed) and transitions CONFIRMED -> RESERVED,
// recomputing the derived stock state.
func (o *SalesOrder) ApplyAllocation(availability map[string]decimal.Decimal) error {
	if !o.Status.CanTransitionTo(OrderStatusReserved) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot reserve order in %s status", o.Status))
	}

	remaining := make(map[string]decimal.Decimal, len(availability))
	for ref, qty := range availability {
		remaining[ref] = qty
	}
	for i := range o.Lines {
		available := remaining[o.Lines[i].ProductReference]
		o.Lines[i].Allocate(available)
		remaining[o.Lines[i].ProductReference] = available.Sub(o.Lines[i].ReservedQty)
	}

	now := time.Now()
	o.Status = OrderStatusReserved
	o.ReservedAt = &now
	o.StockState = DeriveStockState(o.Lines)
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderReservedEvent(o))

	return nil
}

// MarkPrepared transitions RESERVED -> PREPARED
func (o *SalesOrder) MarkPrepared() error {
	if !o.Status.CanTransitionTo(OrderStatusPrepared) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot prepare order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusPrepared
	o.PreparedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Ship transitions PREPARED -> SHIPPED. Invoked as part of shipment creation;
// the two mutations form one atomic unit of work.
func (o *SalesOrder) Ship() error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot ship order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// MarkDelivered transitions SHIPPED -> DELIVERED. Also invoked by shipment
// tracking when the carrier confirms delivery.
func (o *SalesOrder) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Close transitions DELIVERED -> CLOSED
func (o *SalesOrder) Close() error {
	if !o.Status.CanTransitionTo(OrderStatusClosed) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot close order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusClosed
	o.ClosedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// TotalQuantity returns the sum of ordered quantities
func (o *SalesOrder) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.OrderedQty)
	}
	return total
}

// TotalAmount returns the sum of line amounts
func (o *SalesOrder) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.OrderedQty.Mul(line.UnitPrice))
	}
	return total
}

// IsDelivered returns true if the order reached DELIVERED or CLOSED
func (o *SalesOrder) IsDelivered() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusClosed
}

// LineByReference returns the line for a product reference, or nil
func (o *SalesOrder) LineByReference(productReference string) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ProductReference == productReference {
			return &o.Lines[i]
		}
	}
	return nil
}
