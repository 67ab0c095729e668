package billing

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeSalesInvoice is the aggregate type for sales invoices
const AggregateTypeSalesInvoice = "SalesInvoice"

// Event type constants
const (
	EventTypeInvoiceCreated  = "SalesInvoiceCreated"
	EventTypeInvoiceSent     = "SalesInvoiceSent"
	EventTypeInvoicePaid     = "SalesInvoicePaid"
	EventTypePaymentRecorded = "SalesInvoicePaymentRecorded"
)

// InvoiceCreatedEvent is raised when a sales invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoice_number"`
	CustomerName  string    `json:"customer_name"`
	Direction     Direction `json:"direction"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *SalesInvoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeSalesInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerName:    inv.CustomerName,
		Direction:       inv.Direction,
	}
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// InvoiceSentEvent is raised when an invoice leaves DRAFT
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(inv *SalesInvoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, AggregateTypeSalesInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
	}
}

// EventType returns the event type name
func (e *InvoiceSentEvent) EventType() string {
	return EventTypeInvoiceSent
}

// InvoicePaidEvent is raised when the paid amount covers the gross total
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *SalesInvoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeSalesInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		PaidAmount:      inv.PaidAmount,
	}
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return EventTypeInvoicePaid
}

// PaymentRecordedEvent is raised for every applied payment
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Applied       decimal.Decimal `json:"applied"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(inv *SalesInvoice, applied decimal.Decimal) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeSalesInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		Applied:         applied,
		PaidAmount:      inv.PaidAmount,
	}
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return EventTypePaymentRecorded
}
