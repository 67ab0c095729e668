package procurement

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrder   = "PurchaseOrder"
	AggregateTypeGoodsReceipt    = "GoodsReceipt"
	AggregateTypeSupplierInvoice = "SupplierInvoice"
)

// Event type constants
const (
	EventTypePOCreated              = "PurchaseOrderCreated"
	EventTypePOReceived             = "PurchaseOrderReceived"
	EventTypeGRCreated              = "GoodsReceiptCreated"
	EventTypeGRValidated            = "GoodsReceiptValidated"
	EventTypeInvoiceApproved        = "SupplierInvoiceApproved"
	EventTypeInvoicePosted          = "SupplierInvoicePosted"
	EventTypeInvoicePaymentRecorded = "SupplierInvoicePaymentRecorded"
)

// POCreatedEvent is raised when a purchase order is created
type POCreatedEvent struct {
	shared.BaseDomainEvent
	PONumber          string `json:"po_number"`
	SupplierReference string `json:"supplier_reference"`
}

// NewPOCreatedEvent creates a new POCreatedEvent
func NewPOCreatedEvent(po *PurchaseOrder) *POCreatedEvent {
	return &POCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePOCreated, AggregateTypePurchaseOrder, po.ID),
		PONumber:          po.PONumber,
		SupplierReference: po.SupplierReference,
	}
}

// EventType returns the event type name
func (e *POCreatedEvent) EventType() string {
	return EventTypePOCreated
}

// POReceivedEvent is raised when cumulative validated receipts cover the order
type POReceivedEvent struct {
	shared.BaseDomainEvent
	PONumber string `json:"po_number"`
}

// NewPOReceivedEvent creates a new POReceivedEvent
func NewPOReceivedEvent(po *PurchaseOrder) *POReceivedEvent {
	return &POReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePOReceived, AggregateTypePurchaseOrder, po.ID),
		PONumber:        po.PONumber,
	}
}

// EventType returns the event type name
func (e *POReceivedEvent) EventType() string {
	return EventTypePOReceived
}

// GRCreatedEvent is raised when a goods receipt is opened against a PO
type GRCreatedEvent struct {
	shared.BaseDomainEvent
	GRNumber string `json:"gr_number"`
	PONumber string `json:"po_number"`
}

// NewGRCreatedEvent creates a new GRCreatedEvent
func NewGRCreatedEvent(gr *GoodsReceipt) *GRCreatedEvent {
	return &GRCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGRCreated, AggregateTypeGoodsReceipt, gr.ID),
		GRNumber:        gr.GRNumber,
		PONumber:        gr.PONumber,
	}
}

// EventType returns the event type name
func (e *GRCreatedEvent) EventType() string {
	return EventTypeGRCreated
}

// GRValidatedEvent is raised when a goods receipt is validated
type GRValidatedEvent struct {
	shared.BaseDomainEvent
	GRNumber string `json:"gr_number"`
	PONumber string `json:"po_number"`
}

// NewGRValidatedEvent creates a new GRValidatedEvent
func NewGRValidatedEvent(gr *GoodsReceipt) *GRValidatedEvent {
	return &GRValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGRValidated, AggregateTypeGoodsReceipt, gr.ID),
		GRNumber:        gr.GRNumber,
		PONumber:        gr.PONumber,
	}
}

// EventType returns the event type name
func (e *GRValidatedEvent) EventType() string {
	return EventTypeGRValidated
}

// InvoiceApprovedEvent is raised when a supplier invoice is approved
type InvoiceApprovedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewInvoiceApprovedEvent creates a new InvoiceApprovedEvent
func NewInvoiceApprovedEvent(inv *SupplierInvoice) *InvoiceApprovedEvent {
	return &InvoiceApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceApproved, AggregateTypeSupplierInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
	}
}

// EventType returns the event type name
func (e *InvoiceApprovedEvent) EventType() string {
	return EventTypeInvoiceApproved
}

// InvoicePostedEvent is raised when a supplier invoice is posted
type InvoicePostedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewInvoicePostedEvent creates a new InvoicePostedEvent
func NewInvoicePostedEvent(inv *SupplierInvoice) *InvoicePostedEvent {
	return &InvoicePostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePosted, AggregateTypeSupplierInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
	}
}

// EventType returns the event type name
func (e *InvoicePostedEvent) EventType() string {
	return EventTypeInvoicePosted
}

// InvoicePaymentRecordedEvent is raised when a payment is applied
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Applied       decimal.Decimal `json:"applied"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(inv *SupplierInvoice, applied decimal.Decimal) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, AggregateTypeSupplierInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		Applied:         applied,
		TotalPaid:       inv.TotalPaid,
	}
}

// EventType returns the event type name
func (e *InvoicePaymentRecordedEvent) EventType() string {
	return EventTypeInvoicePaymentRecorded
}
