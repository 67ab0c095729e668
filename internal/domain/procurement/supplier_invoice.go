package procurement

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of a supplier invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSubmitted InvoiceStatus = "SUBMITTED"
	InvoiceStatusApproved  InvoiceStatus = "APPROVED"
	InvoiceStatusRejected  InvoiceStatus = "REJECTED"
	InvoiceStatusPosted    InvoiceStatus = "POSTED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSubmitted, InvoiceStatusApproved,
		InvoiceStatusRejected, InvoiceStatusPosted:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// APPROVED is the only path to POSTED; REJECTED is terminal.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSubmitted
	case InvoiceStatusSubmitted:
		return target == InvoiceStatusApproved || target == InvoiceStatusRejected
	case InvoiceStatusApproved:
		return target == InvoiceStatusPosted
	case InvoiceStatusRejected, InvoiceStatusPosted:
		return false // Terminal states
	}
	return false
}

// InvoiceLine represents a line of a supplier invoice
type InvoiceLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Item        string          `gorm:"type:varchar(100);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPriceHT decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "supplier_invoice_lines"
}

// InvoiceTotals carries the computed tax breakdown of a supplier invoice
type InvoiceTotals struct {
	HT  decimal.Decimal `json:"ht"`
	TVA decimal.Decimal `json:"tva"`
	TTC decimal.Decimal `json:"ttc"`
	Due decimal.Decimal `json:"due"`
}

// SupplierInvoice is the aggregate root for payable invoices. The PO link is
// optional; receipt references feed the three-way match.
type SupplierInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber     string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierReference string         `gorm:"type:varchar(100);not null"`
	POID              *uuid.UUID     `gorm:"type:uuid;index"`
	PONumber          string         `gorm:"type:varchar(50)"`
	ReceiptRefs       pq.StringArray `gorm:"type:text[]"`
	IssueDate         time.Time      `gorm:"type:timestamptz;not null"`
	DueDate           time.Time      `gorm:"type:timestamptz;not null"`
	Status            InvoiceStatus  `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Currency          string         `gorm:"type:varchar(3);not null;default:'TND'"`
	Lines             []InvoiceLine  `gorm:"foreignKey:InvoiceID;references:ID"`
	TotalPaid         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RejectionReason   string          `gorm:"type:varchar(500)"`
	SubmittedAt       *time.Time
	ApprovedAt        *time.Time
	PostedAt          *time.Time
}

// TableName returns the table name for GORM
func (SupplierInvoice) TableName() string {
	return "supplier_invoices"
}

// NewSupplierInvoice creates a supplier invoice in DRAFT status
func NewSupplierInvoice(invoiceNumber, supplierReference string, issueDate, dueDate time.Time, currency string) (*SupplierInvoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if supplierReference == "" {
		return nil, shared.NewValidationError("INVALID_SUPPLIER", "Supplier reference cannot be empty")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewValidationError("INVALID_DUE_DATE", "Due date cannot precede issue date")
	}
	if currency == "" {
		currency = "TND"
	}

	return &SupplierInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		SupplierReference: supplierReference,
		ReceiptRefs:       pq.StringArray{},
		IssueDate:         issueDate,
		DueDate:           dueDate,
		Status:            InvoiceStatusDraft,
		Currency:          currency,
		Lines:             make([]InvoiceLine, 0),
		TotalPaid:         decimal.Zero,
	}, nil
}

// LinkPurchaseOrder attaches the optional PO reference. Only allowed in DRAFT.
func (i *SupplierInvoice) LinkPurchaseOrder(po *PurchaseOrder) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewPreconditionError("INVALID_STATE", "Cannot link a purchase order to a submitted invoice")
	}
	if po == nil {
		return shared.NewValidationError("MISSING_PO", "Purchase order cannot be nil")
	}

	i.POID = &po.ID
	i.PONumber = po.PONumber
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// AddReceiptRef records a goods receipt reference. Only allowed in DRAFT.
func (i *SupplierInvoice) AddReceiptRef(grNumber string) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewPreconditionError("INVALID_STATE", "Cannot attach receipts to a submitted invoice")
	}
	if grNumber == "" {
		return shared.NewValidationError("INVALID_GR_NUMBER", "Receipt number cannot be empty")
	}
	for _, ref := range i.ReceiptRefs {
		if ref == grNumber {
			return nil
		}
	}

	i.ReceiptRefs = append(i.ReceiptRefs, grNumber)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// AddLine adds an invoice line. Only allowed in DRAFT.
func (i *SupplierInvoice) AddLine(item string, quantity, unitPriceHT, taxRate decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewPreconditionError("INVALID_STATE", "Cannot add lines to a submitted invoice")
	}
	if item == "" {
		return shared.NewValidationError("INVALID_ITEM", "Item cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPriceHT.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() {
		return shared.NewValidationError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	now := time.Now()
	i.Lines = append(i.Lines, InvoiceLine{
		ID:          uuid.New(),
		InvoiceID:   i.ID,
		Item:        item,
		Quantity:    quantity,
		UnitPriceHT: unitPriceHT,
		TaxRate:     taxRate,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	i.UpdatedAt = now
	i.IncrementVersion()

	return nil
}

// Submit transitions DRAFT -> SUBMITTED. Requires at least one line.
func (i *SupplierInvoice) Submit() error {
	if !i.Status.CanTransitionTo(InvoiceStatusSubmitted) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot submit invoice in %s status", i.Status))
	}
	if len(i.Lines) == 0 {
		return shared.NewValidationError("NO_LINES", "Cannot submit an invoice without lines")
	}

	now := time.Now()
	i.Status = InvoiceStatusSubmitted
	i.SubmittedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	return nil
}

// Approve transitions SUBMITTED -> APPROVED. The match verdict is advisory;
// approval is the caller's decision.
func (i *SupplierInvoice) Approve() error {
	if !i.Status.CanTransitionTo(InvoiceStatusApproved) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot approve invoice in %s status", i.Status))
	}

	now := time.Now()
	i.Status = InvoiceStatusApproved
	i.ApprovedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceApprovedEvent(i))

	return nil
}

// Reject transitions SUBMITTED -> REJECTED with a mandatory reason. Terminal.
func (i *SupplierInvoice) Reject(reason string) error {
	if !i.Status.CanTransitionTo(InvoiceStatusRejected) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot reject invoice in %s status", i.Status))
	}
	if reason == "" {
		return shared.NewValidationError("MISSING_REASON", "Rejection requires a reason")
	}

	i.Status = InvoiceStatusRejected
	i.RejectionReason = reason
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Post transitions APPROVED -> POSTED, the only path to posting
func (i *SupplierInvoice) Post() error {
	if !i.Status.CanTransitionTo(InvoiceStatusPosted) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot post invoice in %s status", i.Status))
	}

	now := time.Now()
	i.Status = InvoiceStatusPosted
	i.PostedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePostedEvent(i))

	return nil
}

// Totals computes HT, TVA, TTC and the remaining due
func (i *SupplierInvoice) Totals() InvoiceTotals {
	ht := decimal.Zero
	tva := decimal.Zero
	for _, line := range i.Lines {
		lineHT := line.Quantity.Mul(line.UnitPriceHT)
		ht = ht.Add(lineHT)
		tva = tva.Add(lineHT.Mul(line.TaxRate))
	}
	ttc := ht.Add(tva)

	due := ttc.Sub(i.TotalPaid)
	if due.IsNegative() {
		due = decimal.Zero
	}

	return InvoiceTotals{HT: ht, TVA: tva, TTC: ttc, Due: due}
}

// RecordPayment applies a payment, clamped to the remaining due, and returns
// the amount actually applied. TotalPaid never exceeds TTC.
func (i *SupplierInvoice) RecordPayment(requested decimal.Decimal) (decimal.Decimal, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	applied := decimal.Min(requested, i.Totals().Due)
	if applied.IsZero() {
		return decimal.Zero, nil
	}

	i.TotalPaid = i.TotalPaid.Add(applied)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaymentRecordedEvent(i, applied))

	return applied, nil
}

// InvoicedByItem returns invoiced quantities summed per item key
func (i *SupplierInvoice) InvoicedByItem() map[string]decimal.Decimal {
	invoiced := make(map[string]decimal.Decimal, len(i.Lines))
	for _, line := range i.Lines {
		invoiced[line.Item] = invoiced[line.Item].Add(line.Quantity)
	}
	return invoiced
}
