package billing

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of a sales invoice. PAID and OVERDUE are
// recomputed from the paid amount and due date; DRAFT leaves only via Send.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "DRAFT"
	InvoiceStatusSent    InvoiceStatus = "SENT"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Direction distinguishes incoming from outgoing invoices
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// TaxProfile carries the tax parameters applied to an invoice: TVA, the FODEC
// levy, the fixed timbre fiscal, and the retenue a la source withholding rate.
type TaxProfile struct {
	TVARate     decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0" json:"tva_rate"`
	FodecRate   decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0" json:"fodec_rate"`
	Timbre      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"timbre"`
	RetenueRate decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0" json:"retenue_rate"`
}

// Validate checks the profile rates
func (p TaxProfile) Validate() error {
	if p.TVARate.IsNegative() || p.FodecRate.IsNegative() || p.Timbre.IsNegative() || p.RetenueRate.IsNegative() {
		return shared.NewValidationError("INVALID_TAX_PROFILE", "Tax rates cannot be negative")
	}
	return nil
}

// InvoiceLine represents a line of a sales invoice
type InvoiceLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Label     string          `gorm:"type:varchar(255);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "sales_invoice_lines"
}

// Amount returns qty x unit price
func (l *InvoiceLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// InvoiceTotals is the computed tax breakdown of a sales invoice. Gross is the
// TTC figure; Net subtracts the retenue withholding and is the payment basis.
type InvoiceTotals struct {
	HT     decimal.Decimal `json:"ht"`
	Fodec  decimal.Decimal `json:"fodec"`
	TVA    decimal.Decimal `json:"tva"`
	Timbre decimal.Decimal `json:"timbre"`
	Gross  decimal.Decimal `json:"gross"`
	Net    decimal.Decimal `json:"net"`
	Due    decimal.Decimal `json:"due"`
}

// SalesInvoice is the aggregate root for customer-facing invoices
type SalesInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName  string          `gorm:"type:varchar(255);not null"`
	Direction     Direction       `gorm:"type:varchar(5);not null;default:'OUT'"`
	IssueDate     time.Time       `gorm:"type:timestamptz;not null"`
	DueDate       time.Time       `gorm:"type:timestamptz;not null"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'TND'"`
	Lines         []InvoiceLine   `gorm:"foreignKey:InvoiceID;references:ID"`
	Taxes         TaxProfile      `gorm:"embedded;embeddedPrefix:tax_"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SentAt        *time.Time
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (SalesInvoice) TableName() string {
	return "sales_invoices"
}

// NewSalesInvoice creates a sales invoice in DRAFT status
func NewSalesInvoice(invoiceNumber, customerName string, direction Direction, issueDate, dueDate time.Time, currency string, taxes TaxProfile) (*SalesInvoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("INVALID_DIRECTION", "Invalid invoice direction")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewValidationError("INVALID_DUE_DATE", "Due date cannot precede issue date")
	}
	if err := taxes.Validate(); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "TND"
	}

	inv := &SalesInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerName:      customerName,
		Direction:         direction,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		Status:            InvoiceStatusDraft,
		Currency:          currency,
		Lines:             make([]InvoiceLine, 0),
		Taxes:             taxes,
		PaidAmount:        decimal.Zero,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// AddLine adds a line. Only allowed in DRAFT.
func (i *SalesInvoice) AddLine(label string, quantity, unitPrice decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewPreconditionError("INVALID_STATE", "Cannot add lines to an invoice that left DRAFT status")
	}
	if label == "" {
		return shared.NewValidationError("INVALID_LABEL", "Line label cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	i.Lines = append(i.Lines, InvoiceLine{
		ID:        uuid.New(),
		InvoiceID: i.ID,
		Label:     label,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	})
	i.UpdatedAt = now
	i.IncrementVersion()

	return nil
}

// Totals computes the full tax breakdown:
// HT, FODEC = HT x fodec, TVA = (HT+FODEC) x tva, gross = HT+FODEC+TVA+timbre,
// net = gross - HT x retenue, due = max(0, net - paid).
func (i *SalesInvoice) Totals() InvoiceTotals {
	ht := decimal.Zero
	for _, line := range i.Lines {
		ht = ht.Add(line.Amount())
	}

	fodec := ht.Mul(i.Taxes.FodecRate)
	tva := ht.Add(fodec).Mul(i.Taxes.TVARate)
	gross := ht.Add(fodec).Add(tva).Add(i.Taxes.Timbre)
	net := gross.Sub(ht.Mul(i.Taxes.RetenueRate))

	due := net.Sub(i.PaidAmount)
	if due.IsNegative() {
		due = decimal.Zero
	}

	return InvoiceTotals{
		HT:     ht,
		Fodec:  fodec,
		TVA:    tva,
		Timbre: i.Taxes.Timbre,
		Gross:  gross,
		Net:    net,
		Due:    due,
	}
}

// Send transitions DRAFT -> SENT, the only way out of DRAFT. Requires lines.
func (i *SalesInvoice) Send(today time.Time) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot send invoice in %s status", i.Status))
	}
	if len(i.Lines) == 0 {
		return shared.NewValidationError("NO_LINES", "Cannot send an invoice without lines")
	}

	now := time.Now()
	i.Status = InvoiceStatusSent
	i.SentAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()
	i.refreshStatus(today)

	i.AddDomainEvent(NewInvoiceSentEvent(i))

	return nil
}

// RecordPayment applies a payment clamped to the remaining due and returns the
// amount actually applied. The paid amount never exceeds the net total.
func (i *SalesInvoice) RecordPayment(requested decimal.Decimal, today time.Time) (decimal.Decimal, error) {
	if i.Status == InvoiceStatusDraft {
		return decimal.Zero, shared.NewPreconditionError("INVALID_STATE", "Cannot record a payment on a draft invoice")
	}
	if requested.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	applied := decimal.Min(requested, i.Totals().Due)
	if applied.IsZero() {
		return decimal.Zero, nil
	}

	i.PaidAmount = i.PaidAmount.Add(applied)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.refreshStatus(today)

	i.AddDomainEvent(NewPaymentRecordedEvent(i, applied))

	return applied, nil
}

// ChangeDueDate moves the due date and recomputes the status
func (i *SalesInvoice) ChangeDueDate(dueDate time.Time, today time.Time) error {
	if dueDate.Before(i.IssueDate) {
		return shared.NewValidationError("INVALID_DUE_DATE", "Due date cannot precede issue date")
	}

	i.DueDate = dueDate
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.refreshStatus(today)

	return nil
}

// RefreshStatus recomputes PAID/OVERDUE/SENT against the given day. Used by
// the overdue sweep; drafts are never touched.
func (i *SalesInvoice) RefreshStatus(today time.Time) {
	before := i.Status
	i.refreshStatus(today)
	if i.Status != before {
		i.UpdatedAt = time.Now()
		i.IncrementVersion()
	}
}

// refreshStatus applies the status formula: PAID if paid covers the gross and
// the gross is positive; else OVERDUE when past due; else SENT.
func (i *SalesInvoice) refreshStatus(today time.Time) {
	if i.Status == InvoiceStatusDraft {
		return
	}

	totals := i.Totals()
	switch {
	case totals.Gross.GreaterThan(decimal.Zero) && i.PaidAmount.GreaterThanOrEqual(totals.Gross):
		if i.Status != InvoiceStatusPaid {
			now := time.Now()
			i.PaidAt = &now
			i.AddDomainEvent(NewInvoicePaidEvent(i))
		}
		i.Status = InvoiceStatusPaid
	case i.DueDate.Before(today):
		i.Status = InvoiceStatusOverdue
	default:
		i.Status = InvoiceStatusSent
	}
}

// IsSettled returns true once the remaining due reaches zero
func (i *SalesInvoice) IsSettled() bool {
	return i.Status != InvoiceStatusDraft && i.Totals().Due.IsZero()
}
