package procurement

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// POStatus represents the status of a purchase order
type POStatus string

const (
	POStatusDraft             POStatus = "DRAFT"
	POStatusValidated         POStatus = "VALIDATED"
	POStatusSent              POStatus = "SENT"
	POStatusPartiallyReceived POStatus = "PARTIALLY_RECEIVED"
	POStatusReceived          POStatus = "RECEIVED"
	POStatusClosed            POStatus = "CLOSED"
)

// IsValid checks if the status is a valid POStatus
func (s POStatus) IsValid() bool {
	switch s {
	case POStatusDraft, POStatusValidated, POStatusSent, POStatusPartiallyReceived,
		POStatusReceived, POStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of POStatus
func (s POStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s POStatus) CanTransitionTo(target POStatus) bool {
	switch s {
	case POStatusDraft:
		return target == POStatusValidated
	case POStatusValidated:
		return target == POStatusSent
	case POStatusSent:
		return target == POStatusPartiallyReceived || target == POStatusReceived
	case POStatusPartiallyReceived:
		return target == POStatusReceived || target == POStatusClosed
	case POStatusReceived:
		return target == POStatusClosed
	case POStatusClosed:
		return false // Terminal state
	}
	return false
}

// POLine represents a line item of a purchase order
type POLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	POID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Item        string          `gorm:"type:varchar(100);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	UnitPriceHT decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (POLine) TableName() string {
	return "purchase_order_lines"
}

// NewPOLine creates a new purchase order line
func NewPOLine(poID uuid.UUID, item string, quantity decimal.Decimal, unit string, unitPriceHT, taxRate, discount decimal.Decimal) (*POLine, error) {
	if item == "" {
		return nil, shared.NewValidationError("INVALID_ITEM", "Item cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPriceHT.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewValidationError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	now := time.Now()
	return &POLine{
		ID:          uuid.New(),
		POID:        poID,
		Item:        item,
		Quantity:    quantity,
		Unit:        unit,
		UnitPriceHT: unitPriceHT,
		TaxRate:     taxRate,
		Discount:    discount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// LineTotal returns qty x price net of discount
func (l *POLine) LineTotal() decimal.Decimal {
	gross := l.Quantity.Mul(l.UnitPriceHT)
	return gross.Sub(gross.Mul(l.Discount))
}

// PurchaseOrder is the aggregate root for the procurement chain
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber          string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierReference string    `gorm:"type:varchar(100);not null"`
	Status            POStatus  `gorm:"type:varchar(30);not null;default:'DRAFT'"`
	ExpectedDelivery  time.Time `gorm:"type:timestamptz"`
	Currency          string    `gorm:"type:varchar(3);not null;default:'TND'"`
	Lines             []POLine  `gorm:"foreignKey:POID;references:ID"`
	ValidatedAt       *time.Time
	SentAt            *time.Time
	ReceivedAt        *time.Time
	ClosedAt          *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in DRAFT status
func NewPurchaseOrder(poNumber, supplierReference string, expectedDelivery time.Time, currency string) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewValidationError("INVALID_PO_NUMBER", "PO number cannot be empty")
	}
	if supplierReference == "" {
		return nil, shared.NewValidationError("INVALID_SUPPLIER", "Supplier reference cannot be empty")
	}
	if currency == "" {
		currency = "TND"
	}

	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          poNumber,
		SupplierReference: supplierReference,
		Status:            POStatusDraft,
		ExpectedDelivery:  expectedDelivery,
		Currency:          currency,
		Lines:             make([]POLine, 0),
	}

	po.AddDomainEvent(NewPOCreatedEvent(po))

	return po, nil
}

// AddLine adds a line item. Only allowed in DRAFT status.
func (p *PurchaseOrder) AddLine(item string, quantity decimal.Decimal, unit string, unitPriceHT, taxRate, discount decimal.Decimal) error {
	if p.Status != POStatusDraft {
		return shared.NewPreconditionError("INVALID_STATE", "Cannot add lines to a purchase order that left DRAFT status")
	}

	line, err := NewPOLine(p.ID, item, quantity, unit, unitPriceHT, taxRate, discount)
	if err != nil {
		return err
	}

	p.Lines = append(p.Lines, *line)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdateDetails patches header fields. Only allowed in DRAFT status.
func (p *PurchaseOrder) UpdateDetails(supplierReference string, expectedDelivery time.Time, currency string) error {
	if p.Status != POStatusDraft {
		return shared.NewPreconditionError("INVALID_STATE", "Cannot update a purchase order that left DRAFT status")
	}
	if supplierReference != "" {
		p.SupplierReference = supplierReference
	}
	if !expectedDelivery.IsZero() {
		p.ExpectedDelivery = expectedDelivery
	}
	if currency != "" {
		p.Currency = currency
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Validate transitions DRAFT -> VALIDATED. Requires at least one line.
func (p *PurchaseOrder) Validate() error {
	if !p.Status.CanTransitionTo(POStatusValidated) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot validate purchase order in %s status", p.Status))
	}
	if len(p.Lines) == 0 {
		return shared.NewValidationError("NO_LINES", "Cannot validate a purchase order without lines")
	}

	now := time.Now()
	p.Status = POStatusValidated
	p.ValidatedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// MarkSent transitions VALIDATED -> SENT
func (p *PurchaseOrder) MarkSent() error {
	if !p.Status.CanTransitionTo(POStatusSent) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot send purchase order in %s status", p.Status))
	}

	now := time.Now()
	p.Status = POStatusSent
	p.SentAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// MarkReceiptInProgress flags the PO as partially received the moment a goods
// receipt is created against it, even for a full receipt. The upgrade to
// RECEIVED happens only when cumulative validated receipts cover every line.
func (p *PurchaseOrder) MarkReceiptInProgress() error {
	if p.Status == POStatusPartiallyReceived {
		return nil
	}
	if !p.Status.CanTransitionTo(POStatusPartiallyReceived) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot receive against a purchase order in %s status", p.Status))
	}

	p.Status = POStatusPartiallyReceived
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ApplyReceipts recomputes the receiving status from cumulative received
// quantities per item (summed over validated receipts). Upgrades to RECEIVED
// iff every line's cumulative received quantity covers the ordered quantity.
func (p *PurchaseOrder) ApplyReceipts(receivedByItem map[string]decimal.Decimal) error {
	switch p.Status {
	case POStatusPartiallyReceived, POStatusSent:
	default:
		return shared.NewPreconditionError("INVALID_STATE", fmt.Sprintf("Cannot recompute receipts for a purchase order in %s status", p.Status))
	}

	ordered := make(map[string]decimal.Decimal, len(p.Lines))
	for _, line := range p.Lines {
		ordered[line.Item] = ordered[line.Item].Add(line.Quantity)
	}

	covered := true
	for item, qty := range ordered {
		if receivedByItem[item].LessThan(qty) {
			covered = false
			break
		}
	}

	now := time.Now()
	if covered {
		p.Status = POStatusReceived
		p.ReceivedAt = &now
		p.AddDomainEvent(NewPOReceivedEvent(p))
	} else {
		p.Status = POStatusPartiallyReceived
	}
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Close transitions RECEIVED or PARTIALLY_RECEIVED -> CLOSED
func (p *PurchaseOrder) Close() error {
	if !p.Status.CanTransitionTo(POStatusClosed) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot close purchase order in %s status", p.Status))
	}

	now := time.Now()
	p.Status = POStatusClosed
	p.ClosedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// TotalHT returns the sum of line totals net of discount
func (p *PurchaseOrder) TotalHT() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// OrderedByItem returns ordered quantities summed per item key
func (p *PurchaseOrder) OrderedByItem() map[string]decimal.Decimal {
	ordered := make(map[string]decimal.Decimal, len(p.Lines))
	for _, line := range p.Lines {
		ordered[line.Item] = ordered[line.Item].Add(line.Quantity)
	}
	return ordered
}

// LineByID returns the line with the given ID, or nil
func (p *PurchaseOrder) LineByID(lineID uuid.UUID) *POLine {
	for i := range p.Lines {
		if p.Lines[i].ID == lineID {
			return &p.Lines[i]
		}
	}
	return nil
}
