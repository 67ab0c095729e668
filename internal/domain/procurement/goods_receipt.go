package procurement

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GRStatus represents the status of a goods receipt. The machine is one-way:
// DRAFT -> VALIDATED, no other edges.
type GRStatus string

const (
	GRStatusDraft     GRStatus = "DRAFT"
	GRStatusValidated GRStatus = "VALIDATED"
)

// IsValid checks if the status is a valid GRStatus
func (s GRStatus) IsValid() bool {
	return s == GRStatusDraft || s == GRStatusValidated
}

// String returns the string representation of GRStatus
func (s GRStatus) String() string {
	return string(s)
}

// ReceiptQuality is the per-line inspection outcome. It is informational: the
// PO receiving recompute counts received quantities regardless of quality, and
// disputes are carried on the receipt note fields.
type ReceiptQuality string

const (
	QualityAccepted ReceiptQuality = "ACCEPTED"
	QualityRejected ReceiptQuality = "REJECTED"
)

// IsValid checks if the quality flag is valid
func (q ReceiptQuality) IsValid() bool {
	return q == QualityAccepted || q == QualityRejected
}

// GRLine represents a line of a goods receipt, seeded from a PO line. The
// received quantity defaults to the ordered quantity and stays editable while
// the receipt is in DRAFT.
type GRLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceiptID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	POLineID    uuid.UUID       `gorm:"type:uuid;not null"`
	Item        string          `gorm:"type:varchar(100);not null"`
	OrderedQty  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQty decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quality     ReceiptQuality  `gorm:"type:varchar(20);not null;default:'ACCEPTED'"`
	Note        string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (GRLine) TableName() string {
	return "goods_receipt_lines"
}

// GoodsReceipt is the aggregate root for receiving against a purchase order
type GoodsReceipt struct {
	shared.BaseAggregateRoot
	GRNumber          string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	POID              uuid.UUID `gorm:"type:uuid;not null;index"`
	PONumber          string    `gorm:"type:varchar(50);not null"`
	SupplierReference string    `gorm:"type:varchar(100);not null"`
	Status            GRStatus  `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	ReceiptDate       time.Time `gorm:"type:timestamptz;not null"`
	Lines             []GRLine  `gorm:"foreignKey:ReceiptID;references:ID"`
	DisputeNote       string    `gorm:"type:varchar(500)"`
	ValidatedAt       *time.Time
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceipt creates a receipt in DRAFT status against a purchase order,
// seeding one line per PO line with received defaulting to ordered.
func NewGoodsReceipt(grNumber string, po *PurchaseOrder, receiptDate time.Time) (*GoodsReceipt, error) {
	if grNumber == "" {
		return nil, shared.NewValidationError("INVALID_GR_NUMBER", "Receipt number cannot be empty")
	}
	if po == nil {
		return nil, shared.NewValidationError("MISSING_PO", "A goods receipt requires a purchase order")
	}
	if len(po.Lines) == 0 {
		return nil, shared.NewValidationError("NO_LINES", "Cannot receive against a purchase order without lines")
	}

	gr := &GoodsReceipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		GRNumber:          grNumber,
		POID:              po.ID,
		PONumber:          po.PONumber,
		SupplierReference: po.SupplierReference,
		Status:            GRStatusDraft,
		ReceiptDate:       receiptDate,
		Lines:             make([]GRLine, 0, len(po.Lines)),
	}

	now := time.Now()
	for _, poLine := range po.Lines {
		gr.Lines = append(gr.Lines, GRLine{
			ID:          uuid.New(),
			ReceiptID:   gr.ID,
			POLineID:    poLine.ID,
			Item:        poLine.Item,
			OrderedQty:  poLine.Quantity,
			ReceivedQty: poLine.Quantity,
			Quality:     QualityAccepted,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	gr.AddDomainEvent(NewGRCreatedEvent(gr))

	return gr, nil
}

// UpdateLine edits the received figures of one line. Only allowed in DRAFT.
func (g *GoodsReceipt) UpdateLine(poLineID uuid.UUID, receivedQty decimal.Decimal, quality ReceiptQuality, note string) error {
	if g.Status != GRStatusDraft {
		return shared.NewPreconditionError("INVALID_STATE", "Cannot edit a validated goods receipt")
	}
	if receivedQty.IsNegative() {
		return shared.NewValidationError("INVALID_QUANTITY", "Received quantity cannot be negative")
	}
	if !quality.IsValid() {
		return shared.NewValidationError("INVALID_QUALITY", "Invalid quality flag")
	}

	for i := range g.Lines {
		if g.Lines[i].POLineID == poLineID {
			g.Lines[i].ReceivedQty = receivedQty
			g.Lines[i].Quality = quality
			g.Lines[i].Note = note
			g.Lines[i].UpdatedAt = time.Now()
			g.UpdatedAt = time.Now()
			g.IncrementVersion()
			return nil
		}
	}

	return shared.NewNotFoundError("LINE_NOT_FOUND", fmt.Sprintf("No receipt line for PO line %s", poLineID))
}

// SetDisputeNote records a dispute on the receipt. Only allowed in DRAFT.
func (g *GoodsReceipt) SetDisputeNote(note string) error {
	if g.Status != GRStatusDraft {
		return shared.NewPreconditionError("INVALID_STATE", "Cannot edit a validated goods receipt")
	}

	g.DisputeNote = note
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// Validate transitions DRAFT -> VALIDATED. Terminal and one-way: validated
// receipts feed the PO receiving recompute and can no longer be edited.
func (g *GoodsReceipt) Validate() error {
	if g.Status != GRStatusDraft {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot validate goods receipt in %s status", g.Status))
	}

	now := time.Now()
	g.Status = GRStatusValidated
	g.ValidatedAt = &now
	g.UpdatedAt = now
	g.IncrementVersion()

	g.AddDomainEvent(NewGRValidatedEvent(g))

	return nil
}

// ReceivedByItem returns received quantities summed per item key
func (g *GoodsReceipt) ReceivedByItem() map[string]decimal.Decimal {
	received := make(map[string]decimal.Decimal, len(g.Lines))
	for _, line := range g.Lines {
		received[line.Item] = received[line.Item].Add(line.ReceivedQty)
	}
	return received
}

// CumulativeReceived sums received quantities per item over a set of receipts
func CumulativeReceived(receipts []GoodsReceipt) map[string]decimal.Decimal {
	total := make(map[string]decimal.Decimal)
	for _, gr := range receipts {
		for item, qty := range gr.ReceivedByItem() {
			total[item] = total[item].Add(qty)
		}
	}
	return total
}
