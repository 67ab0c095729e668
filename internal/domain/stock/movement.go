package stock

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType represents the type of a stock movement
type MovementType string

const (
	// MovementTypeIn represents stock entering the ledger (receiving, restock)
	MovementTypeIn MovementType = "IN"
	// MovementTypeOut represents stock leaving the ledger (shipment, consumption)
	MovementTypeOut MovementType = "OUT"
	// MovementTypeAdjustment represents a signed correction (inventory count, damage)
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// MovementSource identifies the process that produced a movement
type MovementSource string

const (
	MovementSourceReceiving MovementSource = "Receiving"
	MovementSourceShipment  MovementSource = "Shipment"
	MovementSourceReturn    MovementSource = "Return"
	MovementSourceInventory MovementSource = "Inventory"
	MovementSourceManual    MovementSource = "Manual"
)

// Movement is an immutable record of a stock mutation.
// Once recorded it is never modified; corrections are new movements.
// Quantity carries the unsigned magnitude for IN/OUT and the signed
// delta for ADJUSTMENT.
type Movement struct {
	shared.BaseEntity
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_product"`
	ProductReference string          `gorm:"type:varchar(50);not null;index:idx_movement_product_ref"`
	Type             MovementType    `gorm:"type:varchar(20);not null;index:idx_movement_type"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Source           MovementSource  `gorm:"type:varchar(30);not null;index:idx_movement_source"`
	RefDocument      string          `gorm:"type:varchar(100)"`
	OccurredOn       time.Time       `gorm:"type:timestamptz;not null;index:idx_movement_occurred"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "stock_movements"
}

// NewMovement creates a new movement against the given product and records
// the before/after balances. The product itself is not touched here; callers
// apply the movement via Product methods and pass the resulting balances.
func NewMovement(product *Product, movementType MovementType, quantity decimal.Decimal, balanceBefore, balanceAfter decimal.Decimal, source MovementSource, refDocument string) (*Movement, error) {
	if product == nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if source == "" {
		return nil, shared.NewValidationError("INVALID_SOURCE", "Movement source cannot be empty")
	}
	switch movementType {
	case MovementTypeIn, MovementTypeOut:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive for IN and OUT movements")
		}
	case MovementTypeAdjustment:
		if quantity.IsZero() {
			return nil, shared.NewValidationError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
		}
	}

	return &Movement{
		BaseEntity:       shared.NewBaseEntity(),
		ProductID:        product.ID,
		ProductReference: product.Reference,
		Type:             movementType,
		Quantity:         quantity,
		BalanceBefore:    balanceBefore,
		BalanceAfter:     balanceAfter,
		Source:           source,
		RefDocument:      refDocument,
		OccurredOn:       time.Now(),
	}, nil
}

// SignedQuantity returns the quantity with its effective sign: negative for
// OUT movements, as-is otherwise (ADJUSTMENT deltas already carry their sign).
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Type == MovementTypeOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// EffectiveChange returns the net quantity change actually applied, which can
// differ from SignedQuantity when the zero floor clamped the mutation.
func (m *Movement) EffectiveChange() decimal.Decimal {
	return m.BalanceAfter.Sub(m.BalanceBefore)
}

// Replay folds an ordered movement log into a quantity on hand, applying the
// same semantics as the live ledger: IN adds, OUT subtracts floored at zero,
// ADJUSTMENT adds its signed delta floored at zero.
func Replay(movements []Movement) decimal.Decimal {
	qty := decimal.Zero
	for _, m := range movements {
		switch m.Type {
		case MovementTypeIn:
			qty = qty.Add(m.Quantity)
		case MovementTypeOut:
			qty = qty.Sub(m.Quantity)
		case MovementTypeAdjustment:
			qty = qty.Add(m.Quantity)
		}
		if qty.IsNegative() {
			qty = decimal.Zero
		}
	}
	return qty
}
