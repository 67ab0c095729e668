package stock

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a stocked article and is the aggregate root for stock
// operations. QuantityOnHand is mutated only by applying movements; it never
// goes negative — OUT and negative ADJUSTMENT movements are clamped at zero.
type Product struct {
	shared.BaseAggregateRoot
	Reference      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Category       string          `gorm:"type:varchar(100);index"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	QuantityOnHand decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinThreshold   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with zero stock
func NewProduct(reference, name, category, unit string, minThreshold decimal.Decimal) (*Product, error) {
	if reference == "" {
		return nil, shared.NewValidationError("INVALID_REFERENCE", "Product reference cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewValidationError("INVALID_UNIT", "Product unit cannot be empty")
	}
	if minThreshold.IsNegative() {
		return nil, shared.NewValidationError("INVALID_THRESHOLD", "Minimum threshold cannot be negative")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         reference,
		Name:              name,
		Category:          category,
		Unit:              unit,
		QuantityOnHand:    decimal.Zero,
		MinThreshold:      minThreshold,
	}

	p.AddDomainEvent(NewProductCreatedEvent(p))

	return p, nil
}

// UpdateDetails updates the descriptive fields of the product
func (p *Product) UpdateDetails(name, category, unit string, minThreshold decimal.Decimal) error {
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		return shared.NewValidationError("INVALID_UNIT", "Product unit cannot be empty")
	}
	if minThreshold.IsNegative() {
		return shared.NewValidationError("INVALID_THRESHOLD", "Minimum threshold cannot be negative")
	}

	p.Name = name
	p.Category = category
	p.Unit = unit
	p.MinThreshold = minThreshold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ApplyMovement applies a typed quantity change to the quantity on hand and
// returns the balance before and after. OUT movements and negative adjustments
// are clamped at zero rather than rejected.
func (p *Product) ApplyMovement(movementType MovementType, quantity decimal.Decimal) (before, after decimal.Decimal, err error) {
	if !movementType.IsValid() {
		return decimal.Zero, decimal.Zero, shared.NewValidationError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}

	before = p.QuantityOnHand
	switch movementType {
	case MovementTypeIn:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, decimal.Zero, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive for IN movements")
		}
		after = before.Add(quantity)
	case MovementTypeOut:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, decimal.Zero, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive for OUT movements")
		}
		after = before.Sub(quantity)
	case MovementTypeAdjustment:
		if quantity.IsZero() {
			return decimal.Zero, decimal.Zero, shared.NewValidationError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
		}
		after = before.Add(quantity)
	}

	if after.IsNegative() {
		after = decimal.Zero
	}

	p.QuantityOnHand = after
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if p.IsOutOfStock() {
		p.AddDomainEvent(NewStockDepletedEvent(p))
	} else if p.IsLowStock() {
		p.AddDomainEvent(NewStockBelowThresholdEvent(p))
	}

	return before, after, nil
}

// IsOutOfStock returns true if the quantity on hand is zero
func (p *Product) IsOutOfStock() bool {
	return p.QuantityOnHand.IsZero()
}

// IsLowStock returns true if the quantity on hand is positive but at or below
// the minimum threshold
func (p *Product) IsLowStock() bool {
	return p.QuantityOnHand.GreaterThan(decimal.Zero) &&
		p.QuantityOnHand.LessThanOrEqual(p.MinThreshold)
}
