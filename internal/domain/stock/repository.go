package stock

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByReference(ctx context.Context, reference string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// MovementRepository defines persistence operations for the append-only
// movement log. Movements are never updated or deleted.
type MovementRepository interface {
	Append(ctx context.Context, movement *Movement) error
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Movement, error)
	FindBySource(ctx context.Context, source MovementSource, refDocument string) ([]Movement, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Movement, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
