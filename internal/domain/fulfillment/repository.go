package fulfillment

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines persistence operations for sales orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindByNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*SalesOrder, error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]*SalesOrder, error)
	Save(ctx context.Context, order *SalesOrder) error
	Count(ctx context.Context) (int64, error)
}

// ShipmentRepository defines persistence operations for shipments
type ShipmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)
	FindByNumber(ctx context.Context, shipmentNumber string) (*Shipment, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*Shipment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Shipment, error)
	Save(ctx context.Context, shipment *Shipment) error
}

// ReturnRepository defines persistence operations for return orders
type ReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnOrder, error)
	FindByNumber(ctx context.Context, returnNumber string) (*ReturnOrder, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*ReturnOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*ReturnOrder, error)
	Save(ctx context.Context, ret *ReturnOrder) error
}
