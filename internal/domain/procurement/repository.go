package procurement

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository defines persistence operations for purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByNumber(ctx context.Context, poNumber string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*PurchaseOrder, error)
	FindByStatus(ctx context.Context, status POStatus, filter shared.Filter) ([]*PurchaseOrder, error)
	Save(ctx context.Context, po *PurchaseOrder) error
	Count(ctx context.Context) (int64, error)
}

// GoodsReceiptRepository defines persistence operations for goods receipts
type GoodsReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*GoodsReceipt, error)
	FindByNumber(ctx context.Context, grNumber string) (*GoodsReceipt, error)
	FindByPO(ctx context.Context, poID uuid.UUID) ([]*GoodsReceipt, error)
	FindValidatedByPO(ctx context.Context, poID uuid.UUID) ([]*GoodsReceipt, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*GoodsReceipt, error)
	Save(ctx context.Context, gr *GoodsReceipt) error
}

// SupplierInvoiceRepository defines persistence operations for supplier invoices
type SupplierInvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SupplierInvoice, error)
	FindByNumber(ctx context.Context, invoiceNumber string) (*SupplierInvoice, error)
	FindByPO(ctx context.Context, poID uuid.UUID) ([]*SupplierInvoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*SupplierInvoice, error)
	Save(ctx context.Context, inv *SupplierInvoice) error
}
