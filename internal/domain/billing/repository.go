package billing

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesInvoiceRepository defines persistence operations for sales invoices
type SalesInvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesInvoice, error)
	FindByNumber(ctx context.Context, invoiceNumber string) (*SalesInvoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*SalesInvoice, error)
	FindByStatus(ctx context.Context, status InvoiceStatus, filter shared.Filter) ([]*SalesInvoice, error)
	FindDueBefore(ctx context.Context, cutoff time.Time) ([]*SalesInvoice, error)
	Save(ctx context.Context, inv *SalesInvoice) error
	Count(ctx context.Context) (int64, error)
}
