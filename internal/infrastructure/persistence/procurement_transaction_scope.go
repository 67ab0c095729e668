package persistence

import (
	"context"

	appprocurement "github.com/erp/ledger/internal/application/procurement"
	"github.com/erp/ledger/internal/domain/procurement"
	"gorm.io/gorm"
)

// ProcurementTransactionScope implements the procurement TransactionScope
// using GORM transactions. Receipt validation mutates both the receipt and
// its purchase order in one commit.
type ProcurementTransactionScope struct {
	db *gorm.DB
}

// NewProcurementTransactionScope creates a new ProcurementTransactionScope.
func NewProcurementTransactionScope(db *gorm.DB) *ProcurementTransactionScope {
	return &ProcurementTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *ProcurementTransactionScope) Execute(ctx context.Context, fn func(repos appprocurement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &procurementTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// procurementTransactionalRepositories provides access to the procurement
// repositories within a transaction.
type procurementTransactionalRepositories struct {
	tx *gorm.DB
}

// PORepo returns the purchase order repository scoped to the current transaction.
func (r *procurementTransactionalRepositories) PORepo() procurement.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// ReceiptRepo returns the goods receipt repository scoped to the current transaction.
func (r *procurementTransactionalRepositories) ReceiptRepo() procurement.GoodsReceiptRepository {
	return NewGormGoodsReceiptRepository(r.tx)
}

// InvoiceRepo returns the supplier invoice repository scoped to the current transaction.
func (r *procurementTransactionalRepositories) InvoiceRepo() procurement.SupplierInvoiceRepository {
	return NewGormSupplierInvoiceRepository(r.tx)
}

var _ appprocurement.TransactionScope = (*ProcurementTransactionScope)(nil)
var _ appprocurement.TransactionalRepositories = (*procurementTransactionalRepositories)(nil)
