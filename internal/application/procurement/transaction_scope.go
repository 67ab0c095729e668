package procurement

import (
	"context"

	"github.com/erp/ledger/internal/domain/procurement"
)

// TransactionScope provides transactional access to procurement repositories.
// Receipt creation and validation mutate both the receipt and its purchase
// order and must commit atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the procurement repositories
// within a transaction.
type TransactionalRepositories interface {
	// PORepo returns the purchase order repository scoped to the current transaction
	PORepo() procurement.PurchaseOrderRepository
	// ReceiptRepo returns the goods receipt repository scoped to the current transaction
	ReceiptRepo() procurement.GoodsReceiptRepository
	// InvoiceRepo returns the supplier invoice repository scoped to the current transaction
	InvoiceRepo() procurement.SupplierInvoiceRepository
}

// NoOpTransactionScope is a transaction scope without real transactions, for
// testing and in-memory use.
type NoOpTransactionScope struct {
	poRepo      procurement.PurchaseOrderRepository
	receiptRepo procurement.GoodsReceiptRepository
	invoiceRepo procurement.SupplierInvoiceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	poRepo procurement.PurchaseOrderRepository,
	receiptRepo procurement.GoodsReceiptRepository,
	invoiceRepo procurement.SupplierInvoiceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		poRepo:      poRepo,
		receiptRepo: receiptRepo,
		invoiceRepo: invoiceRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PORepo returns the purchase order repository.
func (s *NoOpTransactionScope) PORepo() procurement.PurchaseOrderRepository {
	return s.poRepo
}

// ReceiptRepo returns the goods receipt repository.
func (s *NoOpTransactionScope) ReceiptRepo() procurement.GoodsReceiptRepository {
	return s.receiptRepo
}

// InvoiceRepo returns the supplier invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() procurement.SupplierInvoiceRepository {
	return s.invoiceRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
