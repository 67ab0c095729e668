package persistence

import (
	"context"

	appstock "github.com/erp/ledger/internal/application/stock"
	"github.com/erp/ledger/internal/domain/stock"
	"gorm.io/gorm"
)

// StockTransactionScope implements the stock TransactionScope using GORM
// transactions. A movement and the product balance it mutates commit together.
type StockTransactionScope struct {
	db *gorm.DB
}

// NewStockTransactionScope creates a new StockTransactionScope.
func NewStockTransactionScope(db *gorm.DB) *StockTransactionScope {
	return &StockTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *StockTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &stockTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// stockTransactionalRepositories provides access to the stock repositories
// within a transaction.
type stockTransactionalRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *stockTransactionalRepositories) ProductRepo() stock.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction.
func (r *stockTransactionalRepositories) MovementRepo() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

var _ appstock.TransactionScope = (*StockTransactionScope)(nil)
var _ appstock.TransactionalRepositories = (*stockTransactionalRepositories)(nil)
