package persistence

import (
	"context"

	appcounting "github.com/erp/ledger/internal/application/counting"
	"github.com/erp/ledger/internal/domain/counting"
	"github.com/erp/ledger/internal/domain/stock"
	"gorm.io/gorm"
)

// CountingTransactionScope implements the counting TransactionScope using GORM
// transactions. Session validation writes the session, the adjusted products
// and the adjustment movements atomically.
type CountingTransactionScope struct {
	db *gorm.DB
}

// NewCountingTransactionScope creates a new CountingTransactionScope.
func NewCountingTransactionScope(db *gorm.DB) *CountingTransactionScope {
	return &CountingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *CountingTransactionScope) Execute(ctx context.Context, fn func(repos appcounting.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &countingTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// countingTransactionalRepositories provides access to the repositories
// within a transaction.
type countingTransactionalRepositories struct {
	tx *gorm.DB
}

// SessionRepo returns the count session repository scoped to the current transaction.
func (r *countingTransactionalRepositories) SessionRepo() counting.SessionRepository {
	return NewGormSessionRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *countingTransactionalRepositories) ProductRepo() stock.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction.
func (r *countingTransactionalRepositories) MovementRepo() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

var _ appcounting.TransactionScope = (*CountingTransactionScope)(nil)
var _ appcounting.TransactionalRepositories = (*countingTransactionalRepositories)(nil)
