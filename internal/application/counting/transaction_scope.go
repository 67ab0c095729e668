package counting

import (
	"context"

	"github.com/erp/ledger/internal/domain/counting"
	"github.com/erp/ledger/internal/domain/stock"
)

// TransactionScope provides transactional access to the repositories touched
// by count session validation: the session itself, the products it adjusts,
// and the movement log receiving the adjustment entries.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. Validation writes the session, the adjusted products and the
// adjustment movements atomically.
type TransactionalRepositories interface {
	// SessionRepo returns the count session repository scoped to the current transaction
	SessionRepo() counting.SessionRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() stock.ProductRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() stock.MovementRepository
}

// NoOpTransactionScope is a transaction scope without real transactions, for
// testing and in-memory use.
type NoOpTransactionScope struct {
	sessionRepo  counting.SessionRepository
	productRepo  stock.ProductRepository
	movementRepo stock.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	sessionRepo counting.SessionRepository,
	productRepo stock.ProductRepository,
	movementRepo stock.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		sessionRepo:  sessionRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SessionRepo returns the count session repository.
func (s *NoOpTransactionScope) SessionRepo() counting.SessionRepository {
	return s.sessionRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() stock.ProductRepository {
	return s.productRepo
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() stock.MovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
