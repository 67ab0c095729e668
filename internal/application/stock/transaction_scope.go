package stock

import (
	"context"

	"github.com/erp/ledger/internal/domain/stock"
)

// TransactionScope provides transactional access to stock repositories. When a
// function is executed within a transaction scope, all repository operations
// are part of the same database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories within a
// transaction. A movement and the product balance it mutates are always
// written in the same transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() stock.ProductRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() stock.MovementRepository
}

// NoOpTransactionScope is a transaction scope without real transactions, for
// testing and in-memory use.
type NoOpTransactionScope struct {
	productRepo  stock.ProductRepository
	movementRepo stock.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(productRepo stock.ProductRepository, movementRepo stock.MovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
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
