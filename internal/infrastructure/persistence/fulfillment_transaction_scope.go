package persistence

import (
	"context"

	appfulfillment "github.com/erp/ledger/internal/application/fulfillment"
	"github.com/erp/ledger/internal/domain/fulfillment"
	"github.com/erp/ledger/internal/domain/stock"
	"gorm.io/gorm"
)

// FulfillmentTransactionScope implements the fulfillment TransactionScope
// using GORM transactions. Shipment creation mutates the order, the shipment
// and the stock ledger in one commit.
type FulfillmentTransactionScope struct {
	db *gorm.DB
}

// NewFulfillmentTransactionScope creates a new FulfillmentTransactionScope.
func NewFulfillmentTransactionScope(db *gorm.DB) *FulfillmentTransactionScope {
	return &FulfillmentTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *FulfillmentTransactionScope) Execute(ctx context.Context, fn func(repos appfulfillment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &fulfillmentTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// fulfillmentTransactionalRepositories provides access to the fulfillment-side
// repositories within a transaction.
type fulfillmentTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the sales order repository scoped to the current transaction.
func (r *fulfillmentTransactionalRepositories) OrderRepo() fulfillment.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// ShipmentRepo returns the shipment repository scoped to the current transaction.
func (r *fulfillmentTransactionalRepositories) ShipmentRepo() fulfillment.ShipmentRepository {
	return NewGormShipmentRepository(r.tx)
}

// ReturnRepo returns the return order repository scoped to the current transaction.
func (r *fulfillmentTransactionalRepositories) ReturnRepo() fulfillment.ReturnRepository {
	return NewGormReturnRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *fulfillmentTransactionalRepositories) ProductRepo() stock.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction.
func (r *fulfillmentTransactionalRepositories) MovementRepo() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

var _ appfulfillment.TransactionScope = (*FulfillmentTransactionScope)(nil)
var _ appfulfillment.TransactionalRepositories = (*fulfillmentTransactionalRepositories)(nil)
