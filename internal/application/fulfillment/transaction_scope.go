package fulfillment

import (
	"context"

	"github.com/erp/ledger/internal/domain/fulfillment"
	"github.com/erp/ledger/internal/domain/stock"
)

// TransactionScope provides transactional access to the repositories touched
// by fulfillment commands. Shipment creation mutates the order, the shipment
// and the stock ledger; RMA closure can mutate the return and the ledger.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the fulfillment-side
// repositories within a transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the sales order repository scoped to the current transaction
	OrderRepo() fulfillment.OrderRepository
	// ShipmentRepo returns the shipment repository scoped to the current transaction
	ShipmentRepo() fulfillment.ShipmentRepository
	// ReturnRepo returns the return order repository scoped to the current transaction
	ReturnRepo() fulfillment.ReturnRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() stock.ProductRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() stock.MovementRepository
}

// NoOpTransactionScope is a transaction scope without real transactions, for
// testing and in-memory use.
type NoOpTransactionScope struct {
	orderRepo    fulfillment.OrderRepository
	shipmentRepo fulfillment.ShipmentRepository
	returnRepo   fulfillment.ReturnRepository
	productRepo  stock.ProductRepository
	movementRepo stock.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo fulfillment.OrderRepository,
	shipmentRepo fulfillment.ShipmentRepository,
	returnRepo fulfillment.ReturnRepository,
	productRepo stock.ProductRepository,
	movementRepo stock.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		returnRepo:   returnRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the sales order repository.
func (s *NoOpTransactionScope) OrderRepo() fulfillment.OrderRepository {
	return s.orderRepo
}

// ShipmentRepo returns the shipment repository.
func (s *NoOpTransactionScope) ShipmentRepo() fulfillment.ShipmentRepository {
	return s.shipmentRepo
}

// ReturnRepo returns the return order repository.
func (s *NoOpTransactionScope) ReturnRepo() fulfillment.ReturnRepository {
	return s.returnRepo
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
