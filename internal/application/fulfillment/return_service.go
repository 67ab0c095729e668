package fulfillment

import (
	"context"

	"github.com/erp/ledger/internal/domain/fulfillment"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/stock"
	"github.com/google/uuid"
)

// ReturnService handles the RMA lifecycle and its closing stock effect
type ReturnService struct {
	returnRepo     fulfillment.ReturnRepository
	orderRepo      fulfillment.OrderRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	returnRepo fulfillment.ReturnRepository,
	orderRepo fulfillment.OrderRepository,
	txScope TransactionScope,
) *ReturnService {
	return &ReturnService{
		returnRepo: returnRepo,
		orderRepo:  orderRepo,
		txScope:    txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ReturnService) publishDomainEvents(ctx context.Context, ret *fulfillment.ReturnOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := ret.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	ret.ClearDomainEvents()
}

// CreateReturn opens an RMA. The order must be delivered, the product must
// appear on the order, and the quantity cannot exceed the ordered quantity.
func (s *ReturnService) CreateReturn(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	decision := fulfillment.ReturnDecision(req.Decision)
	if !decision.IsValid() {
		return nil, shared.NewValidationError("INVALID_DECISION", "Decision must be RESTOCK, DESTROY or CREDIT_NOTE")
	}

	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsDelivered() {
		return nil, shared.NewPreconditionError("ORDER_NOT_DELIVERED", "Returns can only be opened against delivered orders")
	}

	line := order.LineByReference(req.ProductReference)
	if line == nil {
		return nil, shared.NewValidationError("PRODUCT_NOT_ON_ORDER", "The product does not appear on the order")
	}
	if req.Quantity.GreaterThan(line.OrderedQty) {
		return nil, shared.NewValidationError("QUANTITY_EXCEEDS_ORDERED", "Return quantity exceeds the ordered quantity")
	}

	ret, err := fulfillment.NewReturnOrder(req.ReturnNumber, order.ID, order.OrderNumber,
		line.ProductID, line.ProductReference, req.Quantity, req.Reason, decision)
	if err != nil {
		return nil, err
	}

	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// AdvanceReturn moves the RMA one step along its linear lifecycle. Closing a
// RESTOCK return records one IN movement in the same transaction; DESTROY has
// no stock effect; CREDIT_NOTE raises a credit-requested event for finance.
func (s *ReturnService) AdvanceReturn(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	var ret *fulfillment.ReturnOrder

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ret, err = repos.ReturnRepo().FindByID(ctx, returnID)
		if err != nil {
			return err
		}

		switch ret.Status.Next() {
		case fulfillment.ReturnStatusReceived:
			if err := ret.MarkReceived(); err != nil {
				return err
			}
		case fulfillment.ReturnStatusInspected:
			if err := ret.MarkInspected(); err != nil {
				return err
			}
		case fulfillment.ReturnStatusClosed:
			if err := ret.Close(); err != nil {
				return err
			}
			if ret.Decision == fulfillment.ReturnDecisionRestock {
				if err := s.restock(ctx, repos, ret); err != nil {
					return err
				}
			}
		default:
			return shared.NewPreconditionError("INVALID_TRANSITION", "The return is already closed")
		}

		return repos.ReturnRepo().Save(ctx, ret)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, ret)

	response := ToReturnResponse(ret)
	return &response, nil
}

func (s *ReturnService) restock(ctx context.Context, repos TransactionalRepositories, ret *fulfillment.ReturnOrder) error {
	product, err := repos.ProductRepo().FindByID(ctx, ret.ProductID)
	if err != nil {
		return err
	}

	before, after, err := product.ApplyMovement(stock.MovementTypeIn, ret.Quantity)
	if err != nil {
		return err
	}

	movement, err := stock.NewMovement(product, stock.MovementTypeIn, ret.Quantity,
		before, after, stock.MovementSourceReturn, ret.ReturnNumber)
	if err != nil {
		return err
	}

	if err := repos.MovementRepo().Append(ctx, movement); err != nil {
		return err
	}
	return repos.ProductRepo().Save(ctx, product)
}

// GetReturn retrieves a return order by ID
func (s *ReturnService) GetReturn(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// ListReturnsByOrder retrieves the returns opened against one order
func (s *ReturnService) ListReturnsByOrder(ctx context.Context, orderID uuid.UUID) ([]ReturnResponse, error) {
	returns, err := s.returnRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	responses := make([]ReturnResponse, len(returns))
	for i, r := range returns {
		responses[i] = ToReturnResponse(r)
	}
	return responses, nil
}
