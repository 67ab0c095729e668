package fulfillment

import (
	"context"

	"github.com/erp/ledger/internal/domain/fulfillment"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService handles the sales order fulfillment lifecycle
type OrderService struct {
	orderRepo      fulfillment.OrderRepository
	productRepo    stock.ProductRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo fulfillment.OrderRepository,
	productRepo stock.ProductRepository,
	txScope TransactionScope,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txScope:     txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *OrderService) publishDomainEvents(ctx context.Context, order *fulfillment.SalesOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

// CreateOrder creates a sales order with its lines, resolving each product by
// reference. When the request omits a unit price, the line carries zero.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	existing, err := s.orderRepo.FindByNumber(ctx, req.OrderNumber)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("DUPLICATE_ORDER_NUMBER", "An order with this number already exists")
	}

	order, err := fulfillment.NewSalesOrder(req.OrderNumber, req.CustomerName, req.PromisedDate)
	if err != nil {
		return nil, err
	}

	for _, lineReq := range req.Lines {
		product, err := s.productRepo.FindByReference(ctx, lineReq.ProductReference)
		if err != nil {
			return nil, err
		}
		if err := order.AddLine(product.ID, product.Reference, product.Name, lineReq.OrderedQty, lineReq.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateOrder patches customer name and promised date. Rescheduling is allowed
// until the order ships.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.PromisedDate != nil {
		if err := order.Reschedule(*req.PromisedDate); err != nil {
			return nil, err
		}
	}
	if req.CustomerName != "" {
		order.CustomerName = req.CustomerName
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ConfirmOrder transitions the order from NEW to CONFIRMED
func (s *OrderService) ConfirmOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *fulfillment.SalesOrder) error {
		return order.Confirm()
	})
}

// ReserveOrder runs allocation against the live stock ledger: each line
// reserves up to the product's quantity on hand, the rest goes to backorder,
// and the order's aggregate stock state is derived from the split.
func (s *OrderService) ReserveOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var order *fulfillment.SalesOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		availability := make(map[string]decimal.Decimal, len(order.Lines))
		for i := range order.Lines {
			ref := order.Lines[i].ProductReference
			if _, seen := availability[ref]; seen {
				continue
			}
			product, err := repos.ProductRepo().FindByReference(ctx, ref)
			if err != nil {
				return err
			}
			availability[ref] = product.QuantityOnHand
		}

		if err := order.ApplyAllocation(availability); err != nil {
			return err
		}

		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// PrepareOrder transitions the order from RESERVED to PREPARED
func (s *OrderService) PrepareOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *fulfillment.SalesOrder) error {
		return order.MarkPrepared()
	})
}

// DeliverOrder transitions the order from SHIPPED to DELIVERED
func (s *OrderService) DeliverOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *fulfillment.SalesOrder) error {
		return order.MarkDelivered()
	})
}

// CloseOrder transitions the order from DELIVERED to CLOSED
func (s *OrderService) CloseOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *fulfillment.SalesOrder) error {
		return order.Close()
	})
}

func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, fn func(*fulfillment.SalesOrder) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := fn(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ListOrders retrieves a paginated list of orders
func (s *OrderService) ListOrders(ctx context.Context, filter shared.Filter) ([]OrderResponse, int64, error) {
	total, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}
