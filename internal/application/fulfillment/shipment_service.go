package fulfillment

import (
	"context"

	"github.com/erp/ledger/internal/domain/fulfillment"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/stock"
	"github.com/google/uuid"
)

// ShipmentService handles shipments and their coupling to order state and the
// stock ledger
type ShipmentService struct {
	shipmentRepo   fulfillment.ShipmentRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(shipmentRepo fulfillment.ShipmentRepository, txScope TransactionScope) *ShipmentService {
	return &ShipmentService{
		shipmentRepo: shipmentRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ShipmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ShipmentService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		agg.ClearDomainEvents()
	}
}

// CreateShipment ships a prepared order: the shipment is created, the order
// moves to SHIPPED, and one OUT movement per reserved line leaves the stock
// ledger. All three writes happen in one transaction.
func (s *ShipmentService) CreateShipment(ctx context.Context, req CreateShipmentRequest) (*ShipmentResponse, error) {
	var shipment *fulfillment.Shipment
	var order *fulfillment.SalesOrder

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}

		if err := order.Ship(); err != nil {
			return err
		}

		shipment, err = fulfillment.NewShipment(req.ShipmentNumber, order.ID, order.OrderNumber, req.Transporter, req.TrackingNumber)
		if err != nil {
			return err
		}

		for i := range order.Lines {
			line := &order.Lines[i]
			if line.ReservedQty.IsZero() {
				continue
			}

			product, err := repos.ProductRepo().FindByReference(ctx, line.ProductReference)
			if err != nil {
				return err
			}

			before, after, err := product.ApplyMovement(stock.MovementTypeOut, line.ReservedQty)
			if err != nil {
				return err
			}

			movement, err := stock.NewMovement(product, stock.MovementTypeOut, line.ReservedQty,
				before, after, stock.MovementSourceShipment, shipment.ShipmentNumber)
			if err != nil {
				return err
			}

			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
		}

		if err := repos.ShipmentRepo().Save(ctx, shipment); err != nil {
			return err
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order, shipment)

	response := ToShipmentResponse(shipment)
	return &response, nil
}

// UpdateStatus moves a shipment along its lifecycle. Delivery propagates to
// the order in the same transaction.
func (s *ShipmentService) UpdateStatus(ctx context.Context, shipmentID uuid.UUID, req UpdateShipmentStatusRequest) (*ShipmentResponse, error) {
	target := fulfillment.ShipmentStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewValidationError("INVALID_STATUS", "Invalid shipment status")
	}

	var shipment *fulfillment.Shipment
	var order *fulfillment.SalesOrder

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		shipment, err = repos.ShipmentRepo().FindByID(ctx, shipmentID)
		if err != nil {
			return err
		}

		if err := shipment.TransitionTo(target); err != nil {
			return err
		}

		if target == fulfillment.ShipmentStatusDelivered {
			order, err = repos.OrderRepo().FindByID(ctx, shipment.OrderID)
			if err != nil {
				return err
			}
			if err := order.MarkDelivered(); err != nil {
				return err
			}
			if err := repos.OrderRepo().Save(ctx, order); err != nil {
				return err
			}
		}

		return repos.ShipmentRepo().Save(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}

	if order != nil {
		s.publishDomainEvents(ctx, order, shipment)
	} else {
		s.publishDomainEvents(ctx, shipment)
	}

	response := ToShipmentResponse(shipment)
	return &response, nil
}

// GetShipment retrieves a shipment by ID
func (s *ShipmentService) GetShipment(ctx context.Context, shipmentID uuid.UUID) (*ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	response := ToShipmentResponse(shipment)
	return &response, nil
}

// ListShipmentsByOrder retrieves all shipments of one order
func (s *ShipmentService) ListShipmentsByOrder(ctx context.Context, orderID uuid.UUID) ([]ShipmentResponse, error) {
	shipments, err := s.shipmentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	responses := make([]ShipmentResponse, len(shipments))
	for i, sh := range shipments {
		responses[i] = ToShipmentResponse(sh)
	}
	return responses, nil
}
