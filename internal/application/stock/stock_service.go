package stock

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/stock"
	"github.com/google/uuid"
)

// StockService handles product registry and stock movement operations
type StockService struct {
	productRepo    stock.ProductRepository
	movementRepo   stock.MovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(
	productRepo stock.ProductRepository,
	movementRepo stock.MovementRepository,
	txScope TransactionScope,
) *StockService {
	return &StockService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *StockService) publishDomainEvents(ctx context.Context, product *stock.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}

// ===================== Product registry =====================

// CreateProduct registers a new product in the ledger
func (s *StockService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	existing, err := s.productRepo.FindByReference(ctx, req.Reference)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("DUPLICATE_REFERENCE", "A product with this reference already exists")
	}

	product, err := stock.NewProduct(req.Reference, req.Name, req.Category, req.Unit, req.MinThreshold)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// UpdateProduct patches product details
func (s *StockService) UpdateProduct(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	minThreshold := product.MinThreshold
	if req.MinThreshold != nil {
		minThreshold = *req.MinThreshold
	}
	if err := product.UpdateDetails(req.Name, req.Category, req.Unit, minThreshold); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetProduct retrieves a product by ID
func (s *StockService) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetProductByReference retrieves a product by its reference
func (s *StockService) GetProductByReference(ctx context.Context, reference string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// ListProducts retrieves a paginated list of products
func (s *StockService) ListProducts(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// ===================== Movements =====================

// RecordMovement applies a stock movement to a product and appends it to the
// movement log, both in one transaction. Returns the updated product.
func (s *StockService) RecordMovement(ctx context.Context, req RecordMovementRequest) (*ProductResponse, error) {
	movementType := stock.MovementType(req.Type)
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("INVALID_MOVEMENT_TYPE", "Movement type must be IN, OUT or ADJUSTMENT")
	}
	source := stock.MovementSource(req.Source)
	if source == "" {
		source = stock.MovementSourceManual
	}

	var product *stock.Product
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByReference(ctx, req.ProductReference)
		if err != nil {
			return err
		}

		before, after, err := product.ApplyMovement(movementType, req.Quantity)
		if err != nil {
			return err
		}

		movement, err := stock.NewMovement(product, movementType, req.Quantity, before, after, source, req.RefDocument)
		if err != nil {
			return err
		}

		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}
		product.AddDomainEvent(stock.NewMovementRecordedEvent(product, movement))

		return repos.ProductRepo().Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// ListMovements retrieves a paginated slice of the movement log
func (s *StockService) ListMovements(ctx context.Context, filter shared.Filter) ([]MovementResponse, int64, error) {
	total, err := s.movementRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	movements, err := s.movementRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToMovementResponses(movements), total, nil
}

// ListMovementsByProduct retrieves the movement history of one product
func (s *StockService) ListMovementsByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]MovementResponse, error) {
	movements, err := s.movementRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}

	return ToMovementResponses(movements), nil
}

// ===================== Alerts =====================

// ListAlerts derives replenishment alerts for every product below or at its
// minimum threshold
func (s *StockService) ListAlerts(ctx context.Context) ([]AlertResponse, error) {
	products, err := s.productRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	return ToAlertResponses(stock.AlertsFor(products)), nil
}
