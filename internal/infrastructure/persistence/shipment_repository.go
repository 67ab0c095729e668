package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/fulfillment"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShipmentRepository implements ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID finds a shipment by its ID
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Shipment, error) {
	var shipment fulfillment.Shipment
	if err := r.db.WithContext(ctx).First(&shipment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("SHIPMENT_NOT_FOUND", "Shipment not found")
		}
		return nil, err
	}
	return &shipment, nil
}

// FindByNumber finds a shipment by its number
func (r *GormShipmentRepository) FindByNumber(ctx context.Context, shipmentNumber string) (*fulfillment.Shipment, error) {
	var shipment fulfillment.Shipment
	if err := r.db.WithContext(ctx).
		Where("shipment_number = ?", shipmentNumber).
		First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("SHIPMENT_NOT_FOUND", "Shipment not found")
		}
		return nil, err
	}
	return &shipment, nil
}

// FindByOrder finds all shipments for a sales order
func (r *GormShipmentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*fulfillment.Shipment, error) {
	var shipments []*fulfillment.Shipment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// FindAll finds all shipments matching the filter
func (r *GormShipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*fulfillment.Shipment, error) {
	var shipments []*fulfillment.Shipment
	query := r.applyFilter(r.db.WithContext(ctx).Model(&fulfillment.Shipment{}), filter)

	if err := query.Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// Save creates or updates a shipment
func (r *GormShipmentRepository) Save(ctx context.Context, shipment *fulfillment.Shipment) error {
	return r.db.WithContext(ctx).Save(shipment).Error
}

// applyFilter applies filter options to the query
func (r *GormShipmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("shipment_number ILIKE ? OR order_number ILIKE ? OR tracking_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "transporter":
			query = query.Where("transporter = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// Ensure GormShipmentRepository implements ShipmentRepository
var _ fulfillment.ShipmentRepository = (*GormShipmentRepository)(nil)
