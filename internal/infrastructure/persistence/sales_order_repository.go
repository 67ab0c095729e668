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

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds a sales order by its ID including its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.SalesOrder, error) {
	var order fulfillment.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("ORDER_NOT_FOUND", "Sales order not found")
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds a sales order by its number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*fulfillment.SalesOrder, error) {
	var order fulfillment.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("ORDER_NOT_FOUND", "Sales order not found")
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all sales orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*fulfillment.SalesOrder, error) {
	var orders []*fulfillment.SalesOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&fulfillment.SalesOrder{}).Preload("Lines"), filter)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds sales orders by status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status fulfillment.OrderStatus, filter shared.Filter) ([]*fulfillment.SalesOrder, error) {
	var orders []*fulfillment.SalesOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&fulfillment.SalesOrder{}).Preload("Lines").Where("status = ?", status),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a sales order and its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *fulfillment.SalesOrder) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
}

// Count counts all sales orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&fulfillment.SalesOrder{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR customer_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "stock_state":
			query = query.Where("stock_state = ?", value)
		case "customer_name":
			query = query.Where("customer_name = ?", value)
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

// Ensure GormOrderRepository implements OrderRepository
var _ fulfillment.OrderRepository = (*GormOrderRepository)(nil)
