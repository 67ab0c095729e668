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

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return order by its ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.ReturnOrder, error) {
	var ret fulfillment.ReturnOrder
	if err := r.db.WithContext(ctx).First(&ret, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("RETURN_NOT_FOUND", "Return order not found")
		}
		return nil, err
	}
	return &ret, nil
}

// FindByNumber finds a return order by its number
func (r *GormReturnRepository) FindByNumber(ctx context.Context, returnNumber string) (*fulfillment.ReturnOrder, error) {
	var ret fulfillment.ReturnOrder
	if err := r.db.WithContext(ctx).
		Where("return_number = ?", returnNumber).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("RETURN_NOT_FOUND", "Return order not found")
		}
		return nil, err
	}
	return &ret, nil
}

// FindByOrder finds all return orders for a sales order
func (r *GormReturnRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*fulfillment.ReturnOrder, error) {
	var returns []*fulfillment.ReturnOrder
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// FindAll finds all return orders matching the filter
func (r *GormReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*fulfillment.ReturnOrder, error) {
	var returns []*fulfillment.ReturnOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&fulfillment.ReturnOrder{}), filter)

	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// Save creates or updates a return order
func (r *GormReturnRepository) Save(ctx context.Context, ret *fulfillment.ReturnOrder) error {
	return r.db.WithContext(ctx).Save(ret).Error
}

// applyFilter applies filter options to the query
func (r *GormReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("return_number ILIKE ? OR order_number ILIKE ? OR product_reference ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "decision":
			query = query.Where("decision = ?", value)
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

// Ensure GormReturnRepository implements ReturnRepository
var _ fulfillment.ReturnRepository = (*GormReturnRepository)(nil)
