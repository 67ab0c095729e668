package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/procurement"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID including its lines
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var po procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&po, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("PO_NOT_FOUND", "Purchase order not found")
		}
		return nil, err
	}
	return &po, nil
}

// FindByNumber finds a purchase order by its number
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, poNumber string) (*procurement.PurchaseOrder, error) {
	var po procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("po_number = ?", poNumber).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("PO_NOT_FOUND", "Purchase order not found")
		}
		return nil, err
	}
	return &po, nil
}

// FindAll finds all purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*procurement.PurchaseOrder, error) {
	var pos []*procurement.PurchaseOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).Preload("Lines"), filter)

	if err := query.Find(&pos).Error; err != nil {
		return nil, err
	}
	return pos, nil
}

// FindByStatus finds purchase orders by status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status procurement.POStatus, filter shared.Filter) ([]*procurement.PurchaseOrder, error) {
	var pos []*procurement.PurchaseOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).Preload("Lines").Where("status = ?", status),
		filter,
	)

	if err := query.Find(&pos).Error; err != nil {
		return nil, err
	}
	return pos, nil
}

// Save creates or updates a purchase order and its lines
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(po).Error
}

// Count counts all purchase orders
func (r *GormPurchaseOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("po_number ILIKE ? OR supplier_reference ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_reference":
			query = query.Where("supplier_reference = ?", value)
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

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
