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

// GormGoodsReceiptRepository implements GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// FindByID finds a goods receipt by its ID including its lines
func (r *GormGoodsReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.GoodsReceipt, error) {
	var gr procurement.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&gr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("RECEIPT_NOT_FOUND", "Goods receipt not found")
		}
		return nil, err
	}
	return &gr, nil
}

// FindByNumber finds a goods receipt by its number
func (r *GormGoodsReceiptRepository) FindByNumber(ctx context.Context, grNumber string) (*procurement.GoodsReceipt, error) {
	var gr procurement.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("gr_number = ?", grNumber).
		First(&gr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("RECEIPT_NOT_FOUND", "Goods receipt not found")
		}
		return nil, err
	}
	return &gr, nil
}

// FindByPO finds all goods receipts for a purchase order
func (r *GormGoodsReceiptRepository) FindByPO(ctx context.Context, poID uuid.UUID) ([]*procurement.GoodsReceipt, error) {
	var receipts []*procurement.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("po_id = ?", poID).
		Order("receipt_date ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindValidatedByPO finds validated goods receipts for a purchase order
func (r *GormGoodsReceiptRepository) FindValidatedByPO(ctx context.Context, poID uuid.UUID) ([]*procurement.GoodsReceipt, error) {
	var receipts []*procurement.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("po_id = ? AND status = ?", poID, procurement.GRStatusValidated).
		Order("receipt_date ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindAll finds all goods receipts matching the filter
func (r *GormGoodsReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*procurement.GoodsReceipt, error) {
	var receipts []*procurement.GoodsReceipt
	query := r.applyFilter(r.db.WithContext(ctx).Model(&procurement.GoodsReceipt{}).Preload("Lines"), filter)

	if err := query.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save creates or updates a goods receipt and its lines
func (r *GormGoodsReceiptRepository) Save(ctx context.Context, gr *procurement.GoodsReceipt) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(gr).Error
}

// applyFilter applies filter options to the query
func (r *GormGoodsReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("gr_number ILIKE ? OR po_number ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "po_number":
			query = query.Where("po_number = ?", value)
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

// Ensure GormGoodsReceiptRepository implements GoodsReceiptRepository
var _ procurement.GoodsReceiptRepository = (*GormGoodsReceiptRepository)(nil)
