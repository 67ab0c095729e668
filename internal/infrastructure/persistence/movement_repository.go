package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM. The
// movement log is append-only: rows are inserted, never updated or deleted.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append inserts a new movement into the log
func (r *GormMovementRepository) Append(ctx context.Context, movement *stock.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	var movement stock.Movement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("MOVEMENT_NOT_FOUND", "Movement not found")
		}
		return nil, err
	}
	return &movement, nil
}

// FindByProduct finds all movements for a product, newest first
func (r *GormMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]stock.Movement, error) {
	var movements []stock.Movement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.Movement{}).Where("product_id = ?", productID),
		filter,
	)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindBySource finds movements by source and reference document
func (r *GormMovementRepository) FindBySource(ctx context.Context, source stock.MovementSource, refDocument string) ([]stock.Movement, error) {
	var movements []stock.Movement
	if err := r.db.WithContext(ctx).
		Where("source = ? AND ref_document = ?", source, refDocument).
		Order("occurred_on ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAll finds all movements matching the filter
func (r *GormMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.Movement, error) {
	var movements []stock.Movement
	query := r.applyFilter(r.db.WithContext(ctx).Model(&stock.Movement{}), filter)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count counts movements matching the filter
func (r *GormMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&stock.Movement{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

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
		query = query.Order("occurred_on DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMovementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("product_reference ILIKE ? OR ref_document ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "source":
			query = query.Where("source = ?", value)
		case "product_reference":
			query = query.Where("product_reference = ?", value)
		case "since":
			query = query.Where("occurred_on >= ?", value)
		case "until":
			query = query.Where("occurred_on <= ?", value)
		}
	}

	return query
}

// Ensure GormMovementRepository implements MovementRepository
var _ stock.MovementRepository = (*GormMovementRepository)(nil)
