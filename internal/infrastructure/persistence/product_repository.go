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

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Product, error) {
	var product stock.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	return &product, nil
}

// FindByReference finds a product by its unique reference
func (r *GormProductRepository) FindByReference(ctx context.Context, reference string) (*stock.Product, error) {
	var product stock.Product
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.Product, error) {
	var products []stock.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&stock.Product{}), filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByCategory finds all products in a category
func (r *GormProductRepository) FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]stock.Product, error) {
	var products []stock.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.Product{}).Where("category = ?", category),
		filter,
	)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *stock.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&stock.Product{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("reference ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR reference ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "unit":
			query = query.Where("unit = ?", value)
		case "below_threshold":
			if value == true {
				query = query.Where("quantity_on_hand <= min_threshold")
			}
		}
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ stock.ProductRepository = (*GormProductRepository)(nil)
