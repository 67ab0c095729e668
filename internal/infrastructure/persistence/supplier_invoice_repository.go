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

// GormSupplierInvoiceRepository implements SupplierInvoiceRepository using GORM
type GormSupplierInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSupplierInvoiceRepository creates a new GormSupplierInvoiceRepository
func NewGormSupplierInvoiceRepository(db *gorm.DB) *GormSupplierInvoiceRepository {
	return &GormSupplierInvoiceRepository{db: db}
}

// FindByID finds a supplier invoice by its ID including its lines
func (r *GormSupplierInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.SupplierInvoice, error) {
	var inv procurement.SupplierInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("INVOICE_NOT_FOUND", "Supplier invoice not found")
		}
		return nil, err
	}
	return &inv, nil
}

// FindByNumber finds a supplier invoice by its number
func (r *GormSupplierInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*procurement.SupplierInvoice, error) {
	var inv procurement.SupplierInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("invoice_number = ?", invoiceNumber).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("INVOICE_NOT_FOUND", "Supplier invoice not found")
		}
		return nil, err
	}
	return &inv, nil
}

// FindByPO finds all supplier invoices linked to a purchase order
func (r *GormSupplierInvoiceRepository) FindByPO(ctx context.Context, poID uuid.UUID) ([]*procurement.SupplierInvoice, error) {
	var invoices []*procurement.SupplierInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("po_id = ?", poID).
		Order("issue_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindAll finds all supplier invoices matching the filter
func (r *GormSupplierInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*procurement.SupplierInvoice, error) {
	var invoices []*procurement.SupplierInvoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&procurement.SupplierInvoice{}).Preload("Lines"), filter)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates a supplier invoice and its lines
func (r *GormSupplierInvoiceRepository) Save(ctx context.Context, inv *procurement.SupplierInvoice) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(inv).Error
}

// applyFilter applies filter options to the query
func (r *GormSupplierInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR supplier_reference ILIKE ? OR po_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_reference":
			query = query.Where("supplier_reference = ?", value)
		case "unlinked":
			if value == true {
				query = query.Where("po_id IS NULL")
			}
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
		query = query.Order("issue_date DESC")
	}

	return query
}

// Ensure GormSupplierInvoiceRepository implements SupplierInvoiceRepository
var _ procurement.SupplierInvoiceRepository = (*GormSupplierInvoiceRepository)(nil)
