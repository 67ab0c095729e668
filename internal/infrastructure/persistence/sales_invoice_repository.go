package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/billing"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesInvoiceRepository implements SalesInvoiceRepository using GORM
type GormSalesInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSalesInvoiceRepository creates a new GormSalesInvoiceRepository
func NewGormSalesInvoiceRepository(db *gorm.DB) *GormSalesInvoiceRepository {
	return &GormSalesInvoiceRepository{db: db}
}

// FindByID finds a sales invoice by its ID including its lines
func (r *GormSalesInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SalesInvoice, error) {
	var inv billing.SalesInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("INVOICE_NOT_FOUND", "Invoice not found")
		}
		return nil, err
	}
	return &inv, nil
}

// FindByNumber finds a sales invoice by its number
func (r *GormSalesInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*billing.SalesInvoice, error) {
	var inv billing.SalesInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("invoice_number = ?", invoiceNumber).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("INVOICE_NOT_FOUND", "Invoice not found")
		}
		return nil, err
	}
	return &inv, nil
}

// FindAll finds all sales invoices matching the filter
func (r *GormSalesInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.SalesInvoice, error) {
	var invoices []*billing.SalesInvoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.SalesInvoice{}).Preload("Lines"), filter)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByStatus finds sales invoices by status
func (r *GormSalesInvoiceRepository) FindByStatus(ctx context.Context, status billing.InvoiceStatus, filter shared.Filter) ([]*billing.SalesInvoice, error) {
	var invoices []*billing.SalesInvoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&billing.SalesInvoice{}).Preload("Lines").Where("status = ?", status),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindDueBefore finds sent invoices whose due date is before the cutoff.
// These are the candidates for the overdue sweep.
func (r *GormSalesInvoiceRepository) FindDueBefore(ctx context.Context, cutoff time.Time) ([]*billing.SalesInvoice, error) {
	var invoices []*billing.SalesInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("status = ? AND due_date < ?", billing.InvoiceStatusSent, cutoff).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates a sales invoice and its lines
func (r *GormSalesInvoiceRepository) Save(ctx context.Context, inv *billing.SalesInvoice) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(inv).Error
}

// Count counts all sales invoices
func (r *GormSalesInvoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.SalesInvoice{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSalesInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR customer_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
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
		query = query.Order("issue_date DESC")
	}

	return query
}

// Ensure GormSalesInvoiceRepository implements SalesInvoiceRepository
var _ billing.SalesInvoiceRepository = (*GormSalesInvoiceRepository)(nil)
