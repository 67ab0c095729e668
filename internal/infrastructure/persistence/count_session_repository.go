package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/counting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSessionRepository implements SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByID finds a count session by its ID including its lines
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*counting.CountSession, error) {
	var session counting.CountSession
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("SESSION_NOT_FOUND", "Count session not found")
		}
		return nil, err
	}
	return &session, nil
}

// FindByNumber finds a count session by its number
func (r *GormSessionRepository) FindByNumber(ctx context.Context, sessionNumber string) (*counting.CountSession, error) {
	var session counting.CountSession
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("session_number = ?", sessionNumber).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("SESSION_NOT_FOUND", "Count session not found")
		}
		return nil, err
	}
	return &session, nil
}

// FindAll finds all count sessions matching the filter
func (r *GormSessionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]counting.CountSession, error) {
	var sessions []counting.CountSession
	query := r.applyFilter(r.db.WithContext(ctx).Model(&counting.CountSession{}).Preload("Lines"), filter)

	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// FindByStatus finds count sessions by status
func (r *GormSessionRepository) FindByStatus(ctx context.Context, status counting.SessionStatus, filter shared.Filter) ([]counting.CountSession, error) {
	var sessions []counting.CountSession
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&counting.CountSession{}).Preload("Lines").Where("status = ?", status),
		filter,
	)

	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Save creates or updates a count session and its lines
func (r *GormSessionRepository) Save(ctx context.Context, session *counting.CountSession) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(session).Error
}

// Count counts count sessions matching the filter
func (r *GormSessionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&counting.CountSession{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSessionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSessionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("session_number ILIKE ? OR category ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		}
	}

	return query
}

// Ensure GormSessionRepository implements SessionRepository
var _ counting.SessionRepository = (*GormSessionRepository)(nil)
