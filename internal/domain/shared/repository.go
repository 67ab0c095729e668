package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the common contract for aggregate persistence.
// Context-specific repositories extend it with their own finders.
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Filter carries pagination, ordering and field filters for list
// queries. A zero Page or PageSize disables pagination.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter lists the newest 20 records first.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Offset translates the 1-based page number into a row offset.
func (f Filter) Offset() int {
	if f.Page <= 0 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated wraps one page of results with its pagination metadata.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated computes TotalPages by rounding total up to whole pages.
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
