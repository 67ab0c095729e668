package handler

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseIDParam parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// buildFilter converts list query parameters into a repository filter.
// Extra keys name query parameters that become equality filters.
func buildFilter(c *gin.Context, extraKeys ...string) (shared.Filter, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	for _, key := range extraKeys {
		if v := c.Query(key); v != "" {
			if filter.Filters == nil {
				filter.Filters = make(map[string]interface{})
			}
			filter.Filters[key] = v
		}
	}

	return filter, nil
}
