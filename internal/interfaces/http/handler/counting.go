package handler

import (
	countingapp "github.com/erp/ledger/internal/application/counting"
	"github.com/gin-gonic/gin"
)

// CountingHandler handles inventory count session API endpoints
type CountingHandler struct {
	BaseHandler
	countingService *countingapp.CountingService
}

// NewCountingHandler creates a new CountingHandler
func NewCountingHandler(countingService *countingapp.CountingService) *CountingHandler {
	return &CountingHandler{countingService: countingService}
}

// CreateSession opens a new count session with a snapshot of current stock
func (h *CountingHandler) CreateSession(c *gin.Context) {
	var req countingapp.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.countingService.CreateSession(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, session)
}

// RecordCount records the counted quantity for one product line
func (h *CountingHandler) RecordCount(c *gin.Context) {
	sessionID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	reference := c.Param("reference")
	if reference == "" {
		h.BadRequest(c, "Product reference is required")
		return
	}

	var req countingapp.RecordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.countingService.RecordCount(c.Request.Context(), sessionID, reference, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// StartSession moves a draft session to IN_PROGRESS
func (h *CountingHandler) StartSession(c *gin.Context) {
	sessionID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	session, err := h.countingService.StartSession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// ValidateSession closes the session and applies adjustment movements
func (h *CountingHandler) ValidateSession(c *gin.Context) {
	sessionID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	adjustments, err := h.countingService.ValidateSession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, adjustments)
}

// GetSession retrieves a count session with its lines
func (h *CountingHandler) GetSession(c *gin.Context) {
	sessionID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	session, err := h.countingService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// ListSessions lists count sessions with pagination
func (h *CountingHandler) ListSessions(c *gin.Context) {
	filter, err := buildFilter(c, "status", "category")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sessions, total, err := h.countingService.ListSessions(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, sessions, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers all counting routes
func (h *CountingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/count-sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("", h.ListSessions)
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/start", h.StartSession)
		sessions.PUT("/:id/lines/:reference", h.RecordCount)
		sessions.POST("/:id/validate", h.ValidateSession)
	}
}
