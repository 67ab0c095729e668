package handler

import (
	"errors"
	"net/http"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the header carrying the request correlation ID.
const RequestIDKey = "X-Request-ID"

// BaseHandler is embedded by every HTTP handler and supplies the
// response helpers that keep the envelope shape uniform.
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

// Success writes a 200 with the standard envelope.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 carrying pagination metadata.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created writes a 201 with the standard envelope.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes an empty 204.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes an error envelope with the given status and error code.
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest writes a 400.
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound writes a 404.
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Conflict writes a 409.
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError writes a 500.
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError writes a 400 with per-field validation details.
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// HandleDomainError maps a domain error onto an HTTP response. The domain
// error code is passed through unchanged so clients can branch on it;
// anything that is not a DomainError becomes an opaque 500.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.StatusForKind(domainErr.Kind), domainErr.Code, domainErr.Message)
		return
	}

	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}
