package handler

import (
	stockapp "github.com/erp/ledger/internal/application/stock"
	"github.com/gin-gonic/gin"
)

// StockHandler handles product and stock movement API endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// CreateProduct registers a new product in the ledger
func (h *StockHandler) CreateProduct(c *gin.Context) {
	var req stockapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.stockService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// UpdateProduct updates product details
func (h *StockHandler) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req stockapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.stockService.UpdateProduct(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// GetProduct retrieves a product by ID
func (h *StockHandler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.stockService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// GetProductByReference retrieves a product by its unique reference
func (h *StockHandler) GetProductByReference(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		h.BadRequest(c, "Product reference is required")
		return
	}

	product, err := h.stockService.GetProductByReference(c.Request.Context(), reference)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// ListProducts lists products with pagination and filtering
func (h *StockHandler) ListProducts(c *gin.Context) {
	filter, err := buildFilter(c, "category", "unit")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if c.Query("below_threshold") == "true" {
		if filter.Filters == nil {
			filter.Filters = make(map[string]interface{})
		}
		filter.Filters["below_threshold"] = true
	}

	products, total, err := h.stockService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// RecordMovement records a manual stock movement against a product
func (h *StockHandler) RecordMovement(c *gin.Context) {
	var req stockapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.stockService.RecordMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// ListMovements lists movements across all products
func (h *StockHandler) ListMovements(c *gin.Context) {
	filter, err := buildFilter(c, "type", "source", "product_reference", "since", "until")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// ListProductMovements lists the movement history of one product
func (h *StockHandler) ListProductMovements(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	filter, err := buildFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.stockService.ListMovementsByProduct(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}

// ListAlerts lists products at or below their minimum threshold
func (h *StockHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.stockService.ListAlerts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alerts)
}

// RegisterRoutes registers all stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/reference/:reference", h.GetProductByReference)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.GET("/:id/movements", h.ListProductMovements)
	}

	movements := rg.Group("/movements")
	{
		movements.POST("", h.RecordMovement)
		movements.GET("", h.ListMovements)
	}

	rg.GET("/alerts", h.ListAlerts)
}
