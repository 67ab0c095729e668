package handler

import (
	"context"

	fulfillmentapp "github.com/erp/ledger/internal/application/fulfillment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FulfillmentHandler handles sales order, shipment and return API endpoints
type FulfillmentHandler struct {
	BaseHandler
	orderService    *fulfillmentapp.OrderService
	shipmentService *fulfillmentapp.ShipmentService
	returnService   *fulfillmentapp.ReturnService
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(
	orderService *fulfillmentapp.OrderService,
	shipmentService *fulfillmentapp.ShipmentService,
	returnService *fulfillmentapp.ReturnService,
) *FulfillmentHandler {
	return &FulfillmentHandler{
		orderService:    orderService,
		shipmentService: shipmentService,
		returnService:   returnService,
	}
}

// CreateOrder creates a sales order in NEW status
func (h *FulfillmentHandler) CreateOrder(c *gin.Context) {
	var req fulfillmentapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// UpdateOrder patches mutable order fields
func (h *FulfillmentHandler) UpdateOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req fulfillmentapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// ConfirmOrder moves an order from NEW to CONFIRMED
func (h *FulfillmentHandler) ConfirmOrder(c *gin.Context) {
	h.transitionOrder(c, h.orderService.ConfirmOrder)
}

// ReserveOrder reserves stock for a confirmed order and derives its stock state
func (h *FulfillmentHandler) ReserveOrder(c *gin.Context) {
	h.transitionOrder(c, h.orderService.ReserveOrder)
}

// PrepareOrder marks a fully reserved order as prepared
func (h *FulfillmentHandler) PrepareOrder(c *gin.Context) {
	h.transitionOrder(c, h.orderService.PrepareOrder)
}

// DeliverOrder marks a shipped order as delivered
func (h *FulfillmentHandler) DeliverOrder(c *gin.Context) {
	h.transitionOrder(c, h.orderService.DeliverOrder)
}

// CloseOrder closes a delivered order
func (h *FulfillmentHandler) CloseOrder(c *gin.Context) {
	h.transitionOrder(c, h.orderService.CloseOrder)
}

func (h *FulfillmentHandler) transitionOrder(
	c *gin.Context,
	fn func(ctx context.Context, orderID uuid.UUID) (*fulfillmentapp.OrderResponse, error),
) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := fn(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// GetOrder retrieves a sales order with its lines
func (h *FulfillmentHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// ListOrders lists sales orders with pagination
func (h *FulfillmentHandler) ListOrders(c *gin.Context) {
	filter, err := buildFilter(c, "status", "stock_state", "customer_name")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// CreateShipment ships a prepared order
func (h *FulfillmentHandler) CreateShipment(c *gin.Context) {
	var req fulfillmentapp.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.shipmentService.CreateShipment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, shipment)
}

// UpdateShipmentStatus moves a shipment along its lifecycle
func (h *FulfillmentHandler) UpdateShipmentStatus(c *gin.Context) {
	shipmentID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid shipment ID format")
		return
	}

	var req fulfillmentapp.UpdateShipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.shipmentService.UpdateStatus(c.Request.Context(), shipmentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, shipment)
}

// GetShipment retrieves a shipment by ID
func (h *FulfillmentHandler) GetShipment(c *gin.Context) {
	shipmentID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid shipment ID format")
		return
	}

	shipment, err := h.shipmentService.GetShipment(c.Request.Context(), shipmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, shipment)
}

// ListOrderShipments lists the shipments of one order
func (h *FulfillmentHandler) ListOrderShipments(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	shipments, err := h.shipmentService.ListShipmentsByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, shipments)
}

// CreateReturn opens an RMA against a delivered order
func (h *FulfillmentHandler) CreateReturn(c *gin.Context) {
	var req fulfillmentapp.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ret, err := h.returnService.CreateReturn(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, ret)
}

// AdvanceReturn moves a return to its next lifecycle step
func (h *FulfillmentHandler) AdvanceReturn(c *gin.Context) {
	returnID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	ret, err := h.returnService.AdvanceReturn(c.Request.Context(), returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// GetReturn retrieves a return order by ID
func (h *FulfillmentHandler) GetReturn(c *gin.Context) {
	returnID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	ret, err := h.returnService.GetReturn(c.Request.Context(), returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// ListOrderReturns lists the returns of one order
func (h *FulfillmentHandler) ListOrderReturns(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	returns, err := h.returnService.ListReturnsByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, returns)
}

// RegisterRoutes registers all fulfillment routes
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id", h.UpdateOrder)
		orders.POST("/:id/confirm", h.ConfirmOrder)
		orders.POST("/:id/reserve", h.ReserveOrder)
		orders.POST("/:id/prepare", h.PrepareOrder)
		orders.POST("/:id/deliver", h.DeliverOrder)
		orders.POST("/:id/close", h.CloseOrder)
		orders.GET("/:id/shipments", h.ListOrderShipments)
		orders.GET("/:id/returns", h.ListOrderReturns)
	}

	shipments := rg.Group("/shipments")
	{
		shipments.POST("", h.CreateShipment)
		shipments.GET("/:id", h.GetShipment)
		shipments.PUT("/:id/status", h.UpdateShipmentStatus)
	}

	returns := rg.Group("/returns")
	{
		returns.POST("", h.CreateReturn)
		returns.GET("/:id", h.GetReturn)
		returns.POST("/:id/advance", h.AdvanceReturn)
	}
}
