package handler

import (
	billingapp "github.com/erp/ledger/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// BillingHandler handles sales invoice API endpoints
type BillingHandler struct {
	BaseHandler
	billingService *billingapp.BillingService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(billingService *billingapp.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// CreateInvoice creates a sales invoice in draft
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req billingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.billingService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// AddInvoiceLine appends a line to a draft invoice
func (h *BillingHandler) AddInvoiceLine(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.InvoiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.billingService.AddInvoiceLine(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// SendInvoice freezes the invoice content and marks it as sent
func (h *BillingHandler) SendInvoice(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.billingService.SendInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// RecordPayment records a payment against a sent invoice
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, remaining, err := h.billingService.RecordPayment(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"invoice":   invoice,
		"remaining": remaining,
	})
}

// ChangeDueDate moves the invoice due date
func (h *BillingHandler) ChangeDueDate(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.ChangeDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.billingService.ChangeDueDate(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// RefreshOverdue sweeps sent invoices past their due date into OVERDUE
func (h *BillingHandler) RefreshOverdue(c *gin.Context) {
	count, err := h.billingService.RefreshOverdue(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"updated": count})
}

// GetInvoice retrieves an invoice with its computed totals
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.billingService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// GetInvoiceTotals returns the tax breakdown for an invoice
func (h *BillingHandler) GetInvoiceTotals(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	totals, err := h.billingService.GetInvoiceTotals(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, totals)
}

// ListInvoices lists sales invoices with pagination
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	filter, err := buildFilter(c, "status", "direction", "customer_name")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoices, total, err := h.billingService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers all billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.GET("/:id/totals", h.GetInvoiceTotals)
		invoices.POST("/:id/lines", h.AddInvoiceLine)
		invoices.POST("/:id/send", h.SendInvoice)
		invoices.POST("/:id/payments", h.RecordPayment)
		invoices.PUT("/:id/due-date", h.ChangeDueDate)
		invoices.POST("/refresh-overdue", h.RefreshOverdue)
	}
}
