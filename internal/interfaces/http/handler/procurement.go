package handler

import (
	procurementapp "github.com/erp/ledger/internal/application/procurement"
	"github.com/gin-gonic/gin"
)

// ProcurementHandler handles purchase order, goods receipt and
// supplier invoice API endpoints
type ProcurementHandler struct {
	BaseHandler
	procurementService *procurementapp.ProcurementService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(procurementService *procurementapp.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurementService: procurementService}
}

// CreatePO creates a purchase order in draft
func (h *ProcurementHandler) CreatePO(c *gin.Context) {
	var req procurementapp.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	po, err := h.procurementService.CreatePO(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, po)
}

// UpdatePO patches PO header fields while in draft
func (h *ProcurementHandler) UpdatePO(c *gin.Context) {
	poID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req procurementapp.UpdatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	po, err := h.procurementService.UpdatePO(c.Request.Context(), poID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, po)
}

// SetPOStatus drives an explicit PO transition (validate, send, close)
func (h *ProcurementHandler) SetPOStatus(c *gin.Context) {
	poID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req procurementapp.SetPOStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	po, err := h.procurementService.SetPOStatus(c.Request.Context(), poID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, po)
}

// GetPO retrieves a purchase order with its lines
func (h *ProcurementHandler) GetPO(c *gin.Context) {
	poID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.procurementService.GetPO(c.Request.Context(), poID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, po)
}

// ListPOs lists purchase orders with pagination
func (h *ProcurementHandler) ListPOs(c *gin.Context) {
	filter, err := buildFilter(c, "status", "supplier_reference")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pos, total, err := h.procurementService.ListPOs(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, pos, total, filter.Page, filter.PageSize)
}

// CreateReceipt opens a goods receipt against a sent purchase order
func (h *ProcurementHandler) CreateReceipt(c *gin.Context) {
	var req procurementapp.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.procurementService.CreateReceipt(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, receipt)
}

// UpdateReceiptLine edits one receipt line while the receipt is in draft
func (h *ProcurementHandler) UpdateReceiptLine(c *gin.Context) {
	receiptID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	var req procurementapp.UpdateReceiptLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.procurementService.UpdateReceiptLine(c.Request.Context(), receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// ValidateReceipt validates a receipt and posts receiving movements
func (h *ProcurementHandler) ValidateReceipt(c *gin.Context) {
	receiptID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.procurementService.ValidateReceipt(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// GetReceipt retrieves a goods receipt with its lines
func (h *ProcurementHandler) GetReceipt(c *gin.Context) {
	receiptID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.procurementService.GetReceipt(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// ListPOReceipts lists the receipts recorded against one purchase order
func (h *ProcurementHandler) ListPOReceipts(c *gin.Context) {
	poID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	receipts, err := h.procurementService.ListReceiptsByPO(c.Request.Context(), poID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipts)
}

// CreateSupplierInvoice creates a supplier invoice, optionally linked to a PO
func (h *ProcurementHandler) CreateSupplierInvoice(c *gin.Context) {
	var req procurementapp.CreateSupplierInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.procurementService.CreateSupplierInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// SetSupplierInvoiceStatus drives supplier invoice transitions
func (h *ProcurementHandler) SetSupplierInvoiceStatus(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req procurementapp.SetInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.procurementService.SetInvoiceStatus(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// AddSupplierInvoicePayment records a payment against a posted invoice
func (h *ProcurementHandler) AddSupplierInvoicePayment(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req procurementapp.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, remaining, err := h.procurementService.AddPayment(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"invoice":   invoice,
		"remaining": remaining,
	})
}

// MatchSupplierInvoice runs the three-way match for an invoice
func (h *ProcurementHandler) MatchSupplierInvoice(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	result, err := h.procurementService.MatchInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetSupplierInvoice retrieves a supplier invoice with its lines
func (h *ProcurementHandler) GetSupplierInvoice(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.procurementService.GetSupplierInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// ListSupplierInvoices lists supplier invoices with filtering
func (h *ProcurementHandler) ListSupplierInvoices(c *gin.Context) {
	filter, err := buildFilter(c, "status", "supplier_reference", "unlinked")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoices, err := h.procurementService.ListSupplierInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoices)
}

// RegisterRoutes registers all procurement routes
func (h *ProcurementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pos := rg.Group("/purchase-orders")
	{
		pos.POST("", h.CreatePO)
		pos.GET("", h.ListPOs)
		pos.GET("/:id", h.GetPO)
		pos.PUT("/:id", h.UpdatePO)
		pos.PUT("/:id/status", h.SetPOStatus)
		pos.GET("/:id/receipts", h.ListPOReceipts)
	}

	receipts := rg.Group("/goods-receipts")
	{
		receipts.POST("", h.CreateReceipt)
		receipts.GET("/:id", h.GetReceipt)
		receipts.PUT("/:id/lines", h.UpdateReceiptLine)
		receipts.POST("/:id/validate", h.ValidateReceipt)
	}

	invoices := rg.Group("/supplier-invoices")
	{
		invoices.POST("", h.CreateSupplierInvoice)
		invoices.GET("", h.ListSupplierInvoices)
		invoices.GET("/:id", h.GetSupplierInvoice)
		invoices.PUT("/:id/status", h.SetSupplierInvoiceStatus)
		invoices.POST("/:id/payments", h.AddSupplierInvoicePayment)
		invoices.GET("/:id/match", h.MatchSupplierInvoice)
	}
}
