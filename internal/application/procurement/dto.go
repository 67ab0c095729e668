package procurement

import (
	"time"

	"github.com/erp/ledger/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// POLineRequest is one line of a create-PO request
type POLineRequest struct {
	Item        string          `json:"item" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Unit        string          `json:"unit"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Discount    decimal.Decimal `json:"discount"`
}

// CreatePORequest is the request to create a purchase order
type CreatePORequest struct {
	PONumber          string          `json:"po_number" binding:"required"`
	SupplierReference string          `json:"supplier_reference" binding:"required"`
	ExpectedDelivery  time.Time       `json:"expected_delivery"`
	Currency          string          `json:"currency"`
	Lines             []POLineRequest `json:"lines"`
}

// UpdatePORequest patches PO header fields while in draft
type UpdatePORequest struct {
	SupplierReference string    `json:"supplier_reference"`
	ExpectedDelivery  time.Time `json:"expected_delivery"`
	Currency          string    `json:"currency"`
}

// SetPOStatusRequest drives explicit PO transitions (validate, send, close)
type SetPOStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateReceiptRequest opens a goods receipt against a purchase order
type CreateReceiptRequest struct {
	GRNumber    string    `json:"gr_number" binding:"required"`
	POID        uuid.UUID `json:"po_id" binding:"required"`
	ReceiptDate time.Time `json:"receipt_date"`
}

// UpdateReceiptLineRequest edits one receipt line while in draft
type UpdateReceiptLineRequest struct {
	POLineID    uuid.UUID       `json:"po_line_id" binding:"required"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	Quality     string          `json:"quality"`
	Note        string          `json:"note"`
}

// InvoiceLineRequest is one line of a supplier invoice
type InvoiceLineRequest struct {
	Item        string          `json:"item" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreateSupplierInvoiceRequest creates a supplier invoice, optionally linked
// to a PO and a set of receipts
type CreateSupplierInvoiceRequest struct {
	InvoiceNumber     string               `json:"invoice_number" binding:"required"`
	SupplierReference string               `json:"supplier_reference" binding:"required"`
	POID              *uuid.UUID           `json:"po_id"`
	ReceiptRefs       []string             `json:"receipt_refs"`
	IssueDate         time.Time            `json:"issue_date"`
	DueDate           time.Time            `json:"due_date"`
	Currency          string               `json:"currency"`
	Lines             []InvoiceLineRequest `json:"lines"`
}

// SetInvoiceStatusRequest drives supplier invoice transitions. Reason is
// required for rejection.
type SetInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// AddPaymentRequest records a payment against a supplier invoice
type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// POLineResponse is the API representation of a PO line
type POLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	Item        string          `json:"item"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Discount    decimal.Decimal `json:"discount"`
}

// POResponse is the API representation of a purchase order
type POResponse struct {
	ID                uuid.UUID        `json:"id"`
	PONumber          string           `json:"po_number"`
	SupplierReference string           `json:"supplier_reference"`
	Status            string           `json:"status"`
	ExpectedDelivery  time.Time        `json:"expected_delivery"`
	Currency          string           `json:"currency"`
	TotalHT           decimal.Decimal  `json:"total_ht"`
	Lines             []POLineResponse `json:"lines"`
}

// ReceiptLineResponse is the API representation of a receipt line
type ReceiptLineResponse struct {
	POLineID    uuid.UUID       `json:"po_line_id"`
	Item        string          `json:"item"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	Quality     string          `json:"quality"`
	Note        string          `json:"note,omitempty"`
}

// ReceiptResponse is the API representation of a goods receipt
type ReceiptResponse struct {
	ID          uuid.UUID             `json:"id"`
	GRNumber    string                `json:"gr_number"`
	PONumber    string                `json:"po_number"`
	Status      string                `json:"status"`
	ReceiptDate time.Time             `json:"receipt_date"`
	DisputeNote string                `json:"dispute_note,omitempty"`
	Lines       []ReceiptLineResponse `json:"lines"`
}

// SupplierInvoiceResponse is the API representation of a supplier invoice
type SupplierInvoiceResponse struct {
	ID                uuid.UUID                 `json:"id"`
	InvoiceNumber     string                    `json:"invoice_number"`
	SupplierReference string                    `json:"supplier_reference"`
	PONumber          string                    `json:"po_number,omitempty"`
	ReceiptRefs       []string                  `json:"receipt_refs"`
	IssueDate         time.Time                 `json:"issue_date"`
	DueDate           time.Time                 `json:"due_date"`
	Status            string                    `json:"status"`
	RejectionReason   string                    `json:"rejection_reason,omitempty"`
	Currency          string                    `json:"currency"`
	TotalPaid         decimal.Decimal           `json:"total_paid"`
	Totals            procurement.InvoiceTotals `json:"totals"`
}

// ToPOResponse converts a domain purchase order
func ToPOResponse(po *procurement.PurchaseOrder) POResponse {
	lines := make([]POLineResponse, len(po.Lines))
	for i, line := range po.Lines {
		lines[i] = POLineResponse{
			ID:          line.ID,
			Item:        line.Item,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			UnitPriceHT: line.UnitPriceHT,
			TaxRate:     line.TaxRate,
			Discount:    line.Discount,
		}
	}

	return POResponse{
		ID:                po.ID,
		PONumber:          po.PONumber,
		SupplierReference: po.SupplierReference,
		Status:            po.Status.String(),
		ExpectedDelivery:  po.ExpectedDelivery,
		Currency:          po.Currency,
		TotalHT:           po.TotalHT(),
		Lines:             lines,
	}
}

// ToPOResponses converts a slice of purchase orders
func ToPOResponses(pos []*procurement.PurchaseOrder) []POResponse {
	responses := make([]POResponse, len(pos))
	for i, po := range pos {
		responses[i] = ToPOResponse(po)
	}
	return responses
}

// ToReceiptResponse converts a domain goods receipt
func ToReceiptResponse(gr *procurement.GoodsReceipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, len(gr.Lines))
	for i, line := range gr.Lines {
		lines[i] = ReceiptLineResponse{
			POLineID:    line.POLineID,
			Item:        line.Item,
			OrderedQty:  line.OrderedQty,
			ReceivedQty: line.ReceivedQty,
			Quality:     string(line.Quality),
			Note:        line.Note,
		}
	}

	return ReceiptResponse{
		ID:          gr.ID,
		GRNumber:    gr.GRNumber,
		PONumber:    gr.PONumber,
		Status:      gr.Status.String(),
		ReceiptDate: gr.ReceiptDate,
		DisputeNote: gr.DisputeNote,
		Lines:       lines,
	}
}

// ToSupplierInvoiceResponse converts a domain supplier invoice
func ToSupplierInvoiceResponse(inv *procurement.SupplierInvoice) SupplierInvoiceResponse {
	return SupplierInvoiceResponse{
		ID:                inv.ID,
		InvoiceNumber:     inv.InvoiceNumber,
		SupplierReference: inv.SupplierReference,
		PONumber:          inv.PONumber,
		ReceiptRefs:       inv.ReceiptRefs,
		IssueDate:         inv.IssueDate,
		DueDate:           inv.DueDate,
		Status:            inv.Status.String(),
		RejectionReason:   inv.RejectionReason,
		Currency:          inv.Currency,
		TotalPaid:         inv.TotalPaid,
		Totals:            inv.Totals(),
	}
}
