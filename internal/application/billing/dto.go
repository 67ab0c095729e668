package billing

import (
	"time"

	"github.com/erp/ledger/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLineRequest is a single invoice line in a create request
type InvoiceLineRequest struct {
	Label     string          `json:"label" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// TaxProfileRequest carries the tax parameters of a new invoice
type TaxProfileRequest struct {
	TVARate     decimal.Decimal `json:"tva_rate"`
	FodecRate   decimal.Decimal `json:"fodec_rate"`
	Timbre      decimal.Decimal `json:"timbre"`
	RetenueRate decimal.Decimal `json:"retenue_rate"`
}

// CreateInvoiceRequest creates a sales invoice in DRAFT status
type CreateInvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number" binding:"required"`
	CustomerName  string               `json:"customer_name" binding:"required"`
	Direction     string               `json:"direction"`
	IssueDate     time.Time            `json:"issue_date"`
	DueDate       time.Time            `json:"due_date"`
	Currency      string               `json:"currency"`
	Taxes         TaxProfileRequest    `json:"taxes"`
	Lines         []InvoiceLineRequest `json:"lines"`
}

// RecordPaymentRequest records a payment against an invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ChangeDueDateRequest moves the invoice due date
type ChangeDueDateRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
}

// InvoiceLineResponse is the API representation of an invoice line
type InvoiceLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	Label     string          `json:"label"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// InvoiceResponse is the API representation of a sales invoice, with the
// computed tax breakdown embedded
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerName  string                `json:"customer_name"`
	Direction     string                `json:"direction"`
	IssueDate     time.Time             `json:"issue_date"`
	DueDate       time.Time             `json:"due_date"`
	Status        string                `json:"status"`
	Currency      string                `json:"currency"`
	Lines         []InvoiceLineResponse `json:"lines"`
	Taxes         billing.TaxProfile    `json:"taxes"`
	Totals        billing.InvoiceTotals `json:"totals"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	SentAt        *time.Time            `json:"sent_at,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to an API response
func ToInvoiceResponse(inv *billing.SalesInvoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, line := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			ID:        line.ID,
			Label:     line.Label,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Amount:    line.Amount(),
		}
	}

	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		Direction:     string(inv.Direction),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Status:        inv.Status.String(),
		Currency:      inv.Currency,
		Lines:         lines,
		Taxes:         inv.Taxes,
		Totals:        inv.Totals(),
		PaidAmount:    inv.PaidAmount,
		SentAt:        inv.SentAt,
		PaidAt:        inv.PaidAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}
