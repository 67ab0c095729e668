package procurement

import (
	"context"

	"github.com/erp/ledger/internal/domain/procurement"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Supplier invoices =====================

// CreateSupplierInvoice creates a supplier invoice, optionally linked to a PO
// and a set of goods receipts
func (s *ProcurementService) CreateSupplierInvoice(ctx context.Context, req CreateSupplierInvoiceRequest) (*SupplierInvoiceResponse, error) {
	existing, err := s.invoiceRepo.FindByNumber(ctx, req.InvoiceNumber)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("DUPLICATE_INVOICE_NUMBER", "An invoice with this number already exists")
	}

	inv, err := procurement.NewSupplierInvoice(req.InvoiceNumber, req.SupplierReference, req.IssueDate, req.DueDate, req.Currency)
	if err != nil {
		return nil, err
	}

	if req.POID != nil {
		po, err := s.poRepo.FindByID(ctx, *req.POID)
		if err != nil {
			return nil, err
		}
		if err := inv.LinkPurchaseOrder(po); err != nil {
			return nil, err
		}
	}
	for _, ref := range req.ReceiptRefs {
		if err := inv.AddReceiptRef(ref); err != nil {
			return nil, err
		}
	}
	for _, lineReq := range req.Lines {
		if err := inv.AddLine(lineReq.Item, lineReq.Quantity, lineReq.UnitPriceHT, lineReq.TaxRate); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToSupplierInvoiceResponse(inv)
	return &response, nil
}

// SetInvoiceStatus drives supplier invoice transitions: submit, approve,
// reject (with reason) and post
func (s *ProcurementService) SetInvoiceStatus(ctx context.Context, invoiceID uuid.UUID, req SetInvoiceStatusRequest) (*SupplierInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	switch procurement.InvoiceStatus(req.Status) {
	case procurement.InvoiceStatusSubmitted:
		err = inv.Submit()
	case procurement.InvoiceStatusApproved:
		err = inv.Approve()
	case procurement.InvoiceStatusRejected:
		err = inv.Reject(req.Reason)
	case procurement.InvoiceStatusPosted:
		err = inv.Post()
	default:
		return nil, shared.NewValidationError("INVALID_STATUS", "Status must be SUBMITTED, APPROVED, REJECTED or POSTED")
	}
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, inv)

	response := ToSupplierInvoiceResponse(inv)
	return &response, nil
}

// AddPayment records a payment against a supplier invoice, clamped to the
// remaining due. Returns the amount actually applied.
func (s *ProcurementService) AddPayment(ctx context.Context, invoiceID uuid.UUID, req AddPaymentRequest) (*SupplierInvoiceResponse, decimal.Decimal, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	applied, err := inv.RecordPayment(req.Amount)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, decimal.Zero, err
	}

	s.publishDomainEvents(ctx, inv)

	response := ToSupplierInvoiceResponse(inv)
	return &response, applied, nil
}

// MatchInvoice runs the three-way match for an invoice against its linked PO
// and that PO's validated receipts. The verdict is advisory and never blocks
// a transition.
func (s *ProcurementService) MatchInvoice(ctx context.Context, invoiceID uuid.UUID) (*procurement.MatchResult, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	var po *procurement.PurchaseOrder
	var receipts []procurement.GoodsReceipt
	if inv.POID != nil {
		po, err = s.poRepo.FindByID(ctx, *inv.POID)
		if err != nil {
			return nil, err
		}

		validated, err := s.receiptRepo.FindValidatedByPO(ctx, po.ID)
		if err != nil {
			return nil, err
		}
		receipts = make([]procurement.GoodsReceipt, len(validated))
		for i, v := range validated {
			receipts[i] = *v
		}
	}

	result := procurement.Match(po, receipts, inv)
	return &result, nil
}

// GetSupplierInvoice retrieves a supplier invoice by ID
func (s *ProcurementService) GetSupplierInvoice(ctx context.Context, invoiceID uuid.UUID) (*SupplierInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToSupplierInvoiceResponse(inv)
	return &response, nil
}

// ListSupplierInvoices retrieves a paginated list of supplier invoices
func (s *ProcurementService) ListSupplierInvoices(ctx context.Context, filter shared.Filter) ([]SupplierInvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]SupplierInvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = ToSupplierInvoiceResponse(inv)
	}
	return responses, nil
}
