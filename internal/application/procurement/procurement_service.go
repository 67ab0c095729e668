package procurement

import (
	"context"

	"github.com/erp/ledger/internal/domain/procurement"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// ProcurementService handles the PO -> GR -> supplier invoice chain
type ProcurementService struct {
	poRepo         procurement.PurchaseOrderRepository
	receiptRepo    procurement.GoodsReceiptRepository
	invoiceRepo    procurement.SupplierInvoiceRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewProcurementService creates a new ProcurementService
func NewProcurementService(
	poRepo procurement.PurchaseOrderRepository,
	receiptRepo procurement.GoodsReceiptRepository,
	invoiceRepo procurement.SupplierInvoiceRepository,
	txScope TransactionScope,
) *ProcurementService {
	return &ProcurementService{
		poRepo:      poRepo,
		receiptRepo: receiptRepo,
		invoiceRepo: invoiceRepo,
		txScope:     txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProcurementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ProcurementService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		agg.ClearDomainEvents()
	}
}

// ===================== Purchase orders =====================

// CreatePO creates a purchase order with its lines
func (s *ProcurementService) CreatePO(ctx context.Context, req CreatePORequest) (*POResponse, error) {
	existing, err := s.poRepo.FindByNumber(ctx, req.PONumber)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("DUPLICATE_PO_NUMBER", "A purchase order with this number already exists")
	}

	po, err := procurement.NewPurchaseOrder(req.PONumber, req.SupplierReference, req.ExpectedDelivery, req.Currency)
	if err != nil {
		return nil, err
	}

	for _, lineReq := range req.Lines {
		if err := po.AddLine(lineReq.Item, lineReq.Quantity, lineReq.Unit, lineReq.UnitPriceHT, lineReq.TaxRate, lineReq.Discount); err != nil {
			return nil, err
		}
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, po)

	response := ToPOResponse(po)
	return &response, nil
}

// UpdatePO patches a draft purchase order's header
func (s *ProcurementService) UpdatePO(ctx context.Context, poID uuid.UUID, req UpdatePORequest) (*POResponse, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, err
	}

	if err := po.UpdateDetails(req.SupplierReference, req.ExpectedDelivery, req.Currency); err != nil {
		return nil, err
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	response := ToPOResponse(po)
	return &response, nil
}

// SetPOStatus drives the explicit PO transitions. The receiving statuses are
// recomputed by receipt validation and cannot be set directly.
func (s *ProcurementService) SetPOStatus(ctx context.Context, poID uuid.UUID, req SetPOStatusRequest) (*POResponse, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, err
	}

	switch procurement.POStatus(req.Status) {
	case procurement.POStatusValidated:
		err = po.Validate()
	case procurement.POStatusSent:
		err = po.MarkSent()
	case procurement.POStatusClosed:
		err = po.Close()
	default:
		return nil, shared.NewValidationError("INVALID_STATUS", "Status must be VALIDATED, SENT or CLOSED")
	}
	if err != nil {
		return nil, err
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, po)

	response := ToPOResponse(po)
	return &response, nil
}

// GetPO retrieves a purchase order by ID
func (s *ProcurementService) GetPO(ctx context.Context, poID uuid.UUID) (*POResponse, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, err
	}

	response := ToPOResponse(po)
	return &response, nil
}

// ListPOs retrieves a paginated list of purchase orders
func (s *ProcurementService) ListPOs(ctx context.Context, filter shared.Filter) ([]POResponse, int64, error) {
	total, err := s.poRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	pos, err := s.poRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToPOResponses(pos), total, nil
}

// ===================== Goods receipts =====================

// CreateReceipt opens a goods receipt against a PO. The PO is flagged
// PARTIALLY_RECEIVED immediately, even for a full receipt, until the receipt
// is validated.
func (s *ProcurementService) CreateReceipt(ctx context.Context, req CreateReceiptRequest) (*ReceiptResponse, error) {
	var gr *procurement.GoodsReceipt

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		po, err := repos.PORepo().FindByID(ctx, req.POID)
		if err != nil {
			return err
		}

		if err := po.MarkReceiptInProgress(); err != nil {
			return err
		}

		gr, err = procurement.NewGoodsReceipt(req.GRNumber, po, req.ReceiptDate)
		if err != nil {
			return err
		}

		if err := repos.ReceiptRepo().Save(ctx, gr); err != nil {
			return err
		}
		return repos.PORepo().Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, gr)

	response := ToReceiptResponse(gr)
	return &response, nil
}

// UpdateReceiptLine edits one line of a draft receipt
func (s *ProcurementService) UpdateReceiptLine(ctx context.Context, receiptID uuid.UUID, req UpdateReceiptLineRequest) (*ReceiptResponse, error) {
	gr, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	quality := procurement.ReceiptQuality(req.Quality)
	if req.Quality == "" {
		quality = procurement.QualityAccepted
	}
	if err := gr.UpdateLine(req.POLineID, req.ReceivedQty, quality, req.Note); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.Save(ctx, gr); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(gr)
	return &response, nil
}

// ValidateReceipt validates the receipt and recomputes the PO receiving
// status over all validated receipts, in one transaction. The PO upgrades to
// RECEIVED iff every line's cumulative received quantity covers the order.
func (s *ProcurementService) ValidateReceipt(ctx context.Context, receiptID uuid.UUID) (*ReceiptResponse, error) {
	var gr *procurement.GoodsReceipt
	var po *procurement.PurchaseOrder

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		gr, err = repos.ReceiptRepo().FindByID(ctx, receiptID)
		if err != nil {
			return err
		}

		if err := gr.Validate(); err != nil {
			return err
		}
		if err := repos.ReceiptRepo().Save(ctx, gr); err != nil {
			return err
		}

		po, err = repos.PORepo().FindByID(ctx, gr.POID)
		if err != nil {
			return err
		}

		validated, err := repos.ReceiptRepo().FindValidatedByPO(ctx, po.ID)
		if err != nil {
			return err
		}
		receipts := make([]procurement.GoodsReceipt, len(validated))
		for i, v := range validated {
			receipts[i] = *v
		}

		if err := po.ApplyReceipts(procurement.CumulativeReceived(receipts)); err != nil {
			return err
		}
		return repos.PORepo().Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, gr, po)

	response := ToReceiptResponse(gr)
	return &response, nil
}

// GetReceipt retrieves a goods receipt by ID
func (s *ProcurementService) GetReceipt(ctx context.Context, receiptID uuid.UUID) (*ReceiptResponse, error) {
	gr, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	response := ToReceiptResponse(gr)
	return &response, nil
}

// ListReceiptsByPO retrieves the receipts opened against one purchase order
func (s *ProcurementService) ListReceiptsByPO(ctx context.Context, poID uuid.UUID) ([]ReceiptResponse, error) {
	receipts, err := s.receiptRepo.FindByPO(ctx, poID)
	if err != nil {
		return nil, err
	}

	responses := make([]ReceiptResponse, len(receipts))
	for i, gr := range receipts {
		responses[i] = ToReceiptResponse(gr)
	}
	return responses, nil
}
