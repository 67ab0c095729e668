package billing

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/billing"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingService handles sales invoice lifecycle, tax computation and
// payments. Invoices are single-aggregate operations so no transaction scope
// is involved.
type BillingService struct {
	invoiceRepo    billing.SalesInvoiceRepository
	eventPublisher shared.EventPublisher
}

// NewBillingService creates a new billing service
func NewBillingService(invoiceRepo billing.SalesInvoiceRepository) *BillingService {
	return &BillingService{
		invoiceRepo: invoiceRepo,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *BillingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BillingService) publishDomainEvents(ctx context.Context, inv *billing.SalesInvoice) {
	if s.eventPublisher == nil {
		inv.ClearDomainEvents()
		return
	}
	events := inv.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	inv.ClearDomainEvents()
}

// CreateInvoice creates a sales invoice in DRAFT status with its tax profile
// and initial lines
func (s *BillingService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	existing, err := s.invoiceRepo.FindByNumber(ctx, req.InvoiceNumber)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("DUPLICATE_INVOICE_NUMBER", "An invoice with this number already exists")
	}

	direction := billing.Direction(req.Direction)
	if req.Direction == "" {
		direction = billing.DirectionOut
	}
	taxes := billing.TaxProfile{
		TVARate:     req.Taxes.TVARate,
		FodecRate:   req.Taxes.FodecRate,
		Timbre:      req.Taxes.Timbre,
		RetenueRate: req.Taxes.RetenueRate,
	}

	inv, err := billing.NewSalesInvoice(req.InvoiceNumber, req.CustomerName, direction, req.IssueDate, req.DueDate, req.Currency, taxes)
	if err != nil {
		return nil, err
	}

	for _, lineReq := range req.Lines {
		if err := inv.AddLine(lineReq.Label, lineReq.Quantity, lineReq.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// AddInvoiceLine adds a line to a draft invoice
func (s *BillingService) AddInvoiceLine(ctx context.Context, invoiceID uuid.UUID, req InvoiceLineRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.AddLine(req.Label, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// SendInvoice moves the invoice out of DRAFT. An invoice whose due date has
// already passed lands directly in OVERDUE.
func (s *BillingService) SendInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.Send(time.Now()); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// RecordPayment records a payment against the invoice, clamped to the
// remaining due. Returns the amount actually applied.
func (s *BillingService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, decimal.Decimal, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	applied, err := inv.RecordPayment(req.Amount, time.Now())
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, decimal.Zero, err
	}

	s.publishDomainEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, applied, nil
}

// ChangeDueDate moves the due date and recomputes the status, so extending an
// overdue invoice brings it back to SENT
func (s *BillingService) ChangeDueDate(ctx context.Context, invoiceID uuid.UUID, req ChangeDueDateRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.ChangeDueDate(req.DueDate, time.Now()); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// RefreshOverdue sweeps sent invoices whose due date has passed and marks
// them OVERDUE. Returns the number of invoices whose status changed.
func (s *BillingService) RefreshOverdue(ctx context.Context) (int, error) {
	now := time.Now()
	invoices, err := s.invoiceRepo.FindDueBefore(ctx, now)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, inv := range invoices {
		before := inv.Status
		inv.RefreshStatus(now)
		if inv.Status == before {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return changed, err
		}
		s.publishDomainEvents(ctx, inv)
		changed++
	}
	return changed, nil
}

// GetInvoice retrieves an invoice by ID
func (s *BillingService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetInvoiceTotals returns the computed tax breakdown of an invoice
func (s *BillingService) GetInvoiceTotals(ctx context.Context, invoiceID uuid.UUID) (*billing.InvoiceTotals, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	totals := inv.Totals()
	return &totals, nil
}

// ListInvoices retrieves a paginated list of invoices
func (s *BillingService) ListInvoices(ctx context.Context, filter shared.Filter) ([]InvoiceResponse, int64, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = ToInvoiceResponse(inv)
	}
	return responses, total, nil
}
