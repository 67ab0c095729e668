// Package memrepo provides in-memory repository implementations used by
// application service tests. They honor the not-found semantics of the real
// GORM repositories but keep everything in maps.
package memrepo

import (
	"context"
	"sync"
	"time"

	"github.com/erp/ledger/internal/domain/billing"
	"github.com/erp/ledger/internal/domain/counting"
	"github.com/erp/ledger/internal/domain/fulfillment"
	"github.com/erp/ledger/internal/domain/procurement"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/stock"
	"github.com/google/uuid"
)

// EventRecorder captures published domain events for assertions
type EventRecorder struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

// NewEventRecorder creates an empty recorder
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Publish records the events
func (r *EventRecorder) Publish(_ context.Context, events ...shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

// Events returns the recorded events
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shared.DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// EventTypes returns the recorded event types in publication order
func (r *EventRecorder) EventTypes() []string {
	events := r.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}

var _ shared.EventPublisher = (*EventRecorder)(nil)

// ===================== Stock =====================

// ProductRepo is an in-memory stock.ProductRepository
type ProductRepo struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*stock.Product
}

// NewProductRepo creates an empty product repository
func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: make(map[uuid.UUID]*stock.Product)}
}

func (r *ProductRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
	}
	return p, nil
}

func (r *ProductRepo) FindByReference(_ context.Context, reference string) (*stock.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.Reference == reference {
			return p, nil
		}
	}
	return nil, shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
}

func (r *ProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]stock.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]stock.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *ProductRepo) FindByCategory(_ context.Context, category string, _ shared.Filter) ([]stock.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []stock.Product
	for _, p := range r.products {
		if p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *ProductRepo) Save(_ context.Context, product *stock.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *ProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

var _ stock.ProductRepository = (*ProductRepo)(nil)

// MovementRepo is an in-memory append-only stock.MovementRepository
type MovementRepo struct {
	mu        sync.RWMutex
	movements []*stock.Movement
}

// NewMovementRepo creates an empty movement repository
func NewMovementRepo() *MovementRepo {
	return &MovementRepo{}
}

func (r *MovementRepo) Append(_ context.Context, movement *stock.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, movement)
	return nil
}

func (r *MovementRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.NewNotFoundError("MOVEMENT_NOT_FOUND", "Movement not found")
}

func (r *MovementRepo) FindByProduct(_ context.Context, productID uuid.UUID, _ shared.Filter) ([]stock.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []stock.Movement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *MovementRepo) FindBySource(_ context.Context, source stock.MovementSource, refDocument string) ([]stock.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []stock.Movement
	for _, m := range r.movements {
		if m.Source == source && m.RefDocument == refDocument {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *MovementRepo) FindAll(_ context.Context, _ shared.Filter) ([]stock.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]stock.Movement, len(r.movements))
	for i, m := range r.movements {
		out[i] = *m
	}
	return out, nil
}

func (r *MovementRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.movements)), nil
}

var _ stock.MovementRepository = (*MovementRepo)(nil)

// ===================== Counting =====================

// SessionRepo is an in-memory counting.SessionRepository
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*counting.CountSession
}

// NewSessionRepo creates an empty session repository
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[uuid.UUID]*counting.CountSession)}
}

func (r *SessionRepo) FindByID(_ context.Context, id uuid.UUID) (*counting.CountSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, shared.NewNotFoundError("SESSION_NOT_FOUND", "Count session not found")
	}
	return s, nil
}

func (r *SessionRepo) FindByNumber(_ context.Context, sessionNumber string) (*counting.CountSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if s.SessionNumber == sessionNumber {
			return s, nil
		}
	}
	return nil, shared.NewNotFoundError("SESSION_NOT_FOUND", "Count session not found")
}

func (r *SessionRepo) FindAll(_ context.Context, _ shared.Filter) ([]counting.CountSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]counting.CountSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (r *SessionRepo) FindByStatus(_ context.Context, status counting.SessionStatus, _ shared.Filter) ([]counting.CountSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []counting.CountSession
	for _, s := range r.sessions {
		if s.Status == status {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *SessionRepo) Save(_ context.Context, session *counting.CountSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *SessionRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.sessions)), nil
}

var _ counting.SessionRepository = (*SessionRepo)(nil)

// ===================== Fulfillment =====================

// OrderRepo is an in-memory fulfillment.OrderRepository
type OrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*fulfillment.SalesOrder
}

// NewOrderRepo creates an empty order repository
func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: make(map[uuid.UUID]*fulfillment.SalesOrder)}
}

func (r *OrderRepo) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.NewNotFoundError("ORDER_NOT_FOUND", "Sales order not found")
	}
	return o, nil
}

func (r *OrderRepo) FindByNumber(_ context.Context, orderNumber string) (*fulfillment.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.NewNotFoundError("ORDER_NOT_FOUND", "Sales order not found")
}

func (r *OrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]*fulfillment.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*fulfillment.SalesOrder, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepo) FindByStatus(_ context.Context, status fulfillment.OrderStatus, _ shared.Filter) ([]*fulfillment.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*fulfillment.SalesOrder
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *OrderRepo) Save(_ context.Context, order *fulfillment.SalesOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *OrderRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

var _ fulfillment.OrderRepository = (*OrderRepo)(nil)

// ShipmentRepo is an in-memory fulfillment.ShipmentRepository
type ShipmentRepo struct {
	mu        sync.RWMutex
	shipments map[uuid.UUID]*fulfillment.Shipment
}

// NewShipmentRepo creates an empty shipment repository
func NewShipmentRepo() *ShipmentRepo {
	return &ShipmentRepo{shipments: make(map[uuid.UUID]*fulfillment.Shipment)}
}

func (r *ShipmentRepo) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shipments[id]
	if !ok {
		return nil, shared.NewNotFoundError("SHIPMENT_NOT_FOUND", "Shipment not found")
	}
	return s, nil
}

func (r *ShipmentRepo) FindByNumber(_ context.Context, shipmentNumber string) (*fulfillment.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.shipments {
		if s.ShipmentNumber == shipmentNumber {
			return s, nil
		}
	}
	return nil, shared.NewNotFoundError("SHIPMENT_NOT_FOUND", "Shipment not found")
}

func (r *ShipmentRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]*fulfillment.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*fulfillment.Shipment
	for _, s := range r.shipments {
		if s.OrderID == orderID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *ShipmentRepo) FindAll(_ context.Context, _ shared.Filter) ([]*fulfillment.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*fulfillment.Shipment, 0, len(r.shipments))
	for _, s := range r.shipments {
		out = append(out, s)
	}
	return out, nil
}

func (r *ShipmentRepo) Save(_ context.Context, shipment *fulfillment.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shipments[shipment.ID] = shipment
	return nil
}

var _ fulfillment.ShipmentRepository = (*ShipmentRepo)(nil)

// ReturnRepo is an in-memory fulfillment.ReturnRepository
type ReturnRepo struct {
	mu      sync.RWMutex
	returns map[uuid.UUID]*fulfillment.ReturnOrder
}

// NewReturnRepo creates an empty return repository
func NewReturnRepo() *ReturnRepo {
	return &ReturnRepo{returns: make(map[uuid.UUID]*fulfillment.ReturnOrder)}
}

func (r *ReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.ReturnOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret, ok := r.returns[id]
	if !ok {
		return nil, shared.NewNotFoundError("RETURN_NOT_FOUND", "Return order not found")
	}
	return ret, nil
}

func (r *ReturnRepo) FindByNumber(_ context.Context, returnNumber string) (*fulfillment.ReturnOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ret := range r.returns {
		if ret.ReturnNumber == returnNumber {
			return ret, nil
		}
	}
	return nil, shared.NewNotFoundError("RETURN_NOT_FOUND", "Return order not found")
}

func (r *ReturnRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]*fulfillment.ReturnOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*fulfillment.ReturnOrder
	for _, ret := range r.returns {
		if ret.OrderID == orderID {
			out = append(out, ret)
		}
	}
	return out, nil
}

func (r *ReturnRepo) FindAll(_ context.Context, _ shared.Filter) ([]*fulfillment.ReturnOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*fulfillment.ReturnOrder, 0, len(r.returns))
	for _, ret := range r.returns {
		out = append(out, ret)
	}
	return out, nil
}

func (r *ReturnRepo) Save(_ context.Context, ret *fulfillment.ReturnOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.returns[ret.ID] = ret
	return nil
}

var _ fulfillment.ReturnRepository = (*ReturnRepo)(nil)

// ===================== Procurement =====================

// PurchaseOrderRepo is an in-memory procurement.PurchaseOrderRepository
type PurchaseOrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*procurement.PurchaseOrder
}

// NewPurchaseOrderRepo creates an empty purchase order repository
func NewPurchaseOrderRepo() *PurchaseOrderRepo {
	return &PurchaseOrderRepo{orders: make(map[uuid.UUID]*procurement.PurchaseOrder)}
}

func (r *PurchaseOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	po, ok := r.orders[id]
	if !ok {
		return nil, shared.NewNotFoundError("PO_NOT_FOUND", "Purchase order not found")
	}
	return po, nil
}

func (r *PurchaseOrderRepo) FindByNumber(_ context.Context, poNumber string) (*procurement.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, po := range r.orders {
		if po.PONumber == poNumber {
			return po, nil
		}
	}
	return nil, shared.NewNotFoundError("PO_NOT_FOUND", "Purchase order not found")
}

func (r *PurchaseOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]*procurement.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*procurement.PurchaseOrder, 0, len(r.orders))
	for _, po := range r.orders {
		out = append(out, po)
	}
	return out, nil
}

func (r *PurchaseOrderRepo) FindByStatus(_ context.Context, status procurement.POStatus, _ shared.Filter) ([]*procurement.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*procurement.PurchaseOrder
	for _, po := range r.orders {
		if po.Status == status {
			out = append(out, po)
		}
	}
	return out, nil
}

func (r *PurchaseOrderRepo) Save(_ context.Context, po *procurement.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[po.ID] = po
	return nil
}

func (r *PurchaseOrderRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

var _ procurement.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// GoodsReceiptRepo is an in-memory procurement.GoodsReceiptRepository
type GoodsReceiptRepo struct {
	mu       sync.RWMutex
	receipts map[uuid.UUID]*procurement.GoodsReceipt
}

// NewGoodsReceiptRepo creates an empty goods receipt repository
func NewGoodsReceiptRepo() *GoodsReceiptRepo {
	return &GoodsReceiptRepo{receipts: make(map[uuid.UUID]*procurement.GoodsReceipt)}
}

func (r *GoodsReceiptRepo) FindByID(_ context.Context, id uuid.UUID) (*procurement.GoodsReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gr, ok := r.receipts[id]
	if !ok {
		return nil, shared.NewNotFoundError("RECEIPT_NOT_FOUND", "Goods receipt not found")
	}
	return gr, nil
}

func (r *GoodsReceiptRepo) FindByNumber(_ context.Context, grNumber string) (*procurement.GoodsReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, gr := range r.receipts {
		if gr.GRNumber == grNumber {
			return gr, nil
		}
	}
	return nil, shared.NewNotFoundError("RECEIPT_NOT_FOUND", "Goods receipt not found")
}

func (r *GoodsReceiptRepo) FindByPO(_ context.Context, poID uuid.UUID) ([]*procurement.GoodsReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*procurement.GoodsReceipt
	for _, gr := range r.receipts {
		if gr.POID == poID {
			out = append(out, gr)
		}
	}
	return out, nil
}

func (r *GoodsReceiptRepo) FindValidatedByPO(_ context.Context, poID uuid.UUID) ([]*procurement.GoodsReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*procurement.GoodsReceipt
	for _, gr := range r.receipts {
		if gr.POID == poID && gr.Status == procurement.GRStatusValidated {
			out = append(out, gr)
		}
	}
	return out, nil
}

func (r *GoodsReceiptRepo) FindAll(_ context.Context, _ shared.Filter) ([]*procurement.GoodsReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*procurement.GoodsReceipt, 0, len(r.receipts))
	for _, gr := range r.receipts {
		out = append(out, gr)
	}
	return out, nil
}

func (r *GoodsReceiptRepo) Save(_ context.Context, gr *procurement.GoodsReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts[gr.ID] = gr
	return nil
}

var _ procurement.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

// SupplierInvoiceRepo is an in-memory procurement.SupplierInvoiceRepository
type SupplierInvoiceRepo struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]*procurement.SupplierInvoice
}

// NewSupplierInvoiceRepo creates an empty supplier invoice repository
func NewSupplierInvoiceRepo() *SupplierInvoiceRepo {
	return &SupplierInvoiceRepo{invoices: make(map[uuid.UUID]*procurement.SupplierInvoice)}
}

func (r *SupplierInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*procurement.SupplierInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.NewNotFoundError("INVOICE_NOT_FOUND", "Supplier invoice not found")
	}
	return inv, nil
}

func (r *SupplierInvoiceRepo) FindByNumber(_ context.Context, invoiceNumber string) (*procurement.SupplierInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			return inv, nil
		}
	}
	return nil, shared.NewNotFoundError("INVOICE_NOT_FOUND", "Supplier invoice not found")
}

func (r *SupplierInvoiceRepo) FindByPO(_ context.Context, poID uuid.UUID) ([]*procurement.SupplierInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*procurement.SupplierInvoice
	for _, inv := range r.invoices {
		if inv.POID != nil && *inv.POID == poID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *SupplierInvoiceRepo) FindAll(_ context.Context, _ shared.Filter) ([]*procurement.SupplierInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*procurement.SupplierInvoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (r *SupplierInvoiceRepo) Save(_ context.Context, inv *procurement.SupplierInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = inv
	return nil
}

var _ procurement.SupplierInvoiceRepository = (*SupplierInvoiceRepo)(nil)

// ===================== Billing =====================

// SalesInvoiceRepo is an in-memory billing.SalesInvoiceRepository
type SalesInvoiceRepo struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]*billing.SalesInvoice
}

// NewSalesInvoiceRepo creates an empty sales invoice repository
func NewSalesInvoiceRepo() *SalesInvoiceRepo {
	return &SalesInvoiceRepo{invoices: make(map[uuid.UUID]*billing.SalesInvoice)}
}

func (r *SalesInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.SalesInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.NewNotFoundError("INVOICE_NOT_FOUND", "Invoice not found")
	}
	return inv, nil
}

func (r *SalesInvoiceRepo) FindByNumber(_ context.Context, invoiceNumber string) (*billing.SalesInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			return inv, nil
		}
	}
	return nil, shared.NewNotFoundError("INVOICE_NOT_FOUND", "Invoice not found")
}

func (r *SalesInvoiceRepo) FindAll(_ context.Context, _ shared.Filter) ([]*billing.SalesInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*billing.SalesInvoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (r *SalesInvoiceRepo) FindByStatus(_ context.Context, status billing.InvoiceStatus, _ shared.Filter) ([]*billing.SalesInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*billing.SalesInvoice
	for _, inv := range r.invoices {
		if inv.Status == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *SalesInvoiceRepo) FindDueBefore(_ context.Context, cutoff time.Time) ([]*billing.SalesInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*billing.SalesInvoice
	for _, inv := range r.invoices {
		if inv.Status == billing.InvoiceStatusSent && inv.DueDate.Before(cutoff) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *SalesInvoiceRepo) Save(_ context.Context, inv *billing.SalesInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = inv
	return nil
}

func (r *SalesInvoiceRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.invoices)), nil
}

var _ billing.SalesInvoiceRepository = (*SalesInvoiceRepo)(nil)
