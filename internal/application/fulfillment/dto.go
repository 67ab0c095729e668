package fulfillment

import (
	"time"

	"github.com/erp/ledger/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one line of a create-order request
type OrderLineRequest struct {
	ProductReference string          `json:"product_reference" binding:"required"`
	OrderedQty       decimal.Decimal `json:"ordered_qty" binding:"required"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest is the request to create a sales order
type CreateOrderRequest struct {
	OrderNumber  string             `json:"order_number" binding:"required"`
	CustomerName string             `json:"customer_name" binding:"required"`
	PromisedDate time.Time          `json:"promised_date"`
	Lines        []OrderLineRequest `json:"lines" binding:"required,min=1"`
}

// UpdateOrderRequest patches mutable order fields before shipping
type UpdateOrderRequest struct {
	CustomerName string     `json:"customer_name"`
	PromisedDate *time.Time `json:"promised_date"`
}

// CreateShipmentRequest is the request to ship a prepared order
type CreateShipmentRequest struct {
	ShipmentNumber string    `json:"shipment_number" binding:"required"`
	OrderID        uuid.UUID `json:"order_id" binding:"required"`
	Transporter    string    `json:"transporter" binding:"required"`
	TrackingNumber string    `json:"tracking_number"`
}

// UpdateShipmentStatusRequest moves a shipment along its lifecycle
type UpdateShipmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateReturnRequest opens an RMA against a delivered order
type CreateReturnRequest struct {
	ReturnNumber     string          `json:"return_number" binding:"required"`
	OrderID          uuid.UUID       `json:"order_id" binding:"required"`
	ProductReference string          `json:"product_reference" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	Reason           string          `json:"reason" binding:"required"`
	Decision         string          `json:"decision" binding:"required"`
}

// OrderLineResponse is the API representation of an order line
type OrderLineResponse struct {
	ProductReference string          `json:"product_reference"`
	ProductName      string          `json:"product_name"`
	OrderedQty       decimal.Decimal `json:"ordered_qty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReservedQty      decimal.Decimal `json:"reserved_qty"`
	BackorderQty     decimal.Decimal `json:"backorder_qty"`
}

// OrderResponse is the API representation of a sales order
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	CustomerName string              `json:"customer_name"`
	PromisedDate time.Time           `json:"promised_date"`
	Status       string              `json:"status"`
	StockState   string              `json:"stock_state"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Lines        []OrderLineResponse `json:"lines"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ShipmentResponse is the API representation of a shipment
type ShipmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	ShipmentNumber string     `json:"shipment_number"`
	OrderID        uuid.UUID  `json:"order_id"`
	OrderNumber    string     `json:"order_number"`
	Transporter    string     `json:"transporter"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	Status         string     `json:"status"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

// ReturnResponse is the API representation of a return order
type ReturnResponse struct {
	ID               uuid.UUID       `json:"id"`
	ReturnNumber     string          `json:"return_number"`
	OrderNumber      string          `json:"order_number"`
	ProductReference string          `json:"product_reference"`
	Quantity         decimal.Decimal `json:"quantity"`
	Reason           string          `json:"reason"`
	Decision         string          `json:"decision"`
	Status           string          `json:"status"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(o *fulfillment.SalesOrder) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i := range o.Lines {
		line := &o.Lines[i]
		lines[i] = OrderLineResponse{
			ProductReference: line.ProductReference,
			ProductName:      line.ProductName,
			OrderedQty:       line.OrderedQty,
			UnitPrice:        line.UnitPrice,
			ReservedQty:      line.ReservedQty,
			BackorderQty:     line.BackorderQty,
		}
	}

	return OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		PromisedDate: o.PromisedDate,
		Status:       o.Status.String(),
		StockState:   o.StockState.String(),
		TotalAmount:  o.TotalAmount(),
		Lines:        lines,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []*fulfillment.SalesOrder) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}
	return responses
}

// ToShipmentResponse converts a domain shipment to its API representation
func ToShipmentResponse(s *fulfillment.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:             s.ID,
		ShipmentNumber: s.ShipmentNumber,
		OrderID:        s.OrderID,
		OrderNumber:    s.OrderNumber,
		Transporter:    s.Transporter,
		TrackingNumber: s.TrackingNumber,
		Status:         s.Status.String(),
		ShippedAt:      s.ShippedAt,
		DeliveredAt:    s.DeliveredAt,
	}
}

// ToReturnResponse converts a domain return order to its API representation
func ToReturnResponse(r *fulfillment.ReturnOrder) ReturnResponse {
	return ReturnResponse{
		ID:               r.ID,
		ReturnNumber:     r.ReturnNumber,
		OrderNumber:      r.OrderNumber,
		ProductReference: r.ProductReference,
		Quantity:         r.Quantity,
		Reason:           r.Reason,
		Decision:         r.Decision.String(),
		Status:           r.Status.String(),
		ClosedAt:         r.ClosedAt,
	}
}
