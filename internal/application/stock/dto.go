package stock

import (
	"time"

	"github.com/erp/ledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the request to register a product in the ledger
type CreateProductRequest struct {
	Reference    string          `json:"reference" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit" binding:"required"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
}

// UpdateProductRequest is the request to update product details
type UpdateProductRequest struct {
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit"`
	MinThreshold *decimal.Decimal `json:"min_threshold"`
}

// RecordMovementRequest is the request to record a stock movement
type RecordMovementRequest struct {
	ProductReference string          `json:"product_reference" binding:"required"`
	Type             string          `json:"type" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	Source           string          `json:"source"`
	RefDocument      string          `json:"ref_document"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Reference      string          `json:"reference"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	MinThreshold   decimal.Decimal `json:"min_threshold"`
	OutOfStock     bool            `json:"out_of_stock"`
	LowStock       bool            `json:"low_stock"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MovementResponse is the API representation of a movement
type MovementResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductReference string          `json:"product_reference"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	BalanceBefore    decimal.Decimal `json:"balance_before"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	Source           string          `json:"source"`
	RefDocument      string          `json:"ref_document"`
	OccurredOn       time.Time       `json:"occurred_on"`
}

// AlertResponse is the API representation of a stock alert
type AlertResponse struct {
	ProductReference  string          `json:"product_reference"`
	ProductName       string          `json:"product_name"`
	Level             string          `json:"level"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	MinThreshold      decimal.Decimal `json:"min_threshold"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(p *stock.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Reference:      p.Reference,
		Name:           p.Name,
		Category:       p.Category,
		Unit:           p.Unit,
		QuantityOnHand: p.QuantityOnHand,
		MinThreshold:   p.MinThreshold,
		OutOfStock:     p.IsOutOfStock(),
		LowStock:       p.IsLowStock(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []stock.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToMovementResponse converts a domain movement to its API representation
func ToMovementResponse(m *stock.Movement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		ProductReference: m.ProductReference,
		Type:             m.Type.String(),
		Quantity:         m.Quantity,
		BalanceBefore:    m.BalanceBefore,
		BalanceAfter:     m.BalanceAfter,
		Source:           string(m.Source),
		RefDocument:      m.RefDocument,
		OccurredOn:       m.OccurredOn,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []stock.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// ToAlertResponses converts domain alerts to their API representation
func ToAlertResponses(alerts []stock.Alert) []AlertResponse {
	responses := make([]AlertResponse, len(alerts))
	for i, a := range alerts {
		responses[i] = AlertResponse{
			ProductReference:  a.ProductReference,
			ProductName:       a.ProductName,
			Level:             a.Level.String(),
			QuantityOnHand:    a.QuantityOnHand,
			MinThreshold:      a.MinThreshold,
			SuggestedQuantity: a.SuggestedQuantity,
		}
	}
	return responses
}
