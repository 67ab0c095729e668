package counting

import (
	"time"

	"github.com/erp/ledger/internal/domain/counting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSessionRequest is the request to open a count session. An empty
// category scopes the session to every product.
type CreateSessionRequest struct {
	SessionNumber string    `json:"session_number" binding:"required"`
	SessionDate   time.Time `json:"session_date"`
	Category      string    `json:"category"`
}

// RecordCountRequest is the request to record a counted quantity for a line
type RecordCountRequest struct {
	CountedQty decimal.Decimal `json:"counted_qty"`
	Note       string          `json:"note"`
}

// CountLineResponse is the API representation of a count line
type CountLineResponse struct {
	ProductReference string          `json:"product_reference"`
	ProductName      string          `json:"product_name"`
	ExpectedQty      decimal.Decimal `json:"expected_qty"`
	CountedQty       decimal.Decimal `json:"counted_qty"`
	Difference       decimal.Decimal `json:"difference"`
	Note             string          `json:"note,omitempty"`
}

// SessionResponse is the API representation of a count session
type SessionResponse struct {
	ID              uuid.UUID           `json:"id"`
	SessionNumber   string              `json:"session_number"`
	SessionDate     time.Time           `json:"session_date"`
	Category        string              `json:"category,omitempty"`
	Status          string              `json:"status"`
	StartedAt       *time.Time          `json:"started_at,omitempty"`
	ValidatedAt     *time.Time          `json:"validated_at,omitempty"`
	DifferenceCount int                 `json:"difference_count"`
	Lines           []CountLineResponse `json:"lines"`
}

// AdjustmentResponse reports one adjustment movement emitted by validation
type AdjustmentResponse struct {
	ProductReference string          `json:"product_reference"`
	Delta            decimal.Decimal `json:"delta"`
}

// ToSessionResponse converts a domain session to its API representation
func ToSessionResponse(s *counting.CountSession) SessionResponse {
	lines := make([]CountLineResponse, len(s.Lines))
	for i := range s.Lines {
		line := &s.Lines[i]
		lines[i] = CountLineResponse{
			ProductReference: line.ProductReference,
			ProductName:      line.ProductName,
			ExpectedQty:      line.ExpectedQty,
			CountedQty:       line.CountedQty,
			Difference:       line.Difference(),
			Note:             line.Note,
		}
	}

	return SessionResponse{
		ID:              s.ID,
		SessionNumber:   s.SessionNumber,
		SessionDate:     s.SessionDate,
		Category:        s.Category,
		Status:          s.Status.String(),
		StartedAt:       s.StartedAt,
		ValidatedAt:     s.ValidatedAt,
		DifferenceCount: s.DifferenceCount(),
		Lines:           lines,
	}
}

// ToSessionResponses converts a slice of sessions
func ToSessionResponses(sessions []counting.CountSession) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = ToSessionResponse(&sessions[i])
	}
	return responses
}

// ToAdjustmentResponses converts the adjustments computed by validation
func ToAdjustmentResponses(adjustments []counting.Adjustment) []AdjustmentResponse {
	responses := make([]AdjustmentResponse, len(adjustments))
	for i, adj := range adjustments {
		responses[i] = AdjustmentResponse{
			ProductReference: adj.ProductReference,
			Delta:            adj.Delta,
		}
	}
	return responses
}
