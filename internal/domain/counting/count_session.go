package counting

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus represents the status of a count session
type SessionStatus string

const (
	SessionStatusDraft      SessionStatus = "DRAFT"
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusValidated  SessionStatus = "VALIDATED"
)

// IsValid checks if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusDraft, SessionStatusInProgress, SessionStatusValidated:
		return true
	}
	return false
}

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SessionStatus) CanTransitionTo(target SessionStatus) bool {
	switch s {
	case SessionStatusDraft:
		return target == SessionStatusInProgress || target == SessionStatusValidated
	case SessionStatusInProgress:
		return target == SessionStatusValidated
	case SessionStatusValidated:
		return false // Terminal state
	}
	return false
}

// CountLine represents a single product inside a count session. ExpectedQty is
// the ledger snapshot captured at session creation; CountedQty starts equal to
// it and is mutable until the session is validated.
type CountLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SessionID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductReference string          `gorm:"type:varchar(50);not null"`
	ProductName      string          `gorm:"type:varchar(255);not null"`
	ExpectedQty      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CountedQty       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note             string          `gorm:"type:varchar(255)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (CountLine) TableName() string {
	return "count_lines"
}

// Difference returns counted minus expected
func (l *CountLine) Difference() decimal.Decimal {
	return l.CountedQty.Sub(l.ExpectedQty)
}

// HasDifference returns true if counted differs from expected
func (l *CountLine) HasDifference() bool {
	return !l.Difference().IsZero()
}

// Adjustment describes the stock correction a validated line requires
type Adjustment struct {
	ProductID        uuid.UUID
	ProductReference string
	Delta            decimal.Decimal
}

// CountSession represents a physical inventory count run against a snapshot of
// the stock ledger. It is the aggregate root for inventory reconciliation.
type CountSession struct {
	shared.BaseAggregateRoot
	SessionNumber string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	SessionDate   time.Time     `gorm:"type:timestamptz;not null"`
	Category      string        `gorm:"type:varchar(100)"` // empty means all products
	Status        SessionStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	StartedAt     *time.Time
	ValidatedAt   *time.Time
	Lines         []CountLine `gorm:"foreignKey:SessionID;references:ID"`
}

// TableName returns the table name for GORM
func (CountSession) TableName() string {
	return "count_sessions"
}

// NewCountSession creates a new count session scoped to all products (empty
// category) or a single category
func NewCountSession(sessionNumber, category string, sessionDate time.Time) (*CountSession, error) {
	if sessionNumber == "" {
		return nil, shared.NewValidationError("INVALID_SESSION_NUMBER", "Session number cannot be empty")
	}

	return &CountSession{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionNumber:     sessionNumber,
		SessionDate:       sessionDate,
		Category:          category,
		Status:            SessionStatusDraft,
		Lines:             make([]CountLine, 0),
	}, nil
}

// ScopeAll returns true if the session covers all products
func (s *CountSession) ScopeAll() bool {
	return s.Category == ""
}

// AddLine snapshots a product into the session. Counted starts equal to
// expected. Only allowed before the first count is recorded.
func (s *CountSession) AddLine(productID uuid.UUID, productReference, productName string, expectedQty decimal.Decimal) error {
	if s.Status != SessionStatusDraft {
		return shared.NewPreconditionError("INVALID_STATE", "Can only add lines to a draft session")
	}
	if productID == uuid.Nil {
		return shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	for _, line := range s.Lines {
		if line.ProductID == productID {
			return shared.NewValidationError("DUPLICATE_PRODUCT", "Product already exists in session")
		}
	}

	now := time.Now()
	s.Lines = append(s.Lines, CountLine{
		ID:               uuid.New(),
		SessionID:        s.ID,
		ProductID:        productID,
		ProductReference: productReference,
		ProductName:      productName,
		ExpectedQty:      expectedQty,
		CountedQty:       expectedQty,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// Start moves a draft session to IN_PROGRESS. Recording a count also starts
// the session implicitly; the explicit transition exists for teams that open
// the session before the first count is taken.
func (s *CountSession) Start() error {
	if !s.Status.CanTransitionTo(SessionStatusInProgress) {
		return shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot start session in %s status", s.Status))
	}
	now := time.Now()
	s.Status = SessionStatusInProgress
	s.StartedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}

// RecordCount records the physical count for a product. Allowed as long as the
// session is not validated; recording against a draft session moves it to
// IN_PROGRESS.
func (s *CountSession) RecordCount(productReference string, countedQty decimal.Decimal, note string) error {
	if s.Status == SessionStatusValidated {
		return shared.NewPreconditionError("SESSION_VALIDATED", "Cannot record counts on a validated session")
	}
	if countedQty.IsNegative() {
		return shared.NewValidationError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	for i := range s.Lines {
		if s.Lines[i].ProductReference == productReference {
			now := time.Now()
			s.Lines[i].CountedQty = countedQty
			s.Lines[i].Note = note
			s.Lines[i].UpdatedAt = now

			if s.Status == SessionStatusDraft {
				s.Status = SessionStatusInProgress
				s.StartedAt = &now
			}
			s.UpdatedAt = now
			s.IncrementVersion()
			return nil
		}
	}

	return shared.NewNotFoundError("LINE_NOT_FOUND", fmt.Sprintf("Product %s is not part of this session", productReference))
}

// Validate closes the session and returns one adjustment per line whose
// counted quantity differs from the expected snapshot. The transition is
// terminal and one-way.
func (s *CountSession) Validate() ([]Adjustment, error) {
	if !s.Status.CanTransitionTo(SessionStatusValidated) {
		return nil, shared.NewPreconditionError("INVALID_TRANSITION", fmt.Sprintf("Cannot validate session in %s status", s.Status))
	}
	if len(s.Lines) == 0 {
		return nil, shared.NewPreconditionError("NO_LINES", "Cannot validate a session without lines")
	}

	adjustments := make([]Adjustment, 0)
	for _, line := range s.Lines {
		if line.HasDifference() {
			adjustments = append(adjustments, Adjustment{
				ProductID:        line.ProductID,
				ProductReference: line.ProductReference,
				Delta:            line.Difference(),
			})
		}
	}

	now := time.Now()
	s.Status = SessionStatusValidated
	s.ValidatedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSessionValidatedEvent(s, adjustments))

	return adjustments, nil
}

// LineByReference returns the line for a product reference, or nil
func (s *CountSession) LineByReference(productReference string) *CountLine {
	for i := range s.Lines {
		if s.Lines[i].ProductReference == productReference {
			return &s.Lines[i]
		}
	}
	return nil
}

// DifferenceCount returns the number of lines with a non-zero difference
func (s *CountSession) DifferenceCount() int {
	count := 0
	for _, line := range s.Lines {
		if line.HasDifference() {
			count++
		}
	}
	return count
}
