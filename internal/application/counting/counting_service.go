package counting

import (
	"context"

	"github.com/erp/ledger/internal/domain/counting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/stock"
	"github.com/google/uuid"
)

// CountingService handles inventory count sessions and their validation
type CountingService struct {
	sessionRepo    counting.SessionRepository
	productRepo    stock.ProductRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewCountingService creates a new CountingService
func NewCountingService(
	sessionRepo counting.SessionRepository,
	productRepo stock.ProductRepository,
	txScope TransactionScope,
) *CountingService {
	return &CountingService{
		sessionRepo: sessionRepo,
		productRepo: productRepo,
		txScope:     txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CountingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CountingService) publishDomainEvents(ctx context.Context, session *counting.CountSession) {
	if s.eventPublisher == nil {
		return
	}
	events := session.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	session.ClearDomainEvents()
}

// CreateSession opens a count session, snapshotting the expected quantity of
// every product in scope at creation time.
func (s *CountingService) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionResponse, error) {
	existing, err := s.sessionRepo.FindByNumber(ctx, req.SessionNumber)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("DUPLICATE_SESSION_NUMBER", "A session with this number already exists")
	}

	session, err := counting.NewCountSession(req.SessionNumber, req.Category, req.SessionDate)
	if err != nil {
		return nil, err
	}

	var products []stock.Product
	if session.ScopeAll() {
		products, err = s.productRepo.FindAll(ctx, shared.Filter{})
	} else {
		products, err = s.productRepo.FindByCategory(ctx, session.Category, shared.Filter{})
	}
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, shared.NewPreconditionError("EMPTY_SCOPE", "No products in the session scope")
	}

	for i := range products {
		p := &products[i]
		if err := session.AddLine(p.ID, p.Reference, p.Name, p.QuantityOnHand); err != nil {
			return nil, err
		}
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	response := ToSessionResponse(session)
	return &response, nil
}

// RecordCount stores a counted quantity for one line. The first count moves a
// draft session to IN_PROGRESS.
func (s *CountingService) RecordCount(ctx context.Context, sessionID uuid.UUID, productReference string, req RecordCountRequest) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.RecordCount(productReference, req.CountedQty, req.Note); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	response := ToSessionResponse(session)
	return &response, nil
}

// ValidateSession closes the session and applies one ADJUSTMENT movement per
// differing line, all in one transaction. After validation each affected
// product's quantity equals the counted value, barring concurrent movements
// between snapshot and validation.
func (s *CountingService) ValidateSession(ctx context.Context, sessionID uuid.UUID) ([]AdjustmentResponse, error) {
	var session *counting.CountSession
	var adjustments []counting.Adjustment

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		session, err = repos.SessionRepo().FindByID(ctx, sessionID)
		if err != nil {
			return err
		}

		adjustments, err = session.Validate()
		if err != nil {
			return err
		}

		for _, adj := range adjustments {
			product, err := repos.ProductRepo().FindByID(ctx, adj.ProductID)
			if err != nil {
				return err
			}

			before, after, err := product.ApplyMovement(stock.MovementTypeAdjustment, adj.Delta)
			if err != nil {
				return err
			}

			movement, err := stock.NewMovement(product, stock.MovementTypeAdjustment, adj.Delta,
				before, after, stock.MovementSourceInventory, session.SessionNumber)
			if err != nil {
				return err
			}

			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
		}

		return repos.SessionRepo().Save(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, session)

	return ToAdjustmentResponses(adjustments), nil
}

// StartSession explicitly moves a draft session to IN_PROGRESS
func (s *CountingService) StartSession(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Start(); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	response := ToSessionResponse(session)
	return &response, nil
}

// GetSession retrieves a session by ID
func (s *CountingService) GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	response := ToSessionResponse(session)
	return &response, nil
}

// ListSessions retrieves a paginated list of sessions
func (s *CountingService) ListSessions(ctx context.Context, filter shared.Filter) ([]SessionResponse, int64, error) {
	total, err := s.sessionRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sessions, err := s.sessionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToSessionResponses(sessions), total, nil
}
