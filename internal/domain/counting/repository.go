package counting

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// SessionRepository defines persistence operations for count sessions
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CountSession, error)
	FindByNumber(ctx context.Context, sessionNumber string) (*CountSession, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CountSession, error)
	FindByStatus(ctx context.Context, status SessionStatus, filter shared.Filter) ([]CountSession, error)
	Save(ctx context.Context, session *CountSession) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
