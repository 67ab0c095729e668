package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every aggregate and child entity in the
// ledger domain.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries the identifier and timestamps shared by all
// persisted entities. Embed it in aggregate structs.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *BaseEntity) GetID() uuid.UUID { return e.ID }

func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }

func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// NewBaseEntity mints a fresh UUID and stamps both timestamps with
// the same instant.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
