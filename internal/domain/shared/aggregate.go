package shared

// AggregateRoot is implemented by entities that own a consistency boundary.
// Aggregates carry a version for optimistic locking and accumulate domain
// events until the repository publishes them after a successful save.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot supplies the version counter and event buffer shared by
// all aggregate roots. Embed it alongside the aggregate's own fields.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot initializes a fresh aggregate at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// GetVersion returns the version used for optimistic locking.
func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the version. Repositories call this on every save.
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent buffers an event for publication after the next save.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the buffered, not yet published events.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.domainEvents }

// ClearDomainEvents drops the buffered events once they have been published.
func (a *BaseAggregateRoot) ClearDomainEvents() { a.domainEvents = nil }
