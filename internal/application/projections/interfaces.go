package projections

import (
	"context"

	"squadpage/internal/application/query"
	domainMessage "squadpage/internal/domain/message"
	domainPerson "squadpage/internal/domain/person"
	domainSquad "squadpage/internal/domain/squad"
)

// PersonStore interface for person queries.
type PersonStore interface {
	GetByID(ctx context.Context, id int) (domainPerson.Person, error)
	List(ctx context.Context, opts query.Options) ([]domainPerson.Person, error)
}

// SquadStore interface for squad queries.
type SquadStore interface {
	List(ctx context.Context, opts query.Options) ([]domainSquad.Squad, error)
}

// MessageStore interface for message queries.
type MessageStore interface {
	ListByTag(ctx context.Context, tag string) ([]domainMessage.Message, error)
}
