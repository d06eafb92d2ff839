// Package squad reads squad records from the upstream squad collection.
package squad

import (
	"context"
	"fmt"

	"squadpage/internal/adapters/directus"
	"squadpage/internal/application/query"
	domain "squadpage/internal/domain/squad"
)

// Resource is the upstream collection name.
const Resource = "squad"

// Store reads Squad records.
type Store interface {
	List(ctx context.Context, opts query.Options) ([]domain.Squad, error)
}

// DirectusStore implements Store over the Directus items API.
type DirectusStore struct {
	client *directus.Client
}

// NewDirectusStore creates a new DirectusStore.
func NewDirectusStore(client *directus.Client) *DirectusStore {
	return &DirectusStore{client: client}
}

// List retrieves the squads matching opts.
// PRE: none
// POST: Returns an empty slice (never nil) when nothing matches
func (s *DirectusStore) List(ctx context.Context, opts query.Options) ([]domain.Squad, error) {
	out := []domain.Squad{}
	if err := s.client.FetchCollection(ctx, Resource, query.Build(opts), &out); err != nil {
		return nil, fmt.Errorf("list squads: %w", err)
	}
	return out, nil
}
