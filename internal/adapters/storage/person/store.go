// Package person reads student records from the upstream person collection.
package person

import (
	"context"
	"fmt"
	"strconv"

	"squadpage/internal/adapters/directus"
	"squadpage/internal/application/query"
	domain "squadpage/internal/domain/person"
)

// Resource is the upstream collection name.
const Resource = "person"

// Store reads Person records.
type Store interface {
	GetByID(ctx context.Context, id int) (domain.Person, error)
	List(ctx context.Context, opts query.Options) ([]domain.Person, error)
}

// DirectusStore implements Store over the Directus items API.
type DirectusStore struct {
	client *directus.Client
}

// NewDirectusStore creates a new DirectusStore.
func NewDirectusStore(client *directus.Client) *DirectusStore {
	return &DirectusStore{client: client}
}

// GetByID retrieves a Person by its key, with expanded squad memberships.
// PRE: id > 0
// POST: Returns the person or a *directus.NotFoundError if the key is unknown
func (s *DirectusStore) GetByID(ctx context.Context, id int) (domain.Person, error) {
	var p domain.Person
	if err := s.client.FetchByID(ctx, Resource, strconv.Itoa(id), query.Build(query.PersonDetail()), &p); err != nil {
		return domain.Person{}, fmt.Errorf("get person %d: %w", id, err)
	}
	return p, nil
}

// List retrieves the persons matching opts, in the order the API returns them.
// PRE: none
// POST: Returns an empty slice (never nil) when nothing matches
func (s *DirectusStore) List(ctx context.Context, opts query.Options) ([]domain.Person, error) {
	out := []domain.Person{}
	if err := s.client.FetchCollection(ctx, Resource, query.Build(opts), &out); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return out, nil
}
