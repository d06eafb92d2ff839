package message

import (
	"context"
	"fmt"

	"squadpage/internal/adapters/directus"
	"squadpage/internal/application/query"
	domain "squadpage/internal/domain/message"
)

// DirectusStore implements Store over the Directus items API.
type DirectusStore struct {
	client *directus.Client
}

// NewDirectusStore creates a new DirectusStore.
func NewDirectusStore(client *directus.Client) *DirectusStore {
	return &DirectusStore{client: client}
}

// ListByTag retrieves the messages whose for field equals tag.
// PRE: tag is non-empty
// POST: Returns an empty slice (never nil) when the thread is empty
func (s *DirectusStore) ListByTag(ctx context.Context, tag string) ([]domain.Message, error) {
	out := []domain.Message{}
	if err := s.client.FetchCollection(ctx, Resource, query.Build(query.MessagesFor(tag)), &out); err != nil {
		return nil, fmt.Errorf("list messages for %q: %w", tag, err)
	}
	return out, nil
}

// Save inserts a message. The id is assigned upstream and not read back.
// PRE: m has been validated
// POST: The message is visible to ListByTag(m.For) once the API has accepted it
func (s *DirectusStore) Save(ctx context.Context, m domain.Message) error {
	m.ID = 0
	if err := s.client.Insert(ctx, Resource, m); err != nil {
		return fmt.Errorf("save message for %q: %w", m.For, err)
	}
	return nil
}
