package message

import (
	"context"
	"sync"

	domain "squadpage/internal/domain/message"
)

// MemoryStore implements Store in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int
	items  []domain.Message
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// ListByTag returns the messages saved under tag, in insertion order.
// PRE: none
// POST: Returns an empty slice (never nil) when the thread is empty
func (s *MemoryStore) ListByTag(_ context.Context, tag string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Message{}
	for _, m := range s.items {
		if m.For == tag {
			out = append(out, m)
		}
	}
	return out, nil
}

// Save appends a message and assigns it the next id.
// PRE: m has been validated
// POST: The message is returned by ListByTag(m.For)
func (s *MemoryStore) Save(ctx context.Context, m domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextID
	s.nextID++
	s.items = append(s.items, m)
	return nil
}
