// Package message stores guestbook messages, either upstream or in memory.
package message

import (
	"context"

	domain "squadpage/internal/domain/message"
)

// Resource is the upstream collection name.
const Resource = "messages"

// Store persists Message state. Messages are append-only.
type Store interface {
	ListByTag(ctx context.Context, tag string) ([]domain.Message, error)
	Save(ctx context.Context, m domain.Message) error
}
