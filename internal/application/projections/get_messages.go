package projections

import (
	"context"
	"fmt"

	domainMessage "squadpage/internal/domain/message"
)

// GetMessagesQuery carries query parameters.
type GetMessagesQuery struct {
	Tag string
}

// GetMessagesResult carries the query result.
type GetMessagesResult struct {
	Messages []domainMessage.Message
}

// GetMessagesDeps holds dependencies for GetMessages.
type GetMessagesDeps struct {
	MessageStore MessageStore
}

// QueryGetMessages lists one guestbook thread.
// PRE: q.Tag is non-empty
// POST: Returns the messages stored under q.Tag
func QueryGetMessages(ctx context.Context, q GetMessagesQuery, deps GetMessagesDeps) (GetMessagesResult, error) {
	msgs, err := deps.MessageStore.ListByTag(ctx, q.Tag)
	if err != nil {
		return GetMessagesResult{}, fmt.Errorf("messages for %q: %w", q.Tag, err)
	}
	return GetMessagesResult{Messages: msgs}, nil
}
