package session

import (
	"context"
	"time"
)

// Session correlates a local end-user identity with the upstream backend's
// conversation thread. ConversationID stays empty until the upstream issues
// one; it never reverts to empty afterwards.
type Session struct {
	UserKey        string    `json:"user_key"`
	ConversationID string    `json:"conversation_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Store persists the per-user conversation correlation. Implementations must
// be safe for concurrent use; callers serialize read-modify-write per user key
// with a KeyedMutex.
type Store interface {
	// Get returns the session for userKey and whether one exists.
	Get(ctx context.Context, userKey string) (Session, bool, error)
	// SetConversationID upserts the session for userKey with the given
	// upstream conversation id, overwriting any prior value.
	SetConversationID(ctx context.Context, userKey, conversationID string) error
	// Count reports how many sessions are tracked.
	Count(ctx context.Context) (int, error)
	Close() error
}
