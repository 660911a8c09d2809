package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a simple in-process session store for local/dev use.
// Sessions live for the process lifetime; there is no eviction.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (s *MemoryStore) Get(_ context.Context, userKey string) (Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userKey]
	if !ok {
		return Session{}, false, nil
	}
	return *sess, true, nil
}

func (s *MemoryStore) SetConversationID(_ context.Context, userKey, conversationID string) error {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userKey]
	if !ok {
		s.sessions[userKey] = &Session{
			UserKey:        userKey,
			ConversationID: conversationID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return nil
	}
	sess.ConversationID = conversationID
	sess.UpdatedAt = now
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

func (s *MemoryStore) Close() error { return nil }
