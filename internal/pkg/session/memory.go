package session

import (
	"context"
	"sync"
	"time"
)

// memoryStore is the in-process ConversationStore used by tests and by
// local runs without a cache server. TTL is enforced on read; stale entries
// are also swept whenever a new session begins.
type memoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]Pending
	now      func() time.Time
}

// NewMemoryStore creates an in-memory ConversationStore.
func NewMemoryStore(ttl time.Duration) ConversationStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryStore{
		ttl:      ttl,
		sessions: make(map[int64]Pending),
		now:      time.Now,
	}
}

func (s *memoryStore) Begin(ctx context.Context, chatID int64, p Pending) error {
	_ = ctx
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.sessions {
		if s.now().Sub(existing.CreatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
	s.sessions[chatID] = p
	return nil
}

func (s *memoryStore) Resolve(ctx context.Context, chatID int64) (*Pending, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.sessions[chatID]
	if !ok {
		return nil, nil
	}
	if s.now().Sub(p.CreatedAt) > s.ttl {
		delete(s.sessions, chatID)
		return nil, nil
	}
	return &p, nil
}

func (s *memoryStore) End(ctx context.Context, chatID int64) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
	return nil
}
