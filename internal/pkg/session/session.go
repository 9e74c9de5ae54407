package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long an abandoned "awaiting target language" prompt
// survives. Sessions are otherwise consumed or cleared explicitly.
const DefaultTTL = 10 * time.Minute

// Pending is the ephemeral per-chat state between "text received" and
// "target language chosen".
type Pending struct {
	SourceLang string    `json:"source_lang"`
	SourceText string    `json:"source_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationStore keeps at most one pending translation per chat.
// Begin overwrites (last-write-wins), Resolve returns nil when no session
// exists, End removes the entry and is safe to call on absent keys.
type ConversationStore interface {
	Begin(ctx context.Context, chatID int64, p Pending) error
	Resolve(ctx context.Context, chatID int64) (*Pending, error)
	End(ctx context.Context, chatID int64) error
}

func sessionKey(chatID int64) string {
	return "session:" + strconv.FormatInt(chatID, 10)
}

// redisStore backs the conversation cache with Redis so sessions survive
// process restarts and expire server-side.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a ConversationStore on top of an existing Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) ConversationStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Begin(ctx context.Context, chatID int64, p Pending) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(chatID), payload, s.ttl).Err()
}

func (s *redisStore) Resolve(ctx context.Context, chatID int64) (*Pending, error) {
	raw, err := s.client.Get(ctx, sessionKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var p Pending
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *redisStore) End(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, sessionKey(chatID)).Err()
}
