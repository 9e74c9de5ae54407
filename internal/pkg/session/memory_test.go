package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(ttl time.Duration) (*memoryStore, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(ttl).(*memoryStore)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestBeginAndResolve(t *testing.T) {
	s, _ := newTestStore(DefaultTTL)
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, 42, Pending{SourceLang: "en", SourceText: "Hello"}))

	p, err := s.Resolve(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "en", p.SourceLang)
	assert.Equal(t, "Hello", p.SourceText)
}

func TestResolveUnknownChatReturnsNil(t *testing.T) {
	s, _ := newTestStore(DefaultTTL)

	p, err := s.Resolve(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestResolveAfterTTLExpires(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, 42, Pending{SourceLang: "en", SourceText: "Hello"}))

	*now = now.Add(10*time.Minute + time.Second)

	p, err := s.Resolve(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestBeginOverwritesExistingSession(t *testing.T) {
	s, _ := newTestStore(DefaultTTL)
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, 42, Pending{SourceLang: "en", SourceText: "first"}))
	require.NoError(t, s.Begin(ctx, 42, Pending{SourceLang: "es", SourceText: "segundo"}))

	p, err := s.Resolve(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "es", p.SourceLang)
	assert.Equal(t, "segundo", p.SourceText)
}

func TestEndRemovesSession(t *testing.T) {
	s, _ := newTestStore(DefaultTTL)
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, 42, Pending{SourceText: "Hello"}))
	require.NoError(t, s.End(ctx, 42))

	p, err := s.Resolve(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, p)

	// Ending an absent session is a no-op.
	require.NoError(t, s.End(ctx, 42))
}

func TestBeginSweepsStaleSessions(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, 1, Pending{SourceText: "stale"}))

	*now = now.Add(11 * time.Minute)
	require.NoError(t, s.Begin(ctx, 2, Pending{SourceText: "fresh"}))

	s.mu.Lock()
	_, staleKept := s.sessions[1]
	s.mu.Unlock()
	assert.False(t, staleKept)
}

func TestSessionsAreIsolatedPerChat(t *testing.T) {
	s, _ := newTestStore(DefaultTTL)
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, 1, Pending{SourceText: "one"}))
	require.NoError(t, s.Begin(ctx, 2, Pending{SourceText: "two"}))
	require.NoError(t, s.End(ctx, 1))

	p, err := s.Resolve(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "two", p.SourceText)
}
