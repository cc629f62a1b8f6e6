package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("connection refused")
}

func TestMemoryStore_Incr(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	hits, ttl, err := s.Incr(ctx, "a", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, hits)
	require.Equal(t, time.Minute, ttl)

	hits, ttl, err = s.Incr(ctx, "a", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 2, hits)
	require.LessOrEqual(t, ttl, time.Minute)
	require.Greater(t, ttl, time.Duration(0))

	hits, _, err = s.Incr(ctx, "b", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, hits)
}

func TestMemoryStore_WindowExpires(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	_, _, err := s.Incr(ctx, "a", 20*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)

	hits, _, err := s.Incr(ctx, "a", 20*time.Millisecond)
	require.NoError(t, err)
	require.EqualValues(t, 1, hits)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			_, _, err := s.Incr(ctx, "shared", time.Minute)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	hits, _, err := s.Incr(ctx, "shared", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 51, hits)
}

func TestLimiter_ProductionRules(t *testing.T) {
	t.Parallel()

	l := New(NewMemoryStore(time.Minute), ProductionRules())
	ctx := context.Background()

	first := l.Allow(ctx, "10.0.0.1")
	require.True(t, first.Allowed)
	require.EqualValues(t, 2, first.Limit)
	require.EqualValues(t, 1, first.Remaining)

	require.True(t, l.Allow(ctx, "10.0.0.1").Allowed)

	third := l.Allow(ctx, "10.0.0.1")
	require.False(t, third.Allowed)
	require.EqualValues(t, 0, third.Remaining)
	require.Greater(t, third.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, third.RetryAfter, time.Hour)

	require.True(t, l.Allow(ctx, "10.0.0.2").Allowed, "clients are limited independently")
}

func TestLimiter_HourlyCap(t *testing.T) {
	t.Parallel()

	l := New(NewMemoryStore(time.Minute), []Rule{
		{Limit: 10, Window: time.Minute},
		{Limit: 3, Window: time.Hour},
	})
	ctx := context.Background()

	for range 3 {
		require.True(t, l.Allow(ctx, "c").Allowed)
	}
	res := l.Allow(ctx, "c")
	require.False(t, res.Allowed)
	require.EqualValues(t, 3, res.Limit)
}

func TestLimiter_DevelopmentRules(t *testing.T) {
	t.Parallel()

	l := New(NewMemoryStore(time.Minute), DevelopmentRules())
	ctx := context.Background()

	for range 100 {
		require.True(t, l.Allow(ctx, "dev").Allowed)
	}
	require.False(t, l.Allow(ctx, "dev").Allowed)
}

func TestLimiter_FailsOpen(t *testing.T) {
	t.Parallel()

	l := New(failingStore{}, ProductionRules())
	for range 10 {
		res := l.Allow(context.Background(), "x")
		require.True(t, res.Allowed)
		require.EqualValues(t, 0, res.Limit)
	}
}

func TestRedisStore_NilClient(t *testing.T) {
	t.Parallel()

	s := NewRedisStore(nil, "")
	require.Equal(t, "contactmail:rl:", s.prefix)

	_, _, err := s.Incr(context.Background(), "k", time.Minute)
	require.Error(t, err)
}
