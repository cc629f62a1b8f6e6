package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Store counts hits in fixed windows. Incr adds one hit to key, starting a
// new window of the given length when none is open, and returns the hit
// count together with the time left in the window.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (hits int64, ttl time.Duration, err error)
}

// MemoryStore keeps counters in process memory. Suitable for a single replica.
type MemoryStore struct {
	c  *gocache.Cache
	mu sync.Mutex
}

// NewMemoryStore creates an in-memory store. Expired windows are purged
// every cleanup interval.
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, cleanup)}
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exp, ok := s.c.GetWithExpiration(key); ok {
		hits, err := s.c.IncrementInt64(key, 1)
		if err != nil {
			return 0, 0, err
		}
		return hits, time.Until(exp), nil
	}

	s.c.Set(key, int64(1), window)
	return 1, window, nil
}

// Close drops all counters.
func (s *MemoryStore) Close() error {
	s.c.Flush()
	return nil
}

// RedisStore keeps counters in Redis so limits hold across replicas.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps a connected client. Keys are namespaced with prefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "contactmail:rl:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Incr implements Store with INCR, EXPIRE NX and TTL in one transaction.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if s.client == nil {
		return 0, 0, errors.New("ratelimit: nil redis client")
	}

	k := s.prefix + key
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("ratelimit: redis incr %q: %w", k, err)
	}

	left := ttl.Val()
	if left < 0 {
		left = window
	}
	return incr.Val(), left, nil
}
