// Package dedupe remembers webhook message ids so a redelivered message is
// processed once.
package dedupe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const dedupePrefix = "webhook:msg:"

// Tracker reports whether a message id is seen for the first time.
type Tracker interface {
	FirstSeen(ctx context.Context, messageID string) (bool, error)
}

type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTracker(client *redis.Client, ttl time.Duration) *RedisTracker {
	return &RedisTracker{client: client, ttl: ttl}
}

func (t *RedisTracker) FirstSeen(ctx context.Context, messageID string) (bool, error) {
	ok, err := t.client.SetNX(ctx, dedupePrefix+messageID, 1, t.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedupe: setnx %s: %w", messageID, err)
	}
	return ok, nil
}

// MemoryTracker is the single-process fallback when Redis is disabled.
type MemoryTracker struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	return &MemoryTracker{ttl: ttl, now: time.Now, seen: make(map[string]time.Time)}
}

func (t *MemoryTracker) FirstSeen(_ context.Context, messageID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for id, exp := range t.seen {
		if now.After(exp) {
			delete(t.seen, id)
		}
	}
	if _, ok := t.seen[messageID]; ok {
		return false, nil
	}
	t.seen[messageID] = now.Add(t.ttl)
	return true, nil
}
