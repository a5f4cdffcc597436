// File: services/negotiation/session.go
package negotiation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"roomdesk/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "negotiation:conv:"

func newConversation(id string) *models.Conversation {
	return &models.Conversation{ID: id, State: models.StateIdle}
}

// MemorySessionStore keeps conversations in process memory.
type MemorySessionStore struct {
	mu    sync.Mutex
	convs map[string][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{convs: make(map[string][]byte)}
}

// Get hands out a copy; changes are visible only after Save.
func (s *MemorySessionStore) Get(_ context.Context, conversationID string) (*models.Conversation, error) {
	s.mu.Lock()
	data, ok := s.convs[conversationID]
	s.mu.Unlock()
	if !ok {
		return newConversation(conversationID), nil
	}
	var conv models.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *MemorySessionStore) Save(_ context.Context, conv *models.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.convs[conv.ID] = data
	s.mu.Unlock()
	return nil
}

// RedisSessionStore keeps conversations as JSON under a TTL so a pending
// request survives restarts.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, conversationID string) (*models.Conversation, error) {
	data, err := s.client.Get(ctx, sessionPrefix+conversationID).Result()
	if err == redis.Nil {
		return newConversation(conversationID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get %s: %w", conversationID, err)
	}
	var conv models.Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		return nil, fmt.Errorf("session decode %s: %w", conversationID, err)
	}
	return &conv, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, conv *models.Conversation) error {
	b, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+conv.ID, b, s.ttl).Err()
}

// keyedMutex serialises work per conversation id.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
