package documentRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps the encoded document in memory. It goes through the same
// JSON round trip as the file store.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	Saves int
}

// NewMemoryStore returns an empty MemoryStore. Load fails with ErrNotFound
// until the first Save.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith returns a MemoryStore seeded with v.
func NewMemoryStoreWith(v any) *MemoryStore {
	s := &MemoryStore{}
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("documentRepo: seed memory store: %v", err))
	}
	s.data = data
	return s
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Load(ctx context.Context, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return fmt.Errorf("memory: %w", ErrNotFound)
	}
	return json.Unmarshal(s.data, v)
}

func (s *MemoryStore) Save(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.Saves++
	return nil
}
