package negotiation

import (
	"context"
	"sync"
	"testing"

	"roomdesk/models"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	conv, err := store.Get(ctx, "chat-1")
	if err != nil {
		t.Fatal(err)
	}
	if conv.ID != "chat-1" || conv.State != models.StateIdle || conv.Pending != nil {
		t.Fatalf("expected fresh idle conversation, got %+v", conv)
	}

	conv.State = models.StateAwaitingConfirmation
	conv.Pending = &models.NegotiationSession{ID: "s1", RequestedRooms: 3}
	// Not visible until saved.
	if again, _ := store.Get(ctx, "chat-1"); again.Pending != nil {
		t.Fatalf("unsaved change leaked into the store")
	}
	if err := store.Save(ctx, conv); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, "chat-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != models.StateAwaitingConfirmation || got.Pending == nil || got.Pending.RequestedRooms != 3 {
		t.Fatalf("unexpected stored conversation %+v", got)
	}
}

func TestKeyedMutexSerialisesPerKey(t *testing.T) {
	var km keyedMutex
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("chat-1")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 increments, got %d", counter)
	}
	if len(km.locks) != 0 {
		t.Fatalf("expected lock table to drain, got %d entries", len(km.locks))
	}
}
