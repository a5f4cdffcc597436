package dedupe

import (
	"context"
	"testing"
	"time"
)

func TestMemoryTracker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	tr := NewMemoryTracker(time.Hour)
	tr.now = func() time.Time { return now }

	if first, _ := tr.FirstSeen(ctx, "msg-1"); !first {
		t.Fatalf("expected msg-1 to be new")
	}
	if first, _ := tr.FirstSeen(ctx, "msg-1"); first {
		t.Fatalf("expected msg-1 to be a duplicate")
	}
	if first, _ := tr.FirstSeen(ctx, "msg-2"); !first {
		t.Fatalf("expected msg-2 to be new")
	}

	now = now.Add(2 * time.Hour)
	if first, _ := tr.FirstSeen(ctx, "msg-1"); !first {
		t.Fatalf("expected msg-1 to be new again after ttl")
	}
}
