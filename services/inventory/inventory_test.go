package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	documentRepo "roomdesk/database/repository/document"
	"roomdesk/models"
)

func newTestService(t *testing.T, seed models.Inventory) (*DefaultInventoryService, *documentRepo.MemoryStore) {
	t.Helper()
	store := documentRepo.NewMemoryStoreWith(seed)
	return NewDefaultInventoryService(store, 10, nil), store
}

func TestLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing document is storage unavailable", func(t *testing.T) {
		svc := NewDefaultInventoryService(documentRepo.NewMemoryStore(), 10, nil)
		if _, err := svc.Load(ctx); !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})

	t.Run("malformed file is storage unavailable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "inventory.json")
		if err := os.WriteFile(path, []byte(`{"2024-11-01": {"availability": "five"}}`), 0o644); err != nil {
			t.Fatal(err)
		}
		svc := NewDefaultInventoryService(documentRepo.NewFileStore(path), 10, nil)
		if _, err := svc.Load(ctx); !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})

	t.Run("empty document loads as empty inventory", func(t *testing.T) {
		svc, _ := newTestService(t, models.Inventory{})
		inv, err := svc.Load(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if inv == nil || len(inv) != 0 {
			t.Fatalf("expected empty inventory, got %v", inv)
		}
	})
}

func TestEnsureDates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, store := newTestService(t, models.Inventory{"2024-11-01": {Availability: 3}})
	dates := []string{"2024-11-01", "2024-11-02"}

	inv, provisioned, err := svc.EnsureDates(ctx, dates, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !provisioned {
		t.Fatalf("expected first call to provision")
	}
	if inv["2024-11-01"].Availability != 3 || inv["2024-11-02"].Availability != 10 {
		t.Fatalf("unexpected inventory after first call: %v", inv)
	}
	if store.Saves != 1 {
		t.Fatalf("expected 1 save, got %d", store.Saves)
	}

	inv, provisioned, err = svc.EnsureDates(ctx, dates, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if provisioned {
		t.Fatalf("expected second call to be a no-op")
	}
	if inv["2024-11-02"].Availability != 10 {
		t.Fatalf("expected 10, got %d", inv["2024-11-02"].Availability)
	}
	if store.Saves != 1 {
		t.Fatalf("expected no further saves, got %d", store.Saves)
	}
}

func TestCheckCapacity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("all or nothing across dates", func(t *testing.T) {
		seed := models.Inventory{
			"2024-11-01": {Availability: 5},
			"2024-11-02": {Availability: 5},
			"2024-11-03": {Availability: 2},
		}
		svc, store := newTestService(t, seed)
		ok, err := svc.CheckCapacity(ctx, []string{"2024-11-01", "2024-11-02", "2024-11-03"}, 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Fatalf("expected false when one date is short")
		}
		if store.Saves != 0 {
			t.Fatalf("expected no writes, got %d", store.Saves)
		}
		inv, _ := svc.Load(ctx)
		for d, rec := range seed {
			if inv[d] != rec {
				t.Fatalf("expected %s unchanged at %d, got %d", d, rec.Availability, inv[d].Availability)
			}
		}
	})

	t.Run("provisioning persists even when rejected", func(t *testing.T) {
		svc, store := newTestService(t, models.Inventory{"2024-11-01": {Availability: 1}})
		ok, err := svc.CheckCapacity(ctx, []string{"2024-11-01", "2024-11-02"}, 4)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Fatalf("expected false")
		}
		if store.Saves != 1 {
			t.Fatalf("expected provisioning write, got %d saves", store.Saves)
		}
		if got, provisioned, _ := svc.Availability(ctx, "2024-11-02"); !provisioned || got != 10 {
			t.Fatalf("expected 2024-11-02 provisioned at 10, got %d (%v)", got, provisioned)
		}
	})

	t.Run("exact fit passes", func(t *testing.T) {
		svc, _ := newTestService(t, models.Inventory{"2024-11-01": {Availability: 3}})
		ok, err := svc.CheckCapacity(ctx, []string{"2024-11-01"}, 3)
		if err != nil || !ok {
			t.Fatalf("expected true, got %v (%v)", ok, err)
		}
	})
}

func TestDecrement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("commits exactly the stay range", func(t *testing.T) {
		svc, _ := newTestService(t, models.Inventory{
			"2024-11-01": {Availability: 5},
			"2024-11-02": {Availability: 5},
			"2024-11-03": {Availability: 5},
		})
		inv, err := svc.Decrement(ctx, []string{"2024-11-01", "2024-11-02"}, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if inv["2024-11-01"].Availability != 3 || inv["2024-11-02"].Availability != 3 || inv["2024-11-03"].Availability != 5 {
			t.Fatalf("unexpected inventory: %v", inv)
		}
	})

	t.Run("fails without partial writes", func(t *testing.T) {
		svc, store := newTestService(t, models.Inventory{
			"2024-11-01": {Availability: 5},
			"2024-11-02": {Availability: 1},
		})
		_, err := svc.Decrement(ctx, []string{"2024-11-01", "2024-11-02"}, 2)
		var capErr *InsufficientCapacityError
		if !errors.As(err, &capErr) {
			t.Fatalf("expected InsufficientCapacityError, got %v", err)
		}
		if capErr.Date != "2024-11-02" {
			t.Fatalf("expected failing date 2024-11-02, got %s", capErr.Date)
		}
		if store.Saves != 0 {
			t.Fatalf("expected no writes, got %d", store.Saves)
		}
	})

	t.Run("unprovisioned date is insufficient", func(t *testing.T) {
		svc, _ := newTestService(t, models.Inventory{})
		_, err := svc.Decrement(ctx, []string{"2024-11-09"}, 1)
		if !IsInsufficientCapacity(err) {
			t.Fatalf("expected insufficient capacity, got %v", err)
		}
	})
}

func TestSetAvailabilityAllowsNegative(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newTestService(t, models.Inventory{"2024-11-01": {Availability: 4}})
	if err := svc.SetAvailability(ctx, "2024-11-01", -2); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	inv, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if inv["2024-11-01"].Availability != -2 {
		t.Fatalf("expected -2, got %d", inv["2024-11-01"].Availability)
	}
}
