package inventory

import (
	"context"
	"fmt"

	"roomdesk/models"

	"go.uber.org/zap"
)

func (s *DefaultInventoryService) DefaultCapacity() int {
	return s.Capacity
}

// Load reads the inventory document. A missing document is a configuration
// error, not an empty inventory.
func (s *DefaultInventoryService) Load(ctx context.Context) (models.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// EnsureDates inserts defaultCapacity for every absent date and persists the
// result when anything was inserted. The write happens even if the caller
// goes on to reject the request.
func (s *DefaultInventoryService) EnsureDates(ctx context.Context, dates []string, defaultCapacity int) (models.Inventory, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure(ctx, dates, defaultCapacity)
}

// CheckCapacity is true iff every date, after provisioning, has at least count rooms.
func (s *DefaultInventoryService) CheckCapacity(ctx context.Context, dates []string, count int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, _, err := s.ensure(ctx, dates, s.Capacity)
	if err != nil {
		return false, err
	}
	for _, d := range dates {
		if inv[d].Availability < count {
			s.Logger.Info("Insufficient rooms",
				zap.String("date", d),
				zap.Int("available", inv[d].Availability),
				zap.Int("requested", count))
			return false, nil
		}
	}
	return true, nil
}

// Decrement subtracts count from every date, or from none of them. It
// revalidates at mutation time, so it can fail after a successful CheckCapacity.
func (s *DefaultInventoryService) Decrement(ctx context.Context, dates []string, count int) (models.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range dates {
		rec, ok := inv[d]
		if !ok || rec.Availability < count {
			return nil, &InsufficientCapacityError{Date: d, Available: rec.Availability, Requested: count}
		}
	}
	for _, d := range dates {
		rec := inv[d]
		rec.Availability -= count
		inv[d] = rec
	}
	if err := s.save(ctx, inv); err != nil {
		return nil, err
	}
	s.Logger.Info("Inventory decremented", zap.Strings("dates", dates), zap.Int("rooms", count))
	return inv, nil
}

// SetAvailability overwrites a date unconditionally. Negative values are
// accepted on purpose: it is the operator's escape hatch.
func (s *DefaultInventoryService) SetAvailability(ctx context.Context, date string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.load(ctx)
	if err != nil {
		return err
	}
	inv[date] = models.InventoryRecord{Availability: value}
	if err := s.save(ctx, inv); err != nil {
		return err
	}
	s.Logger.Info("Availability overridden", zap.String("date", date), zap.Int("availability", value))
	return nil
}

// Availability reads one date without provisioning it.
func (s *DefaultInventoryService) Availability(ctx context.Context, date string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.load(ctx)
	if err != nil {
		return 0, false, err
	}
	rec, ok := inv[date]
	return rec.Availability, ok, nil
}

func (s *DefaultInventoryService) ensure(ctx context.Context, dates []string, defaultCapacity int) (models.Inventory, bool, error) {
	inv, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}
	var added []string
	for _, d := range dates {
		if _, ok := inv[d]; !ok {
			inv[d] = models.InventoryRecord{Availability: defaultCapacity}
			added = append(added, d)
		}
	}
	if len(added) == 0 {
		return inv, false, nil
	}
	if err := s.save(ctx, inv); err != nil {
		return nil, false, err
	}
	s.Logger.Info("Provisioned inventory dates", zap.Strings("dates", added), zap.Int("capacity", defaultCapacity))
	return inv, true, nil
}

func (s *DefaultInventoryService) load(ctx context.Context) (models.Inventory, error) {
	var inv models.Inventory
	if err := s.Store.Load(ctx, &inv); err != nil {
		s.Logger.Error("Failed to load inventory", zap.String("store", s.Store.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if inv == nil {
		inv = models.Inventory{}
	}
	return inv, nil
}

func (s *DefaultInventoryService) save(ctx context.Context, inv models.Inventory) error {
	if err := s.Store.Save(ctx, inv); err != nil {
		s.Logger.Error("Failed to save inventory", zap.String("store", s.Store.Name()), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
