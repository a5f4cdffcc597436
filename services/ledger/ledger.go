// Package ledger keeps per-date audit counters of requester messages and
// booked rooms, persisted separately from the inventory.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	documentRepo "roomdesk/database/repository/document"
	"roomdesk/models"
	"roomdesk/services/inventory"

	"go.uber.org/zap"
)

// LedgerService records and reads the audit counters.
type LedgerService interface {
	RecordMessage(ctx context.Context, date string) error
	RecordBooking(ctx context.Context, dates []string, rooms int) error
	Get(ctx context.Context, date string) (models.LedgerRecord, error)
	All(ctx context.Context) (models.Ledger, error)
}

// DefaultLedgerService implements LedgerService over a whole-document store.
type DefaultLedgerService struct {
	Store  documentRepo.Store
	Logger *zap.Logger

	mu sync.Mutex
}

func NewDefaultLedgerService(store documentRepo.Store, logger *zap.Logger) *DefaultLedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultLedgerService{Store: store, Logger: logger}
}

// RecordMessage increments messagesFromRequester for date.
func (s *DefaultLedgerService) RecordMessage(ctx context.Context, date string) error {
	return s.update(ctx, func(l models.Ledger) {
		rec := l[date]
		rec.MessagesFromRequester++
		l[date] = rec
	})
}

// RecordBooking adds rooms to roomsBooked for every stay date.
func (s *DefaultLedgerService) RecordBooking(ctx context.Context, dates []string, rooms int) error {
	return s.update(ctx, func(l models.Ledger) {
		for _, d := range dates {
			rec := l[d]
			rec.RoomsBooked += rooms
			l[d] = rec
		}
	})
}

// Get returns the counters for date; an unseen date reads as zero.
func (s *DefaultLedgerService) Get(ctx context.Context, date string) (models.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ctx)
	if err != nil {
		return models.LedgerRecord{}, err
	}
	return l[date], nil
}

func (s *DefaultLedgerService) All(ctx context.Context) (models.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *DefaultLedgerService) update(ctx context.Context, fn func(models.Ledger)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ctx)
	if err != nil {
		return err
	}
	fn(l)
	if err := s.Store.Save(ctx, l); err != nil {
		s.Logger.Error("Failed to save ledger", zap.String("store", s.Store.Name()), zap.Error(err))
		return fmt.Errorf("%w: %v", inventory.ErrStorageUnavailable, err)
	}
	return nil
}

// load treats a document that was never written as an empty ledger; records
// are created lazily.
func (s *DefaultLedgerService) load(ctx context.Context) (models.Ledger, error) {
	var l models.Ledger
	err := s.Store.Load(ctx, &l)
	if err != nil && !errors.Is(err, documentRepo.ErrNotFound) {
		s.Logger.Error("Failed to load ledger", zap.String("store", s.Store.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", inventory.ErrStorageUnavailable, err)
	}
	if l == nil {
		l = models.Ledger{}
	}
	return l, nil
}
