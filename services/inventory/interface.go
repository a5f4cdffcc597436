package inventory

import (
	"context"
	"sync"

	documentRepo "roomdesk/database/repository/document"
	"roomdesk/models"

	"go.uber.org/zap"
)

// InventoryService is the date-indexed room ledger shared by the negotiation
// engine and the admin dispatcher.
type InventoryService interface {
	Load(ctx context.Context) (models.Inventory, error)
	EnsureDates(ctx context.Context, dates []string, defaultCapacity int) (models.Inventory, bool, error)
	Decrement(ctx context.Context, dates []string, count int) (models.Inventory, error)
	SetAvailability(ctx context.Context, date string, value int) error
	CheckCapacity(ctx context.Context, dates []string, count int) (bool, error)
	Availability(ctx context.Context, date string) (int, bool, error)
	DefaultCapacity() int
}

// DefaultInventoryService implements InventoryService over a whole-document store.
// Every operation re-reads the document; mu makes each load-modify-save cycle
// atomic within this process only.
type DefaultInventoryService struct {
	Store    documentRepo.Store
	Capacity int
	Logger   *zap.Logger

	mu sync.Mutex
}

// NewDefaultInventoryService wires the service; defaultCapacity seeds unseen dates.
func NewDefaultInventoryService(store documentRepo.Store, defaultCapacity int, logger *zap.Logger) *DefaultInventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultInventoryService{
		Store:    store,
		Capacity: defaultCapacity,
		Logger:   logger,
	}
}
