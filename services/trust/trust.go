// Package trust holds the process-wide enable flag and the trusted
// originator, persisted as the metadata document.
package trust

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	documentRepo "roomdesk/database/repository/document"
	"roomdesk/models"
	"roomdesk/services/inventory"

	"go.uber.org/zap"
)

// Config is the injected TrustConfig. The zero value is disabled with no
// trusted originator and no persistence.
type Config struct {
	store  documentRepo.Store
	logger *zap.Logger

	mu   sync.RWMutex
	meta models.Metadata
}

// NewConfig returns a Config backed by store; call Load before use.
func NewConfig(store documentRepo.Store, logger *zap.Logger) *Config {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Config{store: store, logger: logger}
}

// NewStatic returns an in-memory Config, for tests and one-off tools.
func NewStatic(enabled bool, trustedOriginator string) *Config {
	return &Config{
		logger: zap.NewNop(),
		meta: models.Metadata{
			Enabled:           enabled,
			TrustedOriginator: NormalizePhone(trustedOriginator),
		},
	}
}

// Load reads the metadata document. A document that was never written leaves
// the agent enabled with no trusted originator.
func (c *Config) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	var meta models.Metadata
	err := c.store.Load(ctx, &meta)
	if errors.Is(err, documentRepo.ErrNotFound) {
		meta = models.Metadata{Enabled: true}
	} else if err != nil {
		return fmt.Errorf("%w: %v", inventory.ErrStorageUnavailable, err)
	}
	meta.TrustedOriginator = NormalizePhone(meta.TrustedOriginator)

	c.mu.Lock()
	c.meta = meta
	c.mu.Unlock()
	c.logger.Info("Trust settings loaded",
		zap.Bool("enabled", meta.Enabled),
		zap.String("trustedOriginator", meta.TrustedOriginator))
	return nil
}

func (c *Config) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meta.Enabled
}

// TrustedOriginator returns the trusted number and whether one is set.
func (c *Config) TrustedOriginator() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meta.TrustedOriginator, c.meta.TrustedOriginator != ""
}

// IsTrusted compares sender with the trusted originator by digits only.
func (c *Config) IsTrusted(sender string) bool {
	trusted, ok := c.TrustedOriginator()
	if !ok {
		return false
	}
	return NormalizePhone(sender) == trusted
}

func (c *Config) SetEnabled(ctx context.Context, enabled bool) error {
	return c.update(ctx, func(m *models.Metadata) { m.Enabled = enabled })
}

func (c *Config) SetTrustedOriginator(ctx context.Context, phone string) error {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return fmt.Errorf("trusted originator %q has no digits", phone)
	}
	return c.update(ctx, func(m *models.Metadata) { m.TrustedOriginator = normalized })
}

func (c *Config) Snapshot() models.Metadata {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meta
}

// update persists before publishing so a failed write leaves memory unchanged.
func (c *Config) update(ctx context.Context, fn func(*models.Metadata)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.meta
	fn(&next)
	if c.store != nil {
		if err := c.store.Save(ctx, next); err != nil {
			c.logger.Error("Failed to save trust settings", zap.Error(err))
			return fmt.Errorf("%w: %v", inventory.ErrStorageUnavailable, err)
		}
	}
	c.meta = next
	return nil
}

// NormalizePhone keeps only the digits, so "+65 9123-4567" and "6591234567"
// compare equal. WhatsApp JIDs ("6591234567@s.whatsapp.net") are cut at "@".
func NormalizePhone(phone string) string {
	if i := strings.IndexByte(phone, '@'); i >= 0 {
		phone = phone[:i]
	}
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
