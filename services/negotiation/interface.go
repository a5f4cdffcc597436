// File: services/negotiation/interface.go
package negotiation

import (
	"context"

	"roomdesk/models"
)

// TrustConfig is the read side of the enable flag and trusted originator.
type TrustConfig interface {
	Enabled() bool
	IsTrusted(sender string) bool
}

// SessionStore holds one Conversation per chat. Get returns a fresh idle
// conversation when none is stored.
type SessionStore interface {
	Get(ctx context.Context, conversationID string) (*models.Conversation, error)
	Save(ctx context.Context, conv *models.Conversation) error
}
