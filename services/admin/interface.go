// File: services/admin/interface.go
package admin

import (
	"context"

	"roomdesk/models"
)

// TrustSettings is the read-write view of the enable flag and trusted originator.
type TrustSettings interface {
	Enabled() bool
	SetEnabled(ctx context.Context, enabled bool) error
	TrustedOriginator() (string, bool)
	SetTrustedOriginator(ctx context.Context, phone string) error
}

// AdminDispatcher answers operator commands sent to the control chat.
type AdminDispatcher interface {
	Handle(ctx context.Context, msg models.InboundMessage) (string, error)
	Report(ctx context.Context) (string, error)
	ReportRows(ctx context.Context) ([]models.ReportRow, error)
}
