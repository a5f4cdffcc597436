// File: services/intelligence/interface.go
package intelligence

import (
	"context"

	"roomdesk/models"
)

// Extractor maps free text onto the structured intents the core acts on.
// today is YYYY-MM-DD and anchors relative dates ("tomorrow", "02NOV").
// Every method fails with an error wrapping ErrExtractionFailed.
type Extractor interface {
	ExtractNeedsRooms(ctx context.Context, text, today string) (models.RoomNeed, error)
	ExtractBookingConfirmation(ctx context.Context, text, today string) (models.BookingConfirmation, error)
	ExtractDate(ctx context.Context, text, today string) (string, error)
	ExtractAdminCommand(ctx context.Context, text string) (models.AdminCommand, error)
	ExtractOverride(ctx context.Context, text, today string) (models.Override, error)
	ExtractOriginator(ctx context.Context, text string) (string, bool, error)
}

// Completer runs one system+user prompt and returns the raw model text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
