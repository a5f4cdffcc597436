package documentRepo

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when the document has never been saved.
var ErrNotFound = errors.New("document not found")

// Store persists one whole document. Load decodes the stored document into v,
// Save replaces it with v. There is no partial update and no cache: every Load
// goes back to durable storage.
type Store interface {
	Load(ctx context.Context, v any) error
	Save(ctx context.Context, v any) error
	Name() string
}
