package documentRepo

import (
	"context"
	"errors"
)

// Bootstrap writes empty to store when the document does not exist yet.
// Any other Load failure is returned untouched and nothing is written.
func Bootstrap(ctx context.Context, store Store, empty any) (bool, error) {
	var probe map[string]any
	err := store.Load(ctx, &probe)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if err := store.Save(ctx, empty); err != nil {
		return false, err
	}
	return true, nil
}
