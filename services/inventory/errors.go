package inventory

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable covers a missing, unreadable or unwritable document.
var ErrStorageUnavailable = errors.New("storage unavailable")

// InsufficientCapacityError is the expected business outcome when a date
// cannot take the requested rooms.
type InsufficientCapacityError struct {
	Date      string
	Available int
	Requested int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity on %s: %d available, %d requested", e.Date, e.Available, e.Requested)
}

// IsInsufficientCapacity reports whether err carries an InsufficientCapacityError.
func IsInsufficientCapacity(err error) bool {
	var capErr *InsufficientCapacityError
	return errors.As(err, &capErr)
}
