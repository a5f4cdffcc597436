package utils

import "time"

// DateLayout is the inventory and ledger key format.
const DateLayout = "2006-01-02"

// Clock allows injecting time in services.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a clock backed by time.Now in the given location.
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

type fixedClock struct {
	now time.Time
}

// NewFixedClock returns a clock that always returns the same instant (useful for tests).
func NewFixedClock(t time.Time) Clock {
	return fixedClock{now: t}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Today formats the clock's current date as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}
