// Package clock provides the time source used to stamp snapshots and records
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/Zevankai/Equipment-Tool/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time in UTC
func (c *Real) Now() time.Time {
	return time.Now().UTC()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Stamp reads c and truncates to millisecond precision, the resolution every
// store can round-trip.
func Stamp(c Clock) time.Time {
	return c.Now().UTC().Truncate(time.Millisecond)
}
