package testutils

import (
	"sync"
	"time"
)

// Fixture identifiers
const (
	TestRoomID        = "room-test-001"
	TestCharacterID   = "char-test-001"
	TestCharacterName = "Mira Ashdown"
)

// TestEpoch is the first instant a StepClock reports
var TestEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// StepClock returns a strictly increasing time on every call. It implements
// clock.Clock.
type StepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewStepClock starts at start and advances by step after each Now
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

// Now returns the current reading and advances the clock
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

// Peek returns the next reading without advancing
func (c *StepClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// Millis converts a millisecond offset from TestEpoch into a timestamp
func Millis(ms int64) time.Time {
	return TestEpoch.Add(time.Duration(ms) * time.Millisecond)
}
