package coop

import (
	"sync"
	"time"
)

// Clock supplies the current time to an [Executor] and lets an idle loop
// pause.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// WallClock returns a [Clock] backed by the time package.
// Times it returns carry a monotonic reading.
func WallClock() Clock {
	return wallClock{}
}

// ManualClock is a [Clock] that only moves when told to.
// Sleep advances it instead of blocking.
//
// A ManualClock is safe for concurrent use, so a test can advance it from
// another goroutine.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a [ManualClock] set to t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now returns the current time of c.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances c by d.
func (c *ManualClock) Sleep(d time.Duration) {
	c.Advance(d)
}

// Advance moves c forward by d. Negative durations are ignored.
func (c *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
