package testutil

import "sync"

// FixedClock is a thread-safe manual clock for tests. It reports a fixed
// Unix-millisecond timestamp until advanced, so activity and inbox rows
// written in one test step share the timestamps the assertions expect.
type FixedClock struct {
	mu  sync.Mutex
	now int64
}

// NewFixedClock creates a clock pinned at the given Unix-millisecond time.
func NewFixedClock(now int64) *FixedClock {
	return &FixedClock{now: now}
}

// Now returns the current pinned time.
func (c *FixedClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by ms milliseconds.
func (c *FixedClock) Advance(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += ms
}

// Set pins the clock to an absolute time.
func (c *FixedClock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
