package entity

import "time"

// Clock supplies wall-clock timestamps in Unix milliseconds.
//
// All audit fields (createdAt, updatedAt) and invite expiries are stamped
// through a Clock so tests can substitute a deterministic implementation.
// Ordering within the store never depends on these timestamps; the store
// keeps its own insertion order.
type Clock interface {
	Now() int64
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns the current time in Unix milliseconds.
func (SystemClock) Now() int64 { return time.Now().UnixMilli() }
