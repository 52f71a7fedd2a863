package telemetry

import "time"

// Clock supplies wall time so report cadence and runtime math are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using time.Now.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
