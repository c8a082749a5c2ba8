package engine

import "time"

// Clock supplies the instant written into calendar exports as DTSTAMP.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current time in UTC, the form DTSTAMP is written in.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}
