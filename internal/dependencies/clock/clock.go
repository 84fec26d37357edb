package clock

import "time"

// Clock is the time source used for record timestamps. Services take a Clock
// so tests can pin the timestamps they assert on.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// New returns the system clock
func New() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}
