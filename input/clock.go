package input

import "time"

// Clock provides the monotonic time source used by calibration.
// Abstracted so tests can drive virtual time.
type Clock interface {
	Now() time.Time
}

// systemClock provides the real system time with monotonic clock readings
type systemClock struct{}

// SystemClock returns the real monotonic time source.
func SystemClock() Clock {
	return systemClock{}
}

// Now returns the current time with monotonic clock reading
func (systemClock) Now() time.Time {
	return time.Now()
}
