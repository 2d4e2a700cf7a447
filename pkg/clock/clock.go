package clock

import "time"

// Cancel stops a pending timer. It reports whether the timer was stopped
// before firing; cancelling an already-fired or already-cancelled timer is
// a safe no-op.
type Cancel func() bool

// Clock abstracts wall time and one-shot timers so view dismiss delays can
// be driven synchronously in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Cancel
}

type systemClock struct{}

// System returns the real wall clock.
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Cancel {
	timer := time.AfterFunc(d, fn)
	return timer.Stop
}
