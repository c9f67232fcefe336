package scheduler

import "time"

// Clock abstracts wall-clock time and timer creation so the reminder state
// machine can be driven by a virtual clock in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the handle for a pending callback.
type Timer interface {
	Stop() bool
}

type realClock struct{}

// NewClock returns a Clock backed by the runtime timers.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
