package application

import "time"

// Clock schedules continuations after a delay.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending continuation returned by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the continuation from running. It reports whether the
	// call stopped the timer.
	Stop() bool
}

type systemClock struct{}

// SystemClock is the wall-clock implementation of Clock backed by time.AfterFunc.
var SystemClock Clock = systemClock{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
