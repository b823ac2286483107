package usecase

import "time"

// Scheduler runs fn once after delay. The returned func cancels it if it has not run yet.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}

type TimerScheduler struct{}

func (TimerScheduler) Schedule(delay time.Duration, fn func()) func() {
	timer := time.AfterFunc(delay, fn)

	return func() {
		timer.Stop()
	}
}
