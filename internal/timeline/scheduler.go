package timeline

import (
	"sync"
	"time"
)

// Scheduler invokes fn every interval until the returned stop function is
// called. Every must not call fn before returning. Stop must be safe to call
// more than once and must not block on fn.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(interval time.Duration, fn func()) func()

// Every calls f.
func (f SchedulerFunc) Every(interval time.Duration, fn func()) func() {
	return f(interval, fn)
}

// TickerScheduler runs fn on a background goroutine driven by a time.Ticker.
type TickerScheduler struct{}

// Every launches the ticker goroutine and returns immediately.
func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		interval = DefaultInterval
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
			}
			// A stop that raced with the tick wins.
			select {
			case <-done:
				return
			default:
			}
			fn()
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
