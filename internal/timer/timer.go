package timer

import (
	"sync/atomic"
	"time"
)

// Clock is a coarse clock: the time is updated in background once per resolution, so
// reading it costs a single atomic load. Precise enough for setting I/O deadlines.
type Clock struct {
	millis *atomic.Int64
	stop   *atomic.Bool
}

// Start runs a new clock.
func Start(resolution time.Duration) Clock {
	c := Clock{
		millis: new(atomic.Int64),
		stop:   new(atomic.Bool),
	}
	// the goroutine isn't guaranteed to start immediately, and rapid usage of the clock
	// must not result in a zero-time
	c.millis.Store(time.Now().UnixMilli())

	go func() {
		for !c.stop.Load() {
			time.Sleep(resolution)
			c.millis.Store(time.Now().UnixMilli())
		}
	}()

	return c
}

// Now returns the time, which lags behind the real one by at most the resolution.
func (c Clock) Now() time.Time {
	millis := c.millis.Load()
	return time.Unix(millis/1000, (millis%1000)*1e6)
}

// Stop stops updating the time.
func (c Clock) Stop() {
	c.stop.Store(true)
}
