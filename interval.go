package streamkit

import "time"

//***********************************
//  Clock
//***********************************

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Clock produces Tickers, letting tests substitute a hand-driven time source
// for the runtime timer wheel.
type Clock interface {
	NewTicker(time.Duration) Ticker
}

// SystemClock implements the Clock interface over the runtime timers.
type SystemClock struct{}

// NewTicker returns a Ticker backed by a time.Ticker.
func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) Chan() <-chan time.Time {
	return s.t.C
}

func (s systemTicker) Stop() {
	s.t.Stop()
}

//***********************************
//  TimedInterval
//***********************************

// TimedInterval returns an infinite Stream which emits the successive
// counters 0, 1, 2, ... every period, measured from subscription time. It
// never completes or fails on its own; stopping the subscription halts
// emission and synchronously releases the timer, which is owned exclusively
// by that subscription.
func TimedInterval(period time.Duration) Stream {
	return TimedIntervalWith(period, SystemClock{})
}

// TimedIntervalWith is TimedInterval driven by the giving Clock.
func TimedIntervalWith(period time.Duration, clock Clock) Stream {
	return StreamFunc(func(sub Subscriber) Subscription {
		g := newGate(sub)
		tick := clock.NewTicker(period)
		quit := make(chan struct{})
		g.Defer(func() {
			tick.Stop()
			close(quit)
		})

		go func() {
			var counter int
			for {
				select {
				case <-quit:
					return
				case <-tick.Chan():
					if !g.live() {
						return
					}
					g.Next(counter)
					counter++
				}
			}
		}()
		return g
	})
}
