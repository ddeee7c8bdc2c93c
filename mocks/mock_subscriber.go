package mocks

import (
	"sync"
	"time"

	"github.com/gokit/streamkit"
)

//****************************************
// Test Subscriber Implementation
//****************************************

// SubImpl implements the streamkit.Subscriber interface, recording every
// delivery for assertions.
type SubImpl struct {
	ml     sync.Mutex
	values []interface{}
	err    error
	done   bool
}

// NewSubImpl returns a new instance of a SubImpl.
func NewSubImpl() *SubImpl {
	return &SubImpl{}
}

func (s *SubImpl) OnNext(v interface{}) {
	s.ml.Lock()
	s.values = append(s.values, v)
	s.ml.Unlock()
}

func (s *SubImpl) OnError(err error) {
	s.ml.Lock()
	s.err = err
	s.ml.Unlock()
}

func (s *SubImpl) OnComplete() {
	s.ml.Lock()
	s.done = true
	s.ml.Unlock()
}

// Values returns a copy of all values received so far.
func (s *SubImpl) Values() []interface{} {
	s.ml.Lock()
	defer s.ml.Unlock()
	vs := make([]interface{}, len(s.values))
	copy(vs, s.values)
	return vs
}

// Err returns the recorded terminal failure, if any.
func (s *SubImpl) Err() error {
	s.ml.Lock()
	defer s.ml.Unlock()
	return s.err
}

// Completed returns true/false if completion was recorded.
func (s *SubImpl) Completed() bool {
	s.ml.Lock()
	defer s.ml.Unlock()
	return s.done
}

// Terminated returns true/false if any terminal event was recorded.
func (s *SubImpl) Terminated() bool {
	s.ml.Lock()
	defer s.ml.Unlock()
	return s.done || s.err != nil
}

// AwaitValues blocks till at least total values were recorded or the timeout
// elapsed, reporting which.
func (s *SubImpl) AwaitValues(total int, timeout time.Duration) bool {
	return s.await(timeout, func() bool {
		s.ml.Lock()
		defer s.ml.Unlock()
		return len(s.values) >= total
	})
}

// AwaitTerminal blocks till a terminal event was recorded or the timeout
// elapsed, reporting which.
func (s *SubImpl) AwaitTerminal(timeout time.Duration) bool {
	return s.await(timeout, s.Terminated)
}

func (s *SubImpl) await(timeout time.Duration, check func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if check() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

//****************************************
// Test Clock Implementation
//****************************************

// ClockImpl implements the streamkit.Clock interface with hand-driven ticks,
// keeping interval tests independent of real time.
type ClockImpl struct {
	ml      sync.Mutex
	tickers []*TickerImpl
}

// NewClockImpl returns a new instance of a ClockImpl.
func NewClockImpl() *ClockImpl {
	return &ClockImpl{}
}

// NewTicker implements the streamkit.Clock interface. The period is recorded
// but never waited on.
func (c *ClockImpl) NewTicker(d time.Duration) streamkit.Ticker {
	t := &TickerImpl{period: d, ch: make(chan time.Time)}
	c.ml.Lock()
	c.tickers = append(c.tickers, t)
	c.ml.Unlock()
	return t
}

// Tickers returns all tickers handed out so far.
func (c *ClockImpl) Tickers() []*TickerImpl {
	c.ml.Lock()
	defer c.ml.Unlock()
	ts := make([]*TickerImpl, len(c.tickers))
	copy(ts, c.tickers)
	return ts
}

// TickerImpl implements the streamkit.Ticker interface.
type TickerImpl struct {
	period time.Duration
	ch     chan time.Time

	ml      sync.Mutex
	stopped bool
}

// Chan implements the streamkit.Ticker interface.
func (t *TickerImpl) Chan() <-chan time.Time {
	return t.ch
}

// Stop implements the streamkit.Ticker interface.
func (t *TickerImpl) Stop() {
	t.ml.Lock()
	t.stopped = true
	t.ml.Unlock()
}

// Stopped returns true/false if the ticker was stopped.
func (t *TickerImpl) Stopped() bool {
	t.ml.Lock()
	defer t.ml.Unlock()
	return t.stopped
}

// Period returns the period the ticker was created with.
func (t *TickerImpl) Period() time.Duration {
	return t.period
}

// Tick offers one tick to the consumer, reporting false when no consumer
// picked it up within a short grace window, as after the owning subscription
// stopped.
func (t *TickerImpl) Tick() bool {
	select {
	case t.ch <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}
