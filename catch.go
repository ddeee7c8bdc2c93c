package streamkit

import (
	"sync"

	"github.com/gokit/errors"
)

// ErrNoReplacement is returned when a replacement handler yields no stream
// for an intercepted failure.
var ErrNoReplacement = errors.New("error handler returned no replacement stream")

// ReplaceFunc builds the replacement Stream substituted for an upstream
// failure.
type ReplaceFunc func(error) Stream

// CatchAndSubstitute returns a Stream mirroring source until source fails, at
// which point the failure is handed to fn and the Stream it returns is
// subscribed in place of source, its values and terminal event forwarded
// instead. If source completes normally behavior is pass-through. This is the
// only recovery primitive in the package and it intercepts a failure exactly
// once per subscription.
func CatchAndSubstitute(source Stream, fn ReplaceFunc) Stream {
	return StreamFunc(func(sub Subscriber) Subscription {
		g := newGate(sub)
		c := &catchRun{g: g, fn: fn}
		g.Defer(c.stop)
		c.set(source.Subscribe(c))
		return g
	})
}

// catchRun forwards source events until a failure arrives, then swaps its
// active subscription over to the replacement stream.
type catchRun struct {
	g  *gate
	fn ReplaceFunc

	cl      sync.Mutex
	current Subscription
}

func (c *catchRun) Halted() bool {
	return c.g.Stopped()
}

func (c *catchRun) OnNext(v interface{}) {
	c.g.Next(v)
}

func (c *catchRun) OnComplete() {
	c.g.Complete()
}

// OnError intercepts the upstream failure, never forwarding it downstream
// unless the handler itself fails to produce a replacement.
func (c *catchRun) OnError(err error) {
	replacement, rerr := substitute(c.fn, err)
	if rerr != nil {
		c.g.Error(rerr)
		return
	}
	if c.g.Stopped() {
		return
	}
	c.set(replacement.Subscribe(forwardRun{g: c.g}))
}

func (c *catchRun) set(sub Subscription) {
	c.cl.Lock()
	c.current = sub
	c.cl.Unlock()

	// The gate may have terminated while the subscription was being set up.
	if c.g.Stopped() {
		sub.Stop()
	}
}

func (c *catchRun) stop() {
	c.cl.Lock()
	sub := c.current
	c.current = nil
	c.cl.Unlock()
	if sub != nil {
		sub.Stop()
	}
}

// substitute runs fn against the intercepted failure, recovering a panic or a
// nil replacement into a returned failure.
func substitute(fn ReplaceFunc, cause error) (s Stream, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.New("replacement handler panic: %+v", p)
		}
	}()

	s = fn(cause)
	if s == nil {
		err = errors.Wrap(ErrNoReplacement, "no substitute for failure %q", cause.Error())
	}
	return
}
