package streamkit

import (
	"sync"

	"github.com/gokit/xid"
)

// halter is implemented by forwarding subscribers whose downstream may have
// terminated, letting a synchronous source halt emission without waiting for
// a Subscription handle to exist.
type halter interface {
	Halted() bool
}

// gate wraps a Subscriber with the delivery rules every operator in this
// package relies on: callbacks are serialized, a terminal event fires at most
// once, and stopping or terminating releases every resource owned by the
// subscription. A gate is the Subscription handed back from Subscribe.
type gate struct {
	id  xid.ID
	sub Subscriber

	dl sync.Mutex // serializes subscriber callbacks

	sl       sync.Mutex // guards lifecycle state
	done     bool
	stopped  bool
	releases []func()
}

func newGate(sub Subscriber) *gate {
	return &gate{id: xid.New(), sub: sub}
}

// ID returns the unique id of giving subscription.
func (g *gate) ID() string {
	return g.id.String()
}

// Stopped returns true/false if the subscription was cancelled or has
// delivered its terminal event.
func (g *gate) Stopped() bool {
	g.sl.Lock()
	defer g.sl.Unlock()
	return g.stopped || g.done
}

// Stop cancels the subscription. It is idempotent, suppresses every callback
// not yet begun and synchronously runs the registered release functions.
func (g *gate) Stop() {
	g.sl.Lock()
	if g.stopped || g.done {
		g.sl.Unlock()
		return
	}
	g.stopped = true
	rs := g.releases
	g.releases = nil
	g.sl.Unlock()

	for _, fn := range rs {
		fn()
	}
}

// Defer registers a release function owned by the subscription, run exactly
// once when the subscription stops or terminates. If that already happened
// the function runs immediately.
func (g *gate) Defer(fn func()) {
	g.sl.Lock()
	if g.stopped || g.done {
		g.sl.Unlock()
		fn()
		return
	}
	g.releases = append(g.releases, fn)
	g.sl.Unlock()
}

// live reports whether value delivery may still proceed, accounting for the
// wrapped subscriber itself sitting in front of a dead downstream gate.
func (g *gate) live() bool {
	if g.Stopped() {
		return false
	}
	if h, ok := g.sub.(halter); ok && h.Halted() {
		return false
	}
	return true
}

// Next delivers v to the subscriber unless the subscription is done.
func (g *gate) Next(v interface{}) {
	g.dl.Lock()
	defer g.dl.Unlock()
	if !g.live() {
		return
	}
	g.sub.OnNext(v)
}

// Error delivers the terminal failure, winning over any later terminal.
func (g *gate) Error(err error) {
	g.dl.Lock()
	defer g.dl.Unlock()
	if !g.terminate() {
		return
	}
	g.sub.OnError(err)
}

// Complete delivers the terminal completion, winning over any later terminal.
func (g *gate) Complete() {
	g.dl.Lock()
	defer g.dl.Unlock()
	if !g.terminate() {
		return
	}
	g.sub.OnComplete()
}

// terminate flips the subscription into its final state and runs the release
// functions, reporting whether the caller won the terminal event.
func (g *gate) terminate() bool {
	g.sl.Lock()
	if g.stopped || g.done {
		g.sl.Unlock()
		return false
	}
	g.done = true
	rs := g.releases
	g.releases = nil
	g.sl.Unlock()

	for _, fn := range rs {
		fn()
	}
	return true
}

// forwardRun forwards every event from a constituent stream straight into a
// gate, exposing the gate's state as its own halt state.
type forwardRun struct {
	g *gate
}

func (f forwardRun) Halted() bool {
	return f.g.Stopped()
}

func (f forwardRun) OnNext(v interface{}) {
	f.g.Next(v)
}

func (f forwardRun) OnError(err error) {
	f.g.Error(err)
}

func (f forwardRun) OnComplete() {
	f.g.Complete()
}
