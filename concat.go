package streamkit

import "sync"

// ConcatSequential returns a Stream which emits the values of each giving
// stream in strict sequence: the next stream is subscribed only once the
// current one completes, so values are never interleaved. A failure in any
// constituent fails the result immediately and the remaining streams are
// never subscribed. The result completes after the last stream completes; an
// empty argument list completes immediately. Stopping the subscription stops
// only the currently active constituent.
func ConcatSequential(streams ...Stream) Stream {
	return StreamFunc(func(sub Subscriber) Subscription {
		g := newGate(sub)
		r := &concatRun{g: g, streams: streams}
		g.Defer(r.stop)
		r.drive()
		return g
	})
}

// concatRun walks the constituent streams one at a time, subscribing to the
// next only once the current one reported completion.
type concatRun struct {
	g       *gate
	streams []Stream

	cl          sync.Mutex
	index       int
	current     Subscription
	advanced    bool
	subscribing bool
}

func (r *concatRun) Halted() bool {
	return r.g.Stopped()
}

func (r *concatRun) OnNext(v interface{}) {
	r.g.Next(v)
}

func (r *concatRun) OnError(err error) {
	r.g.Error(err)
}

// OnComplete advances to the next constituent. When completion arrives while
// drive is still inside Subscribe, drive's own loop advances instead, keeping
// synchronous constituents from recursing.
func (r *concatRun) OnComplete() {
	r.cl.Lock()
	r.advanced = true
	drives := !r.subscribing
	r.cl.Unlock()
	if drives {
		r.drive()
	}
}

func (r *concatRun) drive() {
	for {
		if r.g.Stopped() {
			return
		}

		r.cl.Lock()
		if r.index >= len(r.streams) {
			r.cl.Unlock()
			r.g.Complete()
			return
		}
		next := r.streams[r.index]
		r.index++
		r.advanced = false
		r.subscribing = true
		r.cl.Unlock()

		sub := next.Subscribe(r)

		r.cl.Lock()
		r.subscribing = false
		advanced := r.advanced
		if !advanced {
			r.current = sub
		}
		r.cl.Unlock()

		if r.g.Stopped() {
			sub.Stop()
			return
		}
		if !advanced {
			return
		}
	}
}

func (r *concatRun) stop() {
	r.cl.Lock()
	sub := r.current
	r.current = nil
	r.cl.Unlock()
	if sub != nil {
		sub.Stop()
	}
}
