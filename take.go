package streamkit

import "sync"

// Take returns a Stream emitting at most the first count values of source,
// then synthesizing a completion and stopping the upstream subscription. If
// source terminates before count values its terminal event is forwarded
// unchanged. A count of zero or less completes immediately without ever
// subscribing to source.
func Take(source Stream, count int) Stream {
	return StreamFunc(func(sub Subscriber) Subscription {
		g := newGate(sub)
		if count <= 0 {
			g.Complete()
			return g
		}

		t := &takeRun{g: g, left: count}
		up := source.Subscribe(t)
		g.Defer(up.Stop)
		return g
	})
}

// takeRun counts down forwarded values and completes the downstream gate on
// the last one, which in turn releases the upstream subscription.
type takeRun struct {
	g *gate

	cl   sync.Mutex
	left int
}

func (t *takeRun) Halted() bool {
	return t.g.Stopped()
}

func (t *takeRun) OnNext(v interface{}) {
	t.cl.Lock()
	if t.left == 0 {
		t.cl.Unlock()
		return
	}
	t.left--
	last := t.left == 0
	t.cl.Unlock()

	t.g.Next(v)
	if last {
		t.g.Complete()
	}
}

func (t *takeRun) OnError(err error) {
	t.g.Error(err)
}

func (t *takeRun) OnComplete() {
	t.g.Complete()
}
