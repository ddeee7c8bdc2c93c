package streamkit

import "sync"

// MergeConcurrent returns a Stream which subscribes to all giving streams at
// once and emits every value as soon as its source produces it, interleaved
// by emission time with ties broken by argument order. The result completes
// only once every input has completed, and fails as soon as any input fails,
// stopping all other still-active inputs at that point. An empty argument
// list completes immediately.
func MergeConcurrent(streams ...Stream) Stream {
	return StreamFunc(func(sub Subscriber) Subscription {
		g := newGate(sub)
		if len(streams) == 0 {
			g.Complete()
			return g
		}

		m := &mergeRun{g: g, pending: len(streams)}
		g.Defer(m.stop)

		for _, source := range streams {
			if g.Stopped() {
				break
			}
			m.add(source.Subscribe(m))
		}
		return g
	})
}

// mergeRun fans every constituent stream into one gate, tracking how many
// inputs are still running and the subscriptions to stop on failure.
type mergeRun struct {
	g *gate

	cl      sync.Mutex
	pending int
	subs    []Subscription
}

func (m *mergeRun) Halted() bool {
	return m.g.Stopped()
}

func (m *mergeRun) OnNext(v interface{}) {
	m.g.Next(v)
}

func (m *mergeRun) OnError(err error) {
	m.g.Error(err)
}

func (m *mergeRun) OnComplete() {
	m.cl.Lock()
	m.pending--
	done := m.pending == 0
	m.cl.Unlock()
	if done {
		m.g.Complete()
	}
}

func (m *mergeRun) add(sub Subscription) {
	m.cl.Lock()
	m.subs = append(m.subs, sub)
	m.cl.Unlock()

	// The gate may have terminated while the subscription was being set up.
	if m.g.Stopped() {
		sub.Stop()
	}
}

func (m *mergeRun) stop() {
	m.cl.Lock()
	subs := m.subs
	m.subs = nil
	m.cl.Unlock()
	for _, sub := range subs {
		sub.Stop()
	}
}
