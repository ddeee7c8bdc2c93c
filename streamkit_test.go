package streamkit_test

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gokit/streamkit"
)

// probeStream counts subscriptions made against its inner stream.
type probeStream struct {
	subs  int32
	inner streamkit.Stream
}

func (p *probeStream) Subscribe(sub streamkit.Subscriber) streamkit.Subscription {
	atomic.AddInt32(&p.subs, 1)
	return p.inner.Subscribe(sub)
}

func (p *probeStream) Total() int {
	return int(atomic.LoadInt32(&p.subs))
}

// failWith returns a stream failing immediately with err.
func failWith(err error) streamkit.Stream {
	return streamkit.Transform(streamkit.EmitValues(struct{}{}), func(interface{}) (interface{}, error) {
		return nil, err
	})
}

// label returns a transform prefixing every value for interleave assertions.
func label(prefix string) streamkit.TransformFunc {
	return func(v interface{}) (interface{}, error) {
		return fmt.Sprintf("%s-%v", prefix, v), nil
	}
}

// captureLog implements the streamkit.Logs interface, recording emitted
// messages for assertions.
type captureLog struct {
	ml      sync.Mutex
	levels  []streamkit.Level
	entries []string
}

func (c *captureLog) Emit(l streamkit.Level, m streamkit.LogMessage) {
	c.ml.Lock()
	c.levels = append(c.levels, l)
	c.entries = append(c.entries, m.Message())
	c.ml.Unlock()
}

func (c *captureLog) Entries() []string {
	c.ml.Lock()
	defer c.ml.Unlock()
	es := make([]string, len(c.entries))
	copy(es, c.entries)
	return es
}

func (c *captureLog) Levels() []streamkit.Level {
	c.ml.Lock()
	defer c.ml.Unlock()
	ls := make([]streamkit.Level, len(c.levels))
	copy(ls, c.levels)
	return ls
}
