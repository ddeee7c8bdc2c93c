package streamkit_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokit/streamkit"
	"github.com/gokit/streamkit/mocks"
)

func TestBufferedPreservesOrder(t *testing.T) {
	source := streamkit.Buffered(streamkit.EmitValues(1, 2, 3))

	sub := mocks.NewSubImpl()
	source.Subscribe(sub)

	require.True(t, sub.AwaitTerminal(time.Second))
	assert.Equal(t, []interface{}{1, 2, 3}, sub.Values())
	assert.True(t, sub.Completed())
}

func TestBufferedForwardsFailure(t *testing.T) {
	failure := errors.New("bad error")
	source := streamkit.Buffered(failWith(failure))

	sub := mocks.NewSubImpl()
	source.Subscribe(sub)

	require.True(t, sub.AwaitTerminal(time.Second))
	assert.Equal(t, failure, sub.Err())
}

func TestBufferedStopHaltsDelivery(t *testing.T) {
	b := streamkit.NewBroadcast()
	source := streamkit.Buffered(b)

	sub := mocks.NewSubImpl()
	ss := source.Subscribe(sub)

	require.NoError(t, b.Publish(1))
	require.True(t, sub.AwaitValues(1, time.Second))

	ss.Stop()
	require.NoError(t, b.Publish(2))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []interface{}{1}, sub.Values())
	assert.False(t, sub.Terminated())
}

type countInvoker struct {
	received int32
	handled  int32
}

func (c *countInvoker) InvokedFull()                     {}
func (c *countInvoker) InvokedEmpty()                    {}
func (c *countInvoker) InvokedDropped(streamkit.Item)    {}
func (c *countInvoker) InvokedReceived(streamkit.Item)   { atomic.AddInt32(&c.received, 1) }
func (c *countInvoker) InvokedDispatched(streamkit.Item) { atomic.AddInt32(&c.handled, 1) }

func TestBufferedWithInvoker(t *testing.T) {
	invoker := new(countInvoker)
	source := streamkit.BufferedWith(streamkit.EmitValues("only", "twice"), invoker)

	sub := mocks.NewSubImpl()
	source.Subscribe(sub)

	require.True(t, sub.AwaitTerminal(time.Second))
	assert.Equal(t, []interface{}{"only", "twice"}, sub.Values())

	// two values plus the completion marker moved through the queue.
	assert.Equal(t, int32(3), atomic.LoadInt32(&invoker.received))
	assert.Equal(t, int32(3), atomic.LoadInt32(&invoker.handled))
}
