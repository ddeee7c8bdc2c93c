package streamkit_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokit/streamkit"
	"github.com/gokit/streamkit/mocks"
)

func TestTake(t *testing.T) {
	source := streamkit.Take(streamkit.EmitValues(1, 2, 3, 4, 5), 3)

	sub := mocks.NewSubImpl()
	source.Subscribe(sub)

	assert.Equal(t, []interface{}{1, 2, 3}, sub.Values())
	assert.True(t, sub.Completed())
}

func TestTakeShortSource(t *testing.T) {
	source := streamkit.Take(streamkit.EmitValues(1), 3)

	sub := mocks.NewSubImpl()
	source.Subscribe(sub)

	assert.Equal(t, []interface{}{1}, sub.Values())
	assert.True(t, sub.Completed())
}

func TestTakeForwardsFailure(t *testing.T) {
	failure := errors.New("bad error")
	source := streamkit.Take(failWith(failure), 3)

	sub := mocks.NewSubImpl()
	source.Subscribe(sub)

	assert.Equal(t, failure, sub.Err())
	assert.False(t, sub.Completed())
}

func TestTakeZeroNeverSubscribes(t *testing.T) {
	inner := &probeStream{inner: streamkit.EmitValues(1, 2)}
	source := streamkit.Take(inner, 0)

	sub := mocks.NewSubImpl()
	source.Subscribe(sub)

	assert.Empty(t, sub.Values())
	assert.True(t, sub.Completed())
	assert.Equal(t, 0, inner.Total())
}

func TestTakeStopsUpstreamTimer(t *testing.T) {
	clock := mocks.NewClockImpl()
	source := streamkit.Take(streamkit.TimedIntervalWith(10*time.Millisecond, clock), 2)

	sub := mocks.NewSubImpl()
	source.Subscribe(sub)

	ticker := clock.Tickers()[0]
	require.True(t, ticker.Tick())
	require.True(t, sub.AwaitValues(1, time.Second))

	require.True(t, ticker.Tick())
	require.True(t, sub.AwaitTerminal(time.Second))

	assert.Equal(t, []interface{}{0, 1}, sub.Values())
	assert.True(t, sub.Completed())
	assert.True(t, ticker.Stopped())

	// a racing tick may still be consumed while the timer goroutine winds
	// down, but no further tick is picked up.
	ticker.Tick()
	assert.False(t, ticker.Tick())
}
