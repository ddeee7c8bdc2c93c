package streamkit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokit/streamkit"
	"github.com/gokit/streamkit/mocks"
)

func TestTimedIntervalCounts(t *testing.T) {
	clock := mocks.NewClockImpl()
	source := streamkit.TimedIntervalWith(10*time.Millisecond, clock)

	sub := mocks.NewSubImpl()
	ss := source.Subscribe(sub)

	ticker := clock.Tickers()[0]
	require.True(t, ticker.Tick())
	require.True(t, ticker.Tick())
	require.True(t, ticker.Tick())
	require.True(t, sub.AwaitValues(3, time.Second))

	assert.Equal(t, []interface{}{0, 1, 2}, sub.Values())
	assert.False(t, sub.Terminated())

	ss.Stop()
	assert.True(t, ticker.Stopped())
}

func TestTimedIntervalStopHaltsDelivery(t *testing.T) {
	clock := mocks.NewClockImpl()
	source := streamkit.TimedIntervalWith(10*time.Millisecond, clock)

	sub := mocks.NewSubImpl()
	ss := source.Subscribe(sub)

	ticker := clock.Tickers()[0]
	require.True(t, ticker.Tick())
	require.True(t, sub.AwaitValues(1, time.Second))

	ss.Stop()
	ss.Stop()
	assert.True(t, ss.Stopped())

	// after a stop no k+1 is ever delivered. The first tick may still be
	// consumed while the timer goroutine winds down, the next never is.
	ticker.Tick()
	assert.False(t, ticker.Tick())
	assert.Equal(t, []interface{}{0}, sub.Values())
}

func TestTimedIntervalPacing(t *testing.T) {
	started := time.Now()

	sub := mocks.NewSubImpl()
	streamkit.Take(streamkit.TimedInterval(20*time.Millisecond), 3).Subscribe(sub)

	require.True(t, sub.AwaitTerminal(2*time.Second))
	assert.Equal(t, []interface{}{0, 1, 2}, sub.Values())
	assert.True(t, sub.Completed())

	// value k arrives no earlier than (k+1) periods after subscription.
	assert.True(t, time.Since(started) >= 60*time.Millisecond)
}

// Mirrors the classic merged interval demo: a slow interval and a fast
// interval, two values each, interleaved by elapsed time and completing only
// after both inner streams complete.
func TestMergedTimedIntervals(t *testing.T) {
	slowClock := mocks.NewClockImpl()
	fastClock := mocks.NewClockImpl()

	slow := streamkit.Transform(
		streamkit.Take(streamkit.TimedIntervalWith(time.Second, slowClock), 2),
		label("slow"),
	)
	fast := streamkit.Transform(
		streamkit.Take(streamkit.TimedIntervalWith(500*time.Millisecond, fastClock), 2),
		label("fast"),
	)

	sub := mocks.NewSubImpl()
	streamkit.MergeConcurrent(slow, fast).Subscribe(sub)

	slowTick := slowClock.Tickers()[0]
	fastTick := fastClock.Tickers()[0]

	// 500ms mark.
	require.True(t, fastTick.Tick())
	require.True(t, sub.AwaitValues(1, time.Second))

	// 1000ms mark.
	require.True(t, slowTick.Tick())
	require.True(t, sub.AwaitValues(2, time.Second))

	// 1500ms mark, fast side completes.
	require.True(t, fastTick.Tick())
	require.True(t, sub.AwaitValues(3, time.Second))
	assert.False(t, sub.Terminated())

	// 2000ms mark, slow side completes and so does the merge.
	require.True(t, slowTick.Tick())
	require.True(t, sub.AwaitTerminal(time.Second))

	assert.Equal(t, []interface{}{"fast-0", "slow-0", "fast-1", "slow-1"}, sub.Values())
	assert.True(t, sub.Completed())
	assert.True(t, fastTick.Stopped())
	assert.True(t, slowTick.Stopped())
}
