package streamkit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gokit/streamkit"
	"github.com/gokit/streamkit/mocks"
)

func TestLoggedMirrorsStream(t *testing.T) {
	logs := new(captureLog)
	source := streamkit.Logged(streamkit.EmitValues(1, 2), logs, "demo")

	sub := mocks.NewSubImpl()
	source.Subscribe(sub)

	assert.Equal(t, []interface{}{1, 2}, sub.Values())
	assert.True(t, sub.Completed())

	entries := logs.Entries()
	assert.Len(t, entries, 3)
	assert.Contains(t, entries[0], "\"pipeline\": \"demo\"")
	assert.Contains(t, entries[0], "\"value\": \"1\"")
	assert.Contains(t, entries[2], "stream completed")
	assert.Equal(t, []streamkit.Level{streamkit.INFO, streamkit.INFO, streamkit.INFO}, logs.Levels())
}

func TestLoggedReportsFailure(t *testing.T) {
	failure := errors.New("bad error")

	logs := new(captureLog)
	source := streamkit.Logged(failWith(failure), logs, "demo")

	sub := mocks.NewSubImpl()
	source.Subscribe(sub)

	assert.Equal(t, failure, sub.Err())

	entries := logs.Entries()
	assert.Len(t, entries, 1)
	assert.Contains(t, entries[0], "stream failed")
	assert.Contains(t, entries[0], "bad error")
	assert.Equal(t, []streamkit.Level{streamkit.ERROR}, logs.Levels())
}

func TestLoggedNilLogs(t *testing.T) {
	sub := mocks.NewSubImpl()
	streamkit.Logged(streamkit.EmitValues("ok"), nil, "demo").Subscribe(sub)

	assert.Equal(t, []interface{}{"ok"}, sub.Values())
	assert.True(t, sub.Completed())
}
