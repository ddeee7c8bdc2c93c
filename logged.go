package streamkit

import "fmt"

// Logged returns a Stream mirroring source while emitting a structured log
// event for every delivery, tagged with the giving pipeline name. A nil Logs
// falls back to DrainLog.
func Logged(source Stream, logs Logs, pipeline string) Stream {
	if logs == nil {
		logs = DrainLog{}
	}
	return StreamFunc(func(sub Subscriber) Subscription {
		g := newGate(sub)
		up := source.Subscribe(logRun{g: g, logs: logs, pipeline: pipeline})
		g.Defer(up.Stop)
		return g
	})
}

// logRun forwards every event while publishing it to the Logs sink.
type logRun struct {
	g        *gate
	logs     Logs
	pipeline string
}

func (l logRun) Halted() bool {
	return l.g.Stopped()
}

func (l logRun) OnNext(v interface{}) {
	LogMsg("stream value").
		String("pipeline", l.pipeline).
		String("value", fmt.Sprintf("%+v", v)).
		Write(INFO, l.logs)
	l.g.Next(v)
}

func (l logRun) OnError(err error) {
	LogMsg("stream failed").
		String("pipeline", l.pipeline).
		String("error", err.Error()).
		Write(ERROR, l.logs)
	l.g.Error(err)
}

func (l logRun) OnComplete() {
	LogMsg("stream completed").
		String("pipeline", l.pipeline).
		Write(INFO, l.logs)
	l.g.Complete()
}
