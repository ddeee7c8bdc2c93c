package streamkit

import "github.com/gokit/errors"

// TransformFunc maps a value to its replacement. Returning an error fails the
// stream with that error and halts further forwarding.
type TransformFunc func(interface{}) (interface{}, error)

// Predicate reports whether a giving value should be kept.
type Predicate func(interface{}) bool

//***********************************
//  Transform
//***********************************

// Transform returns a Stream which emits fn(v) for each value v emitted by
// source. Completion and failure of source propagate unchanged. If fn returns
// an error or panics, the returned Stream fails with that error and forwards
// no further values.
func Transform(source Stream, fn TransformFunc) Stream {
	return StreamFunc(func(sub Subscriber) Subscription {
		g := newGate(sub)
		up := source.Subscribe(transformRun{g: g, fn: fn})
		g.Defer(up.Stop)
		return g
	})
}

// transformRun forwards mapped values from source into the downstream gate.
type transformRun struct {
	g  *gate
	fn TransformFunc
}

func (t transformRun) Halted() bool {
	return t.g.Stopped()
}

func (t transformRun) OnNext(v interface{}) {
	res, err := applyTransform(t.fn, v)
	if err != nil {
		t.g.Error(err)
		return
	}
	t.g.Next(res)
}

func (t transformRun) OnError(err error) {
	t.g.Error(err)
}

func (t transformRun) OnComplete() {
	t.g.Complete()
}

// applyTransform runs fn against v, recovering a panic within fn into a
// returned failure.
func applyTransform(fn TransformFunc, v interface{}) (res interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = perr
				return
			}
			err = errors.New("transform panic: %+v", p)
		}
	}()
	return fn(v)
}

//***********************************
//  Select
//***********************************

// Select returns a Stream which emits only the values of source for which the
// predicate holds, preserving relative order. Completion and failure of
// source propagate unchanged; a panic inside the predicate fails the Stream.
func Select(source Stream, p Predicate) Stream {
	return StreamFunc(func(sub Subscriber) Subscription {
		g := newGate(sub)
		up := source.Subscribe(selectRun{g: g, p: p})
		g.Defer(up.Stop)
		return g
	})
}

// selectRun forwards values passing the predicate into the downstream gate.
type selectRun struct {
	g *gate
	p Predicate
}

func (s selectRun) Halted() bool {
	return s.g.Stopped()
}

func (s selectRun) OnNext(v interface{}) {
	keep, err := applyPredicate(s.p, v)
	if err != nil {
		s.g.Error(err)
		return
	}
	if keep {
		s.g.Next(v)
	}
}

func (s selectRun) OnError(err error) {
	s.g.Error(err)
}

func (s selectRun) OnComplete() {
	s.g.Complete()
}

// applyPredicate runs p against v, recovering a panic within p into a
// returned failure.
func applyPredicate(p Predicate, v interface{}) (keep bool, err error) {
	defer func() {
		if pr := recover(); pr != nil {
			if perr, ok := pr.(error); ok {
				err = perr
				return
			}
			err = errors.New("predicate panic: %+v", pr)
		}
	}()
	return p(v), nil
}
