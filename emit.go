package streamkit

import "github.com/gokit/errors"

// ErrUnknownSource is returned when EmitFromSource receives a source type
// which can not be adapted into a Stream.
var ErrUnknownSource = errors.New("source type is not adaptable to a stream")

//***********************************
//  EmitValues
//***********************************

// EmitValues returns a finite Stream which emits each giving value
// synchronously in argument order to every new subscriber, then completes.
// It has no error path.
func EmitValues(values ...interface{}) Stream {
	return sliceStream(values)
}

// sliceStream implements the Stream interface over a fixed value list.
type sliceStream []interface{}

func (s sliceStream) Subscribe(sub Subscriber) Subscription {
	g := newGate(sub)
	for _, v := range s {
		if !g.live() {
			return g
		}
		g.Next(v)
	}
	g.Complete()
	return g
}

//***********************************
//  EmitFromSource
//***********************************

// EmitFromSource adapts the giving source into a Stream.
//
// Ordered sources ([]interface{} and Iterable) emit each element in order and
// then complete. A DeferredSource emits its resolved value once and then
// completes, or fails with the rejection reason; either way exactly one
// terminal event is delivered. A Stream passes through unchanged. Any other
// source yields a Stream failing with ErrUnknownSource on subscription.
func EmitFromSource(source interface{}) Stream {
	switch so := source.(type) {
	case []interface{}:
		return sliceStream(so)
	case Iterable:
		return iterableStream{src: so}
	case DeferredSource:
		return deferredStream{src: so}
	case Stream:
		return so
	default:
		return StreamFunc(func(sub Subscriber) Subscription {
			g := newGate(sub)
			g.Error(errors.Wrap(ErrUnknownSource, "unable to adapt %T into a stream", source))
			return g
		})
	}
}

// iterableStream implements the Stream interface over an Iterable, pulling a
// fresh Iterator per subscription.
type iterableStream struct {
	src Iterable
}

func (s iterableStream) Subscribe(sub Subscriber) Subscription {
	g := newGate(sub)
	it := s.src.Iterator()
	for {
		if !g.live() {
			return g
		}
		v, ok := it.Next()
		if !ok {
			break
		}
		g.Next(v)
	}
	g.Complete()
	return g
}

// deferredStream implements the Stream interface over a DeferredSource,
// emitting its single settlement to each subscriber.
type deferredStream struct {
	src DeferredSource
}

func (s deferredStream) Subscribe(sub Subscriber) Subscription {
	g := newGate(sub)
	s.src.RegisterCallback(func(v interface{}) {
		g.Next(v)
		g.Complete()
	}, func(err error) {
		g.Error(err)
	})
	return g
}
