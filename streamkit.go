// Package streamkit provides a small set of push-based stream primitives and
// combinators: finite and timed sources, transformation and filtering,
// sequential and concurrent combination, and error substitution. A Stream is
// lazy, every subscription evaluates independently, and each subscriber
// receives at most one terminal event.
package streamkit

//***********************************
//  Subscriber
//***********************************

// Subscriber receives the values and the single terminal event of a Stream.
// For a giving subscription OnNext may be called zero or more times, after
// which exactly one of OnError or OnComplete is called at most once. Callbacks
// for one subscription are never invoked concurrently.
type Subscriber interface {
	OnNext(interface{})
	OnError(error)
	OnComplete()
}

// SubWith returns a Subscriber from the provided callback functions. Any of
// the three may be nil, in which case the corresponding event is ignored.
func SubWith(next func(interface{}), failure func(error), complete func()) Subscriber {
	return &funcSub{next: next, failure: failure, complete: complete}
}

// funcSub implements the Subscriber interface over plain functions.
type funcSub struct {
	next     func(interface{})
	failure  func(error)
	complete func()
}

func (f *funcSub) OnNext(v interface{}) {
	if f.next != nil {
		f.next(v)
	}
}

func (f *funcSub) OnError(err error) {
	if f.failure != nil {
		f.failure(err)
	}
}

func (f *funcSub) OnComplete() {
	if f.complete != nil {
		f.complete()
	}
}

//***********************************
//  Subscription
//***********************************

// Identity provides a method to return the ID of a subscription.
type Identity interface {
	ID() string
}

// Subscription defines the live relationship between a Stream and one
// subscriber. Stop cancels the subscription: it is idempotent, prevents any
// further callback delivery and synchronously releases every timer or listener
// owned transitively by the subscription.
type Subscription interface {
	Identity

	Stop()
	Stopped() bool
}

//***********************************
//  Stream
//***********************************

// Stream is a lazy producer of a time-ordered sequence of values. Subscribing
// starts an independent evaluation whose lifetime is governed by the returned
// Subscription.
type Stream interface {
	Subscribe(Subscriber) Subscription
}

// StreamFunc adapts a function into a Stream.
type StreamFunc func(Subscriber) Subscription

// Subscribe calls the underline function with the provided subscriber.
func (f StreamFunc) Subscribe(sub Subscriber) Subscription {
	return f(sub)
}

//***********************************
//  Sources
//***********************************

// Iterator yields the successive values of one iteration pass, reporting
// false once exhausted.
type Iterator interface {
	Next() (interface{}, bool)
}

// Iterable produces a fresh Iterator for every subscription, keeping
// iterations independent of each other.
type Iterable interface {
	Iterator() Iterator
}

// DeferredSource represents a single eventual value or failure, the narrow
// capability a promise-like host object must expose to be adapted into a
// Stream. An implementation must settle at most once; listeners registered
// after settlement receive the settled outcome immediately.
type DeferredSource interface {
	RegisterCallback(resolve func(interface{}), reject func(error))
}

//***********************************
//  Item
//***********************************

// Item carries one stream event through queues and broadcasts: a value, a
// failure or a completion marker. Err and Done are mutually exclusive.
type Item struct {
	Value interface{}
	Err   error
	Done  bool
}

//***********************************
//  Invokers
//***********************************

// QueueInvoker defines an interface that exposes methods to signal status
// changes of a BoxQueue for external instrumentation to plug into.
type QueueInvoker interface {
	InvokedFull()
	InvokedEmpty()
	InvokedDropped(Item)
	InvokedReceived(Item)
	InvokedDispatched(Item)
}
