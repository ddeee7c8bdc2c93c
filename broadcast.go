package streamkit

import (
	"sync"

	"github.com/gokit/errors"
	"github.com/gokit/es"
)

// ErrBroadcastClosed is returned when publishing into an already terminated
// Broadcast.
var ErrBroadcastClosed = errors.New("broadcast has terminated")

// Broadcast is a hot Stream: values published into it are multicast to every
// active subscriber, each holding its own independent subscription view.
// Subscribers arriving after termination receive the terminal event
// immediately. It decorates the gokit es event stream with stream terminal
// semantics.
type Broadcast struct {
	events es.EventStream

	cl       sync.Mutex
	terminal *Item
	views    []*view
}

// view pairs a subscriber gate with its event stream listener, letting the
// listener be detached outside the delivery path.
type view struct {
	g    *gate
	esub es.Subscription
}

// NewBroadcast returns a new instance of a Broadcast.
func NewBroadcast() *Broadcast {
	return &Broadcast{events: es.New()}
}

// Publish multicasts v to all active subscribers.
func (b *Broadcast) Publish(v interface{}) error {
	return b.publish(Item{Value: v}, false)
}

// PublishError terminates the Broadcast, failing every active subscriber
// with err.
func (b *Broadcast) PublishError(err error) error {
	return b.publish(Item{Err: err}, true)
}

// Close terminates the Broadcast, completing every active subscriber.
func (b *Broadcast) Close() error {
	return b.publish(Item{Done: true}, true)
}

// Terminated returns true/false if the Broadcast has been closed or failed.
func (b *Broadcast) Terminated() bool {
	b.cl.Lock()
	defer b.cl.Unlock()
	return b.terminal != nil
}

// Subscribe implements the Stream interface.
func (b *Broadcast) Subscribe(sub Subscriber) Subscription {
	g := newGate(sub)

	b.cl.Lock()
	if b.terminal != nil {
		t := *b.terminal
		b.cl.Unlock()
		deliverItem(g, t)
		return g
	}

	esub := b.events.Subscribe(func(m interface{}) {
		if item, ok := m.(Item); ok {
			deliverItem(g, item)
		}
	})
	b.views = append(b.views, &view{g: g, esub: esub})
	b.cl.Unlock()
	return g
}

func (b *Broadcast) publish(item Item, terminal bool) error {
	b.cl.Lock()
	if b.terminal != nil {
		b.cl.Unlock()
		return errors.WrapOnly(ErrBroadcastClosed)
	}
	if terminal {
		b.terminal = &item
	}
	b.cl.Unlock()

	b.events.Publish(item)
	b.detach(terminal)
	return nil
}

// detach stops event stream listeners once delivery has finished. The event
// stream holds its read lock while handlers run, so a listener must never be
// stopped from inside a handler. A terminal publish detaches every view; a
// value publish prunes the views whose subscription has stopped, which are
// already suppressed by their gates.
func (b *Broadcast) detach(all bool) {
	var dead []*view

	b.cl.Lock()
	kept := b.views[:0]
	for _, v := range b.views {
		if all || v.g.Stopped() {
			dead = append(dead, v)
			continue
		}
		kept = append(kept, v)
	}
	b.views = kept
	b.cl.Unlock()

	for _, v := range dead {
		v.esub.Stop()
	}
}

func deliverItem(g *gate, item Item) {
	switch {
	case item.Done:
		g.Complete()
	case item.Err != nil:
		g.Error(item.Err)
	default:
		g.Next(item.Value)
	}
}
