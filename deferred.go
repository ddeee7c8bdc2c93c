package streamkit

import (
	"sync"

	"github.com/gokit/errors"
	"github.com/gokit/es"
	"github.com/gokit/xid"
)

// ErrDeferredSettled is returned when a Deferred receives a second settlement.
var ErrDeferredSettled = errors.New("deferred source is already settled")

// resolution carries the settled outcome of a Deferred.
type resolution struct {
	value interface{}
	err   error
}

// Deferred is an in-process settle-once eventual value, the promise analogue
// accepted by EmitFromSource. A Deferred settles through exactly one of
// Resolve or Reject; a second settlement attempt is refused with
// ErrDeferredSettled. Listeners registered after settlement are invoked
// immediately with the settled outcome.
type Deferred struct {
	id     xid.ID
	events es.EventStream

	w         sync.WaitGroup
	cl        sync.Mutex
	res       *resolution
	listeners []es.Subscription
}

// NewDeferred returns a new unsettled Deferred.
func NewDeferred() *Deferred {
	var d Deferred
	d.id = xid.New()
	d.events = es.New()
	d.w.Add(1)
	return &d
}

// ID returns the unique id of giving Deferred.
func (d *Deferred) ID() string {
	return d.id.String()
}

// Resolve settles the Deferred with a value.
func (d *Deferred) Resolve(v interface{}) error {
	return d.settle(&resolution{value: v})
}

// Reject settles the Deferred with a failure.
func (d *Deferred) Reject(err error) error {
	return d.settle(&resolution{err: err})
}

// Settled returns true/false if the Deferred has been resolved or rejected.
func (d *Deferred) Settled() bool {
	d.cl.Lock()
	defer d.cl.Unlock()
	return d.res != nil
}

// Wait blocks till the Deferred settles, returning its failure if rejected.
func (d *Deferred) Wait() error {
	d.w.Wait()
	d.cl.Lock()
	defer d.cl.Unlock()
	return d.res.err
}

// RegisterCallback implements the DeferredSource interface. The resolve and
// reject callbacks may each be nil; at most one of them fires, exactly once.
func (d *Deferred) RegisterCallback(resolve func(interface{}), reject func(error)) {
	d.cl.Lock()
	if d.res != nil {
		r := *d.res
		d.cl.Unlock()
		dispatchResolution(r, resolve, reject)
		return
	}

	// Subscription happens under the settle lock so a racing settle can not
	// publish between the check above and the listener being attached.
	var once sync.Once
	esub := d.events.Subscribe(func(m interface{}) {
		if r, ok := m.(resolution); ok {
			once.Do(func() {
				dispatchResolution(r, resolve, reject)
			})
		}
	})
	d.listeners = append(d.listeners, esub)
	d.cl.Unlock()
}

func (d *Deferred) settle(r *resolution) error {
	d.cl.Lock()
	if d.res != nil {
		d.cl.Unlock()
		return errors.Wrap(ErrDeferredSettled, "deferred %q already settled", d.id.String())
	}
	d.res = r
	listeners := d.listeners
	d.listeners = nil
	d.cl.Unlock()

	d.w.Done()
	d.events.Publish(*r)

	// Listeners are detached only once delivery has finished: the event
	// stream holds its read lock while handlers run, so a listener must
	// never be stopped from inside its own dispatch. Registrations arriving
	// past this point are served directly and never attach.
	for _, l := range listeners {
		l.Stop()
	}
	return nil
}

func dispatchResolution(r resolution, resolve func(interface{}), reject func(error)) {
	if r.err != nil {
		if reject != nil {
			reject(r.err)
		}
		return
	}
	if resolve != nil {
		resolve(r.value)
	}
}
