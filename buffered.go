package streamkit

// Buffered returns a Stream which decouples source from its subscriber by
// parking every event in an unbounded BoxQueue and draining the queue on a
// dispatch goroutine owned by the subscription. Event order is preserved; the
// terminal event drains after every value queued before it.
func Buffered(source Stream) Stream {
	return BufferedWith(source, nil)
}

// BufferedWith is Buffered with a QueueInvoker attached to the backing queue
// for instrumentation.
func BufferedWith(source Stream, invoker QueueInvoker) Stream {
	return StreamFunc(func(sub Subscriber) Subscription {
		g := newGate(sub)
		q := UnboundedBoxQueue(invoker)
		quit := make(chan struct{})

		up := source.Subscribe(queueRun{g: g, q: q})
		g.Defer(func() {
			up.Stop()
			close(quit)
			q.Signal()
		})

		go drain(g, q, quit)
		return g
	})
}

// drain moves queued items into the gate until the terminal item or a stop
// signal arrives.
func drain(g *gate, q *BoxQueue, quit chan struct{}) {
	for {
		q.Wait()

		select {
		case <-quit:
			return
		default:
		}

		for {
			item, err := q.Pop()
			if err != nil {
				break
			}
			if item.Done {
				g.Complete()
				return
			}
			if item.Err != nil {
				g.Error(item.Err)
				return
			}
			g.Next(item.Value)
		}
	}
}

// queueRun parks every upstream event in the queue for the dispatch
// goroutine to deliver.
type queueRun struct {
	g *gate
	q *BoxQueue
}

func (r queueRun) Halted() bool {
	return r.g.Stopped()
}

func (r queueRun) OnNext(v interface{}) {
	r.q.Push(Item{Value: v})
}

func (r queueRun) OnError(err error) {
	r.q.Push(Item{Err: err})
}

func (r queueRun) OnComplete() {
	r.q.Push(Item{Done: true})
}
