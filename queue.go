package streamkit

import (
	"sync"
	"sync/atomic"

	"github.com/gokit/errors"
)

// ErrPushFailed is returned when a queue has reached its storage limit.
var ErrPushFailed = errors.New("failed to push into queue")

// ErrQueueEmpty is returned when a queue holds no pending items.
var ErrQueueEmpty = errors.New("queue is empty")

var nodePool = sync.Pool{New: func() interface{} {
	return new(node)
}}

// Strategy defines an int type to represent a giving drop strategy.
type Strategy int

// constants.
const (
	DropNew Strategy = iota
	DropOld
)

type node struct {
	value *Item
	next  *node
	prev  *node
}

// BoxQueue defines a queue implementation safe for concurrent use across
// go-routines, which provides the ability to requeue, pop and push stream
// items. BoxQueue uses a lock to guarantee safe concurrent use.
type BoxQueue struct {
	bm       sync.Mutex
	pushCond *sync.Cond
	head     *node
	tail     *node
	capped   int
	total    int64
	strategy Strategy
	invoker  QueueInvoker
}

// BoundedBoxQueue returns a new instance of a bounded box queue. Items queue
// till the cap is reached, after which the giving strategy decides whether
// the new or the oldest item is dropped to make space.
func BoundedBoxQueue(capped int, method Strategy, invoker QueueInvoker) *BoxQueue {
	bq := &BoxQueue{
		capped:   capped,
		strategy: method,
		invoker:  invoker,
	}
	bq.pushCond = sync.NewCond(&bq.bm)
	return bq
}

// UnboundedBoxQueue returns a new instance of an unbounded box queue. Items
// will be queued endlessly.
func UnboundedBoxQueue(invoker QueueInvoker) *BoxQueue {
	bq := &BoxQueue{
		capped:  -1,
		invoker: invoker,
	}
	bq.pushCond = sync.NewCond(&bq.bm)
	return bq
}

// Signal broadcasts to all listening go-routines to attempt checks for new
// items from their blocking state.
func (bq *BoxQueue) Signal() {
	bq.pushCond.Broadcast()
}

// Clear resets and deletes all elements pending within the queue.
func (bq *BoxQueue) Clear() {
	bq.pushCond.L.Lock()

	if bq.isEmpty() {
		bq.pushCond.L.Unlock()
		return
	}

	bq.tail = nil
	bq.head = nil
	atomic.StoreInt64(&bq.total, 0)
	bq.pushCond.L.Unlock()

	bq.pushCond.Broadcast()
}

// Wait blocks the current goroutine till there is an item pushed into the
// queue, allowing you to rely on it as a scheduling signal for when items
// are in queue.
func (bq *BoxQueue) Wait() {
	bq.pushCond.L.Lock()
	if !bq.isEmpty() {
		bq.pushCond.L.Unlock()
		return
	}
	bq.pushCond.Wait()
	bq.pushCond.L.Unlock()
}

// Push adds the item to the back of the queue.
//
// Push can be safely called from multiple goroutines. If the queue is capped
// and full, the configured strategy decides which item is dropped.
func (bq *BoxQueue) Push(item Item) error {
	available := int(atomic.LoadInt64(&bq.total))
	if bq.capped != -1 && available >= bq.capped {
		if bq.invoker != nil {
			bq.invoker.InvokedFull()
		}

		switch bq.strategy {
		case DropNew:
			if bq.invoker != nil {
				bq.invoker.InvokedDropped(item)
			}
			return errors.Wrap(ErrPushFailed, "queue is at cap %d", bq.capped)
		case DropOld:
			if dropped, err := bq.Pop(); err == nil {
				if bq.invoker != nil {
					bq.invoker.InvokedDropped(dropped)
				}
			}
		}
	}

	atomic.AddInt64(&bq.total, 1)
	n := nodePool.Get().(*node)
	n.value = &item

	if bq.invoker != nil {
		bq.invoker.InvokedReceived(item)
	}

	bq.pushCond.L.Lock()
	if bq.head == nil && bq.tail == nil {
		bq.head, bq.tail = n, n
		bq.pushCond.L.Unlock()

		bq.pushCond.Broadcast()
		return nil
	}

	bq.tail.next = n
	n.prev = bq.tail
	bq.tail = n
	bq.pushCond.L.Unlock()

	bq.pushCond.Broadcast()
	return nil
}

// Unpop adds the item back to the front of the queue.
//
// Unpop can be safely called from multiple goroutines. If the queue is capped
// and max was reached, then the last added item is removed to make space for
// the item to be added back, regardless of strategy.
func (bq *BoxQueue) Unpop(item Item) {
	available := int(atomic.LoadInt64(&bq.total))
	if bq.capped != -1 && available >= bq.capped {
		bq.unshift()
	}

	atomic.AddInt64(&bq.total, 1)
	n := nodePool.Get().(*node)
	n.value = &item

	if bq.invoker != nil {
		bq.invoker.InvokedReceived(item)
	}

	bq.pushCond.L.Lock()
	head := bq.head
	if head != nil {
		n.next = head
		bq.head = n
		bq.pushCond.L.Unlock()

		bq.pushCond.Broadcast()
		return
	}

	bq.head = n
	bq.tail = n
	bq.pushCond.L.Unlock()

	bq.pushCond.Broadcast()
}

// Pop removes the item from the front of the queue.
//
// Pop can be safely called from multiple goroutines.
func (bq *BoxQueue) Pop() (Item, error) {
	bq.pushCond.L.Lock()
	head := bq.head
	if head != nil {
		atomic.AddInt64(&bq.total, -1)

		v := head.value

		if bq.invoker != nil {
			bq.invoker.InvokedDispatched(*v)
		}

		bq.head = head.next
		if bq.tail == head {
			bq.tail = bq.head
		}

		head.next = nil
		head.prev = nil
		head.value = nil
		bq.pushCond.L.Unlock()

		nodePool.Put(head)

		return *v, nil
	}
	bq.pushCond.L.Unlock()

	if bq.invoker != nil {
		bq.invoker.InvokedEmpty()
	}

	return Item{}, errors.Wrap(ErrQueueEmpty, "empty queue")
}

// unshift discards the tail of the queue, allowing new space.
func (bq *BoxQueue) unshift() {
	bq.pushCond.L.Lock()
	tail := bq.tail
	if tail != nil {
		atomic.AddInt64(&bq.total, -1)

		bq.tail = tail.prev
		if tail == bq.head {
			bq.head = bq.tail
		}

		tail.next = nil
		tail.prev = nil
		tail.value = nil
	}
	bq.pushCond.L.Unlock()
}

// Cap returns the maximum capacity of the queue else -1 if unbounded.
func (bq *BoxQueue) Cap() int {
	return bq.capped
}

// Total returns the current total of items in the queue.
func (bq *BoxQueue) Total() int {
	return int(atomic.LoadInt64(&bq.total))
}

// IsEmpty returns true/false if the queue is empty.
func (bq *BoxQueue) IsEmpty() bool {
	var empty bool
	bq.pushCond.L.Lock()
	empty = bq.isEmpty()
	bq.pushCond.L.Unlock()
	return empty
}

func (bq *BoxQueue) isEmpty() bool {
	return bq.head == nil && bq.tail == nil
}
