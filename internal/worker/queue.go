package worker

import "sync"

// fifo is an unbounded multi-producer single-consumer queue. Send never
// blocks, so gate callers are held only for the duration of the gate's
// critical section; the consumer blocks in Recv until an item arrives or
// the queue is closed.
type fifo[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
}

func newFIFO[T any]() *fifo[T] {
	q := &fifo[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Send appends v. Sends after Close are dropped.
func (q *fifo[T]) Send(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, v)
	q.cond.Signal()
}

// Recv blocks until an item is available or the queue is closed and
// drained. The second return is false only in the latter case.
func (q *fifo[T]) Recv() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.popLocked(), true
}

// TryRecv removes and returns the head without blocking.
func (q *fifo[T]) TryRecv() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.popLocked(), true
}

// Drain removes and returns all pending items in arrival order.
func (q *fifo[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Len reports the number of pending items.
func (q *fifo[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close wakes any blocked consumer. Pending items may still be received.
func (q *fifo[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *fifo[T]) popLocked() T {
	v := q.items[0]
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return v
}
