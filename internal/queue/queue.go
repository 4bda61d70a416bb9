package queue

import (
	"sync"

	"github.com/nathanyu/order-matching-engine/internal/domain"
)

// Queue is an unbounded, blocking, multi-producer/multi-consumer FIFO that
// hands orders from producers to the matching workers. Push never blocks;
// Pop suspends the caller until an order is available. The internal lock
// totally orders pushes and pops, so consumers observe orders in the exact
// sequence the pushes completed.
//
// There is no bounded capacity and no backpressure. Shutdown is modeled by
// Close rather than queue state: after Close, Pop drains whatever is left
// and then reports closed.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	orders []domain.Order
	closed bool
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends an order to the tail and wakes one blocked consumer.
// It returns false if the queue has been closed; the order is dropped.
func (q *Queue) Push(o domain.Order) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.orders = append(q.orders, o)
	q.cond.Signal()
	return true
}

// Pop removes and returns the head order, blocking while the queue is
// empty and open. Once the queue is closed and drained, Pop returns
// ok=false.
func (q *Queue) Pop() (domain.Order, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.orders) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.orders) == 0 {
		return domain.Order{}, false
	}

	o := q.orders[0]
	q.orders = q.orders[1:]
	return o, true
}

// Close marks the queue closed and wakes every blocked consumer so they
// can drain the remaining orders and exit. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of queued orders.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.orders)
}
