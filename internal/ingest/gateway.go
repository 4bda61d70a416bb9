package ingest

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/nathanyu/order-matching-engine/internal/domain"
	"github.com/nathanyu/order-matching-engine/internal/middleware"
	"github.com/nathanyu/order-matching-engine/internal/queue"
)

var (
	// ErrInvalidQuantity rejects zero or negative quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidPrice rejects zero or negative limit prices.
	ErrInvalidPrice = errors.New("limit price must be positive")
	// ErrShuttingDown rejects orders arriving after the queue closed.
	ErrShuttingDown = errors.New("engine is shutting down")
)

// Gateway is the validation boundary between producers and the matching
// core. It assigns monotonic order IDs, stamps arrival timestamps,
// rejects invalid orders, and enqueues the rest. Validation never happens
// inside the book: the book assumes every order it sees is well formed.
type Gateway struct {
	queue  *queue.Queue
	nextID atomic.Uint64
}

// NewGateway creates a gateway feeding the given queue.
func NewGateway(q *queue.Queue) *Gateway {
	return &Gateway{queue: q}
}

// SubmitLimit validates and enqueues a limit order, returning the assigned
// order ID.
func (g *Gateway) SubmitLimit(side domain.Side, price, quantity int64) (uint64, error) {
	if quantity <= 0 {
		middleware.OrdersRejected.WithLabelValues("invalid_quantity").Inc()
		return 0, ErrInvalidQuantity
	}
	if price <= 0 {
		middleware.OrdersRejected.WithLabelValues("invalid_price").Inc()
		return 0, ErrInvalidPrice
	}
	return g.enqueue(domain.Order{
		Side:      side,
		Type:      domain.OrderTypeLimit,
		Price:     price,
		Quantity:  quantity,
		Remaining: quantity,
	})
}

// SubmitMarket validates and enqueues a market order, returning the
// assigned order ID.
func (g *Gateway) SubmitMarket(side domain.Side, quantity int64) (uint64, error) {
	if quantity <= 0 {
		middleware.OrdersRejected.WithLabelValues("invalid_quantity").Inc()
		return 0, ErrInvalidQuantity
	}
	return g.enqueue(domain.Order{
		Side:      side,
		Type:      domain.OrderTypeMarket,
		Quantity:  quantity,
		Remaining: quantity,
	})
}

func (g *Gateway) enqueue(o domain.Order) (uint64, error) {
	o.ID = g.nextID.Add(1)
	o.Timestamp = time.Now()

	if !g.queue.Push(o) {
		middleware.OrdersRejected.WithLabelValues("shutting_down").Inc()
		return 0, ErrShuttingDown
	}
	middleware.OrdersAccepted.WithLabelValues(string(o.Side), string(o.Type)).Inc()
	middleware.QueueDepth.Set(float64(g.queue.Len()))
	return o.ID, nil
}
