package marketdata

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nathanyu/order-matching-engine/internal/domain"
	"github.com/nathanyu/order-matching-engine/internal/middleware"
)

const ringBufferCapacity = 1024

// RingBuffer is a fixed-size circular buffer of trades.
type RingBuffer struct {
	data  [ringBufferCapacity]*domain.Trade
	head  int // next write position
	count int
}

// Push adds a trade to the ring buffer, overwriting the oldest entry once
// full.
func (rb *RingBuffer) Push(t *domain.Trade) {
	rb.data[rb.head] = t
	rb.head = (rb.head + 1) % ringBufferCapacity
	if rb.count < ringBufferCapacity {
		rb.count++
	}
}

// GetRecent returns the n most recent trades in chronological order.
func (rb *RingBuffer) GetRecent(n int) []*domain.Trade {
	if n <= 0 || rb.count == 0 {
		return nil
	}
	if n > rb.count {
		n = rb.count
	}

	result := make([]*domain.Trade, n)
	start := (rb.head - n + ringBufferCapacity) % ringBufferCapacity
	for i := 0; i < n; i++ {
		idx := (start + i) % ringBufferCapacity
		result[i] = rb.data[idx]
	}
	return result
}

// Publisher is the engine's trade sink: it writes a structured log line per
// execution and keeps a ring buffer of recent trades for the API. It
// guards its state with its own lock, independent of the book lock.
type Publisher struct {
	mu     sync.Mutex
	trades RingBuffer
	logger *zap.Logger
}

// NewPublisher creates a publisher logging through the given logger.
func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// Publish implements orderbook.TradeSink.
func (p *Publisher) Publish(t domain.Trade) {
	p.mu.Lock()
	p.trades.Push(&t)
	p.mu.Unlock()

	middleware.TradesTotal.Inc()
	middleware.TradedVolume.Add(float64(t.Quantity))

	p.logger.Info("trade",
		zap.String("trade_id", t.ID),
		zap.Uint64("aggressor_order_id", t.AggressorID),
		zap.Uint64("resting_order_id", t.RestingID),
		zap.Int64("price", t.Price),
		zap.Int64("quantity", t.Quantity),
	)
}

// Recent returns the n most recent trades, oldest first.
func (p *Publisher) Recent(n int) []*domain.Trade {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trades.GetRecent(n)
}
