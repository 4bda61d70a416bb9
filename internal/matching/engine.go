package matching

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nathanyu/order-matching-engine/internal/middleware"
	"github.com/nathanyu/order-matching-engine/internal/orderbook"
	"github.com/nathanyu/order-matching-engine/internal/queue"
)

// Engine owns the order book, the handoff queue, and the pool of workers
// that drains one into the other. There is no matching-dedicated thread:
// matching runs inline in whichever worker's Submit call holds the book
// lock. With more than one worker, the relative order of trades from
// different workers follows lock acquisition, not dequeue order.
type Engine struct {
	book    *orderbook.Book
	queue   *queue.Queue
	workers int
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewEngine creates an engine with the given worker count.
func NewEngine(book *orderbook.Book, q *queue.Queue, workers int, logger *zap.Logger) *Engine {
	if workers <= 0 {
		workers = 1
	}
	return &Engine{
		book:    book,
		queue:   q,
		workers: workers,
		logger:  logger,
	}
}

// Book returns the engine's order book.
func (e *Engine) Book() *orderbook.Book {
	return e.book
}

// Start launches the worker goroutines.
func (e *Engine) Start() {
	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go e.run(i)
	}
	e.logger.Info("matching workers started", zap.Int("workers", e.workers))
}

// run is one worker loop: pop from the queue (blocking), submit to the
// book, repeat until the queue is closed and drained.
func (e *Engine) run(id int) {
	defer e.wg.Done()

	for {
		order, ok := e.queue.Pop()
		if !ok {
			e.logger.Debug("worker exiting", zap.Int("worker", id))
			return
		}

		start := time.Now()
		e.book.Submit(order)
		middleware.SubmitDuration.Observe(time.Since(start).Seconds())
		middleware.QueueDepth.Set(float64(e.queue.Len()))
	}
}

// Stop closes the queue and joins every worker. Orders already queued are
// drained before workers exit, so Stop gives a deterministic shutdown.
func (e *Engine) Stop() {
	e.queue.Close()
	e.wg.Wait()
	e.logger.Info("matching workers stopped")
}
