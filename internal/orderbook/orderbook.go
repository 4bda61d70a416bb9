package orderbook

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/btree"

	"github.com/nathanyu/order-matching-engine/internal/domain"
)

// DefaultDepth is the number of price levels a snapshot reports per side
// when the caller does not ask for a specific depth.
const DefaultDepth = 5

// TradeSink receives every execution the book produces. Publish is called
// while the book lock is held, so implementations must not call back into
// the book.
type TradeSink interface {
	Publish(trade domain.Trade)
}

// TradeSinkFunc adapts a plain function to the TradeSink interface.
type TradeSinkFunc func(trade domain.Trade)

// Publish calls f(trade).
func (f TradeSinkFunc) Publish(trade domain.Trade) { f(trade) }

// bookLevel is a price level on one side of the book.
// It holds a doubly-linked list of resting orders at this price (FIFO).
type bookLevel struct {
	Price       int64
	TotalVolume int64
	Orders      *list.List // of *domain.Order
}

// front returns the level's oldest resting order. An empty level is an
// invariant breach: levels are deleted the instant their last order fills.
func (l *bookLevel) front() *domain.Order {
	e := l.Orders.Front()
	if e == nil {
		panic(fmt.Sprintf("orderbook: empty level at price %d", l.Price))
	}
	return e.Value.(*domain.Order)
}

// Book is a single-instrument, two-sided, price-time-priority limit order
// book. Each side is a btree keyed by price, holding FIFO levels; best bid
// is the maximum bid price, best ask the minimum ask price.
//
// All exported methods are safe for concurrent use. One book-wide mutex
// serializes every Submit against every other Submit and against Snapshot;
// there is no finer-grained locking. With multiple workers submitting
// concurrently, the relative order of trades from different workers is
// decided by lock acquisition, which is inherent to the design.
type Book struct {
	mu   sync.Mutex
	bids *btree.Map[int64, *bookLevel]
	asks *btree.Map[int64, *bookLevel]
	sink TradeSink
}

// New creates an empty book publishing trades to sink. A nil sink discards
// trades.
func New(sink TradeSink) *Book {
	if sink == nil {
		sink = TradeSinkFunc(func(domain.Trade) {})
	}
	return &Book{
		bids: btree.NewMap[int64, *bookLevel](32),
		asks: btree.NewMap[int64, *bookLevel](32),
		sink: sink,
	}
}

// sideTree returns the btree holding the given side's levels.
func (b *Book) sideTree(side domain.Side) *btree.Map[int64, *bookLevel] {
	if side == domain.SideBuy {
		return b.bids
	}
	return b.asks
}

// oppositeBest returns the best level the incoming side can trade against:
// the lowest ask for a buy, the highest bid for a sell.
func (b *Book) oppositeBest(incoming domain.Side) (int64, *bookLevel, bool) {
	if incoming == domain.SideBuy {
		return b.asks.Min()
	}
	return b.bids.Max()
}

// marketable reports whether the incoming order can trade at bestPrice.
// Market orders are always marketable.
func marketable(o domain.Order, bestPrice int64) bool {
	if o.Type == domain.OrderTypeMarket {
		return true
	}
	if o.Side == domain.SideBuy {
		return bestPrice <= o.Price
	}
	return bestPrice >= o.Price
}

// Submit applies one validated order to the book: it matches against the
// opposite side while marketable, then rests any limit remainder at its own
// price level. Market remainders are discarded. The entire call runs under
// the book lock; trades are published to the sink as they execute.
//
// Submit assumes the ingestion boundary already rejected non-positive
// quantities and prices. Invariant breaches detected here are defects and
// panic rather than degrade.
func (b *Book) Submit(o domain.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for o.Remaining > 0 {
		bestPrice, level, ok := b.oppositeBest(o.Side)
		if !ok || !marketable(o, bestPrice) {
			break
		}

		resting := level.front()
		qty := min(o.Remaining, resting.Remaining)
		if qty <= 0 {
			panic(fmt.Sprintf("orderbook: resting order %d has quantity %d", resting.ID, resting.Remaining))
		}

		o.Remaining -= qty
		resting.Remaining -= qty
		level.TotalVolume -= qty

		b.sink.Publish(domain.Trade{
			ID:          uuid.NewString(),
			AggressorID: o.ID,
			RestingID:   resting.ID,
			Price:       resting.Price, // maker price: the resting order sets the execution price
			Quantity:    qty,
			Timestamp:   time.Now(),
		})

		if resting.Remaining == 0 {
			level.Orders.Remove(level.Orders.Front())
			if level.Orders.Len() == 0 {
				b.sideTree(o.Side.Opposite()).Delete(bestPrice)
			}
		}
	}

	// Market orders never rest, whatever is left is discarded.
	if o.Remaining > 0 && o.Type == domain.OrderTypeLimit {
		b.rest(o)
	}
}

// rest appends the order's remainder to the tail of its own side's level,
// creating the level if absent.
func (b *Book) rest(o domain.Order) {
	tree := b.sideTree(o.Side)
	level, ok := tree.Get(o.Price)
	if !ok {
		level = &bookLevel{Price: o.Price, Orders: list.New()}
		tree.Set(o.Price, level)
	}
	level.TotalVolume += o.Remaining
	resting := o
	level.Orders.PushBack(&resting)
}

// BestBid returns the highest bid price, or ok=false if the bid side is
// empty.
func (b *Book) BestBid() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	price, _, ok := b.bids.Max()
	return price, ok
}

// BestAsk returns the lowest ask price, or ok=false if the ask side is
// empty.
func (b *Book) BestAsk() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	price, _, ok := b.asks.Min()
	return price, ok
}

// Snapshot returns the best depth levels of each side under the book lock,
// so the view is consistent with respect to concurrent submits. Each entry
// carries the front order's remaining quantity for that level.
func (b *Book) Snapshot(depth int) domain.BookSnapshot {
	if depth <= 0 {
		depth = DefaultDepth
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	snap := domain.BookSnapshot{
		Bids:      make([]domain.PriceLevel, 0, depth),
		Asks:      make([]domain.PriceLevel, 0, depth),
		Timestamp: time.Now(),
	}
	b.bids.Reverse(func(price int64, level *bookLevel) bool {
		snap.Bids = append(snap.Bids, domain.PriceLevel{Price: price, Quantity: level.front().Remaining})
		return len(snap.Bids) < depth
	})
	b.asks.Scan(func(price int64, level *bookLevel) bool {
		snap.Asks = append(snap.Asks, domain.PriceLevel{Price: price, Quantity: level.front().Remaining})
		return len(snap.Asks) < depth
	})
	return snap
}
