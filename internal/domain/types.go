package domain

import "time"

// Side represents the order side (buy or sell).
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType distinguishes the two order variants.
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

// Order is a limit or market order.
// Prices are in cents (int64) to avoid floating-point issues.
// A market order carries Price == 0 and matches at whatever price the book
// offers; it never rests. Remaining only ever decreases and never goes
// negative. Timestamp is the arrival time, assigned once at creation.
type Order struct {
	ID        uint64    `json:"order_id"`
	Side      Side      `json:"side"`
	Type      OrderType `json:"type"`
	Price     int64     `json:"price"` // in cents, e.g. 10010 = $100.10
	Quantity  int64     `json:"quantity"`
	Remaining int64     `json:"remaining_quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// Trade represents one execution between an incoming (aggressor) order and
// a resting order. Price follows the maker convention: always the resting
// order's price.
type Trade struct {
	ID          string    `json:"trade_id"`
	AggressorID uint64    `json:"aggressor_order_id"`
	RestingID   uint64    `json:"resting_order_id"`
	Price       int64     `json:"price"`
	Quantity    int64     `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}

// PriceLevel is one entry of a book snapshot. Quantity is the remaining
// quantity of the level's front (oldest) order, not the level aggregate.
type PriceLevel struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
}

// BookSnapshot is a consistent top-of-book view, best levels first.
type BookSnapshot struct {
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	Timestamp time.Time    `json:"timestamp"`
}
