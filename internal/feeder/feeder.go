package feeder

import (
	"context"
	"errors"
	"math/rand"

	"go.uber.org/zap"

	"github.com/nathanyu/order-matching-engine/internal/domain"
	"github.com/nathanyu/order-matching-engine/internal/ingest"
)

// Config holds the price and quantity distributions for generated orders.
// Prices are in cents.
type Config struct {
	BidLow  int64 // inclusive lower bound of the bid price band
	BidHigh int64 // inclusive upper bound of the bid price band
	AskLow  int64
	AskHigh int64
	QtyLow  int64
	QtyHigh int64
	// MarketRatio is the fraction of market orders in the mixed phase.
	MarketRatio float64
}

// DefaultConfig matches the reference simulation: bids 95.00-101.00,
// asks 99.00-105.00, quantities 1-100, half market orders.
func DefaultConfig() Config {
	return Config{
		BidLow:      9500,
		BidHigh:     10100,
		AskLow:      9900,
		AskHigh:     10500,
		QtyLow:      1,
		QtyHigh:     100,
		MarketRatio: 0.5,
	}
}

// Feeder produces random orders through the ingestion gateway. RNG state
// is scoped to the Feeder, so independent feeders do not share a seed and
// runs are reproducible per instance.
type Feeder struct {
	gateway *ingest.Gateway
	cfg     Config
	rng     *rand.Rand
	logger  *zap.Logger
}

// New creates a feeder with its own RNG seeded from seed.
func New(gateway *ingest.Gateway, cfg Config, seed int64, logger *zap.Logger) *Feeder {
	return &Feeder{
		gateway: gateway,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		logger:  logger,
	}
}

func (f *Feeder) randSide() domain.Side {
	if f.rng.Intn(2) == 0 {
		return domain.SideBuy
	}
	return domain.SideSell
}

func (f *Feeder) randBetween(low, high int64) int64 {
	return low + f.rng.Int63n(high-low+1)
}

func (f *Feeder) pushLimit() error {
	side := f.randSide()
	var price int64
	if side == domain.SideBuy {
		price = f.randBetween(f.cfg.BidLow, f.cfg.BidHigh)
	} else {
		price = f.randBetween(f.cfg.AskLow, f.cfg.AskHigh)
	}
	_, err := f.gateway.SubmitLimit(side, price, f.randBetween(f.cfg.QtyLow, f.cfg.QtyHigh))
	return err
}

func (f *Feeder) pushMarket() error {
	_, err := f.gateway.SubmitMarket(f.randSide(), f.randBetween(f.cfg.QtyLow, f.cfg.QtyHigh))
	return err
}

// SeedBook pushes n random limit orders to build initial depth.
func (f *Feeder) SeedBook(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.pushLimit(); err != nil {
			return err
		}
	}
	f.logger.Info("book seeded", zap.Int("orders", n))
	return nil
}

// Run pushes n orders mixing limit and market orders per MarketRatio.
// It stops early if the context is canceled or the gateway reports
// shutdown.
func (f *Feeder) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		if f.rng.Float64() < f.cfg.MarketRatio {
			err = f.pushMarket()
		} else {
			err = f.pushLimit()
		}
		if errors.Is(err, ingest.ErrShuttingDown) {
			f.logger.Info("feeder stopping, engine shutting down", zap.Int("pushed", i))
			return err
		}
		if err != nil {
			return err
		}
	}
	f.logger.Info("feeder finished", zap.Int("orders", n))
	return nil
}
