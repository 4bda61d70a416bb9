package feeder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nathanyu/order-matching-engine/internal/domain"
	"github.com/nathanyu/order-matching-engine/internal/ingest"
	"github.com/nathanyu/order-matching-engine/internal/queue"
)

func TestSeedBook_GeneratesValidLimits(t *testing.T) {
	q := queue.New()
	f := New(ingest.NewGateway(q), DefaultConfig(), 42, zap.NewNop())

	require.NoError(t, f.SeedBook(context.Background(), 200))
	require.Equal(t, 200, q.Len())

	cfg := DefaultConfig()
	for i := 0; i < 200; i++ {
		o, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, domain.OrderTypeLimit, o.Type)
		assert.GreaterOrEqual(t, o.Quantity, cfg.QtyLow)
		assert.LessOrEqual(t, o.Quantity, cfg.QtyHigh)
		if o.Side == domain.SideBuy {
			assert.GreaterOrEqual(t, o.Price, cfg.BidLow)
			assert.LessOrEqual(t, o.Price, cfg.BidHigh)
		} else {
			assert.GreaterOrEqual(t, o.Price, cfg.AskLow)
			assert.LessOrEqual(t, o.Price, cfg.AskHigh)
		}
	}
}

func TestRun_MarketRatio(t *testing.T) {
	q := queue.New()
	cfg := DefaultConfig()
	cfg.MarketRatio = 1.0
	f := New(ingest.NewGateway(q), cfg, 7, zap.NewNop())

	require.NoError(t, f.Run(context.Background(), 50))

	for i := 0; i < 50; i++ {
		o, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, domain.OrderTypeMarket, o.Type)
		assert.Zero(t, o.Price)
	}
}

func TestRun_DeterministicPerSeed(t *testing.T) {
	type key struct {
		side  domain.Side
		typ   domain.OrderType
		price int64
		qty   int64
	}

	generate := func() []key {
		q := queue.New()
		f := New(ingest.NewGateway(q), DefaultConfig(), 99, zap.NewNop())
		require.NoError(t, f.Run(context.Background(), 100))

		var out []key
		for {
			o, ok := q.Pop()
			if !ok {
				break
			}
			out = append(out, key{o.Side, o.Type, o.Price, o.Quantity})
			if len(out) == 100 {
				break
			}
		}
		return out
	}

	assert.Equal(t, generate(), generate())
}

func TestRun_StopsOnShutdown(t *testing.T) {
	q := queue.New()
	f := New(ingest.NewGateway(q), DefaultConfig(), 1, zap.NewNop())

	q.Close()
	err := f.Run(context.Background(), 10)
	assert.ErrorIs(t, err, ingest.ErrShuttingDown)
}

func TestRun_RespectsContext(t *testing.T) {
	q := queue.New()
	f := New(ingest.NewGateway(q), DefaultConfig(), 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.Run(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, q.Len())
}
