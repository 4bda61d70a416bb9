package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanyu/order-matching-engine/internal/domain"
	"github.com/nathanyu/order-matching-engine/internal/queue"
)

func TestSubmitLimit_Valid(t *testing.T) {
	q := queue.New()
	g := NewGateway(q)

	id, err := g.SubmitLimit(domain.SideBuy, 10010, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	o, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, uint64(1), o.ID)
	assert.Equal(t, domain.SideBuy, o.Side)
	assert.Equal(t, domain.OrderTypeLimit, o.Type)
	assert.Equal(t, int64(10010), o.Price)
	assert.Equal(t, int64(50), o.Quantity)
	assert.Equal(t, int64(50), o.Remaining)
	assert.False(t, o.Timestamp.IsZero())
}

func TestSubmitMarket_Valid(t *testing.T) {
	q := queue.New()
	g := NewGateway(q)

	_, err := g.SubmitMarket(domain.SideSell, 30)
	require.NoError(t, err)

	o, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, domain.OrderTypeMarket, o.Type)
	assert.Zero(t, o.Price)
}

func TestSubmit_Rejections(t *testing.T) {
	q := queue.New()
	g := NewGateway(q)

	_, err := g.SubmitLimit(domain.SideBuy, 10010, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = g.SubmitLimit(domain.SideBuy, 10010, -5)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = g.SubmitLimit(domain.SideBuy, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = g.SubmitLimit(domain.SideBuy, -100, 10)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = g.SubmitMarket(domain.SideSell, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// Rejected orders never reach the queue and consume no IDs.
	assert.Equal(t, 0, q.Len())
	id, err := g.SubmitLimit(domain.SideSell, 10020, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestSubmit_MonotonicIDs(t *testing.T) {
	q := queue.New()
	g := NewGateway(q)

	var last uint64
	for i := 0; i < 10; i++ {
		id, err := g.SubmitLimit(domain.SideBuy, 10000, 1)
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}
}

func TestSubmit_AfterShutdown(t *testing.T) {
	q := queue.New()
	g := NewGateway(q)
	q.Close()

	_, err := g.SubmitLimit(domain.SideBuy, 10000, 1)
	assert.ErrorIs(t, err, ErrShuttingDown)

	_, err = g.SubmitMarket(domain.SideBuy, 1)
	assert.ErrorIs(t, err, ErrShuttingDown)
}
