package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nathanyu/order-matching-engine/internal/domain"
	"github.com/nathanyu/order-matching-engine/internal/ingest"
	"github.com/nathanyu/order-matching-engine/internal/marketdata"
	"github.com/nathanyu/order-matching-engine/internal/orderbook"
)

var centsPerUnit = decimal.NewFromInt(100)

// Handler holds the HTTP handler dependencies.
type Handler struct {
	gateway   *ingest.Gateway
	book      *orderbook.Book
	publisher *marketdata.Publisher
	depth     int
}

// NewHandler creates a new Handler. depth is the default snapshot depth.
func NewHandler(gateway *ingest.Gateway, book *orderbook.Book, publisher *marketdata.Publisher, depth int) *Handler {
	return &Handler{
		gateway:   gateway,
		book:      book,
		publisher: publisher,
		depth:     depth,
	}
}

// RegisterRoutes sets up the Gin routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	v1 := r.Group("/v1")
	{
		v1.POST("/order", h.PlaceOrder)
		v1.GET("/marketdata/orderBook", h.GetOrderBook)
		v1.GET("/trades", h.GetTrades)
	}
}

// Health returns a health check response.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "order-matching-engine",
	})
}

// PlaceOrderRequest is the request body for placing an order.
// Price is a decimal string ("100.10") and is required for limit orders.
type PlaceOrderRequest struct {
	Side     domain.Side      `json:"side" binding:"required"`
	Type     domain.OrderType `json:"type" binding:"required"`
	Price    string           `json:"price"`
	Quantity int64            `json:"quantity" binding:"required"`
}

// PlaceOrder handles POST /v1/order. Matching is asynchronous: a 202 means
// the order passed validation and entered the handoff queue.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Side != domain.SideBuy && req.Side != domain.SideSell {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be 'buy' or 'sell'"})
		return
	}

	var (
		id  uint64
		err error
	)
	switch req.Type {
	case domain.OrderTypeLimit:
		var price int64
		price, err = parsePrice(req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id, err = h.gateway.SubmitLimit(req.Side, price, req.Quantity)
	case domain.OrderTypeMarket:
		if req.Price != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "market orders must not carry a price"})
			return
		}
		id, err = h.gateway.SubmitMarket(req.Side, req.Quantity)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be 'limit' or 'market'"})
		return
	}

	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ingest.ErrShuttingDown) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"order_id": id})
}

// parsePrice converts a decimal price string to integer cents.
func parsePrice(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("price is required for limit orders")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.New("price must be a decimal number")
	}
	cents := d.Mul(centsPerUnit)
	if !cents.IsInteger() {
		return 0, errors.New("price has more than two decimal places")
	}
	if !cents.IsPositive() {
		return 0, ingest.ErrInvalidPrice
	}
	return cents.IntPart(), nil
}

// GetOrderBook handles GET /v1/marketdata/orderBook.
func (h *Handler) GetOrderBook(c *gin.Context) {
	depthStr := c.DefaultQuery("depth", strconv.Itoa(h.depth))
	depth, err := strconv.Atoi(depthStr)
	if err != nil || depth <= 0 {
		depth = h.depth
	}

	c.JSON(http.StatusOK, h.book.Snapshot(depth))
}

// GetTrades handles GET /v1/trades.
func (h *Handler) GetTrades(c *gin.Context) {
	countStr := c.DefaultQuery("count", "100")
	count, err := strconv.Atoi(countStr)
	if err != nil || count <= 0 {
		count = 100
	}

	trades := h.publisher.Recent(count)
	if trades == nil {
		trades = []*domain.Trade{}
	}
	c.JSON(http.StatusOK, trades)
}
