package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nathanyu/order-matching-engine/internal/config"
	"github.com/nathanyu/order-matching-engine/internal/feeder"
	"github.com/nathanyu/order-matching-engine/internal/handler"
	"github.com/nathanyu/order-matching-engine/internal/ingest"
	"github.com/nathanyu/order-matching-engine/internal/logging"
	"github.com/nathanyu/order-matching-engine/internal/marketdata"
	"github.com/nathanyu/order-matching-engine/internal/matching"
	"github.com/nathanyu/order-matching-engine/internal/middleware"
	"github.com/nathanyu/order-matching-engine/internal/orderbook"
	"github.com/nathanyu/order-matching-engine/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting order matching engine",
		zap.Int("workers", cfg.Workers),
		zap.Int("snapshot_depth", cfg.SnapshotDepth),
	)

	// --- Core components ---

	// Trade publisher (structured trade log + recent-trade buffer)
	publisher := marketdata.NewPublisher(logger)

	// Order book, publishing every execution to the publisher
	book := orderbook.New(publisher)

	// Handoff queue between producers and matching workers
	q := queue.New()

	// Ingestion gateway (validation, order IDs, arrival timestamps)
	gateway := ingest.NewGateway(q)

	// Matching engine: N workers draining the queue into the book
	engine := matching.NewEngine(book, q, cfg.Workers, logger)
	engine.Start()

	// --- Optional built-in simulation ---

	feederCtx, stopFeeder := context.WithCancel(context.Background())
	defer stopFeeder()
	if cfg.Feeder.Enabled {
		fcfg := feeder.DefaultConfig()
		fcfg.MarketRatio = cfg.Feeder.MarketRatio
		f := feeder.New(gateway, fcfg, cfg.Feeder.Seed, logger)
		go func() {
			if err := f.SeedBook(feederCtx, cfg.Feeder.SeedOrders); err != nil {
				logger.Warn("feeder seed phase ended early", zap.Error(err))
				return
			}
			if err := f.Run(feederCtx, cfg.Feeder.MixedOrders); err != nil {
				logger.Warn("feeder mixed phase ended early", zap.Error(err))
			}
		}()
	}

	// --- HTTP server ---

	r := gin.Default()
	r.Use(middleware.PrometheusMiddleware())

	h := handler.NewHandler(gateway, book, publisher, cfg.SnapshotDepth)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	// --- Metrics server ---

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("metrics server listening", zap.String("port", cfg.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("metrics server error", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("http server listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Stop producers first, then drain the queue and join the workers.
	stopFeeder()
	engine.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown error", zap.Error(err))
	}

	logger.Info("order matching engine stopped")
}
