package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/AnasAnwaar/StockExchange-DP/internal/application/history"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/market"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/news"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/orders"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/stocks"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/users"
	"github.com/AnasAnwaar/StockExchange-DP/internal/config"
	"github.com/AnasAnwaar/StockExchange-DP/internal/domain/interfaces"
	"github.com/AnasAnwaar/StockExchange-DP/internal/infrastructure/broker"
	ledgerstore "github.com/AnasAnwaar/StockExchange-DP/internal/infrastructure/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/infrastructure/ledger/memory"
	"github.com/AnasAnwaar/StockExchange-DP/internal/infrastructure/quotecache"
	infrahttp "github.com/AnasAnwaar/StockExchange-DP/internal/interfaces/http"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	var store interfaces.LedgerStore
	if cfg.Postgres.DSN != "" {
		repo, err := ledgerstore.NewRepository(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatalf("failed to init ledger store: %v", err)
		}
		store = repo
	} else {
		logger.Warn("DATABASE_DSN not set, using in-memory ledger store")
		store = memory.NewStore()
	}
	defer store.Close()

	board := market.NewBoard(logger)
	stockList, err := store.ListStocks(ctx)
	if err != nil {
		logger.Fatalf("failed to load stock catalog: %v", err)
	}
	for _, stock := range stockList {
		board.Track(stock)
	}
	board.Attach(market.NewStorePersister(store, logger))

	var redisClient *redis.Client
	var quotes *quotecache.Cache
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		quotes = quotecache.New(redisClient, time.Duration(cfg.Cache.QuoteTTLSeconds)*time.Second)
		board.Attach(quotes)
	}

	if cfg.RabbitMQ.URL != "" {
		publisher, err := broker.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.PricesExchange, logger)
		if err != nil {
			logger.Fatalf("failed to init price publisher: %v", err)
		}
		defer publisher.Close()
		board.Attach(publisher)
	}

	engine := orders.NewService(store, board, logger)
	hist := history.New(logger)
	stockSvc := stocks.NewService(store, board)
	userSvc := users.NewService(store)
	newsSvc := news.NewService(store)

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	handler := infrahttp.NewHandler(engine, hist, stockSvc, userSvc, newsSvc, board, quotes, redisClient, cacheTTL)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: handler,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
