// Seed loads demo stocks and trading accounts into Postgres so a fresh
// deployment has something to trade against.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

type demoStock struct {
	kind   domain.StockKind
	name   string
	symbol string
	price  string
}

type demoUser struct {
	username string
	email    string
	balance  string
}

var demoStocks = []demoStock{
	{domain.KindEquity, "Apple", "AAPL", "189.30"},
	{domain.KindEquity, "Microsoft", "MSFT", "402.75"},
	{domain.KindEquity, "Tesla", "TSLA", "244.10"},
	{domain.KindBond, "US Treasury 10Y", "UST10", "98.45"},
	{domain.KindEtf, "S&P 500", "SPY", "502.20"},
}

var demoUsers = []demoUser{
	{"alice", "alice@example.com", "10000"},
	{"bob", "bob@example.com", "2500"},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		logger.Fatal("DATABASE_DSN is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := upsertStocks(ctx, pool); err != nil {
		logger.Fatalf("seed stocks: %v", err)
	}
	logger.WithField("stocks", len(demoStocks)).Info("stocks seeded")

	if err := upsertUsers(ctx, pool); err != nil {
		logger.Fatalf("seed users: %v", err)
	}
	logger.WithField("users", len(demoUsers)).Info("users seeded")
}

func upsertStocks(ctx context.Context, pool *pgxpool.Pool) error {
	const query = `
		INSERT INTO stocks (symbol, name, kind, current_price, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$5)
		ON CONFLICT (symbol) DO UPDATE
		SET name=EXCLUDED.name, kind=EXCLUDED.kind, updated_at=EXCLUDED.updated_at`

	now := time.Now().UTC()
	for _, seed := range demoStocks {
		price, err := decimal.NewFromString(seed.price)
		if err != nil {
			return err
		}
		stock, err := domain.NewStock(seed.kind, seed.name, seed.symbol, price)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, query,
			stock.Symbol, stock.Name, stock.Kind, stock.CurrentPrice, now); err != nil {
			return err
		}
	}
	return nil
}

func upsertUsers(ctx context.Context, pool *pgxpool.Pool) error {
	const query = `
		INSERT INTO users (username, email, balance, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$4)
		ON CONFLICT (username) DO NOTHING`

	now := time.Now().UTC()
	for _, seed := range demoUsers {
		balance, err := decimal.NewFromString(seed.balance)
		if err != nil {
			return err
		}
		if balance.IsNegative() {
			return errors.New("demo balance cannot be negative")
		}
		if _, err := pool.Exec(ctx, query, seed.username, seed.email, balance, now); err != nil {
			return err
		}
	}
	return nil
}
