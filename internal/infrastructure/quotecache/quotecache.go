// Package quotecache keeps the latest quote per stock in Redis so the quote
// endpoint answers without touching Postgres.
package quotecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/domain/interfaces"
)

// Quote is the cached snapshot of a stock's last execution price.
type Quote struct {
	StockID   int64           `json:"stock_id"`
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Cache is a price observer that writes through to Redis on every committed
// price change.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ interfaces.PriceObserver = (*Cache)(nil)

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func key(stockID int64) string {
	return fmt.Sprintf("quote:%d", stockID)
}

func (c *Cache) OnPriceUpdate(ctx context.Context, stock domain.Stock) error {
	body, err := json.Marshal(Quote{
		StockID:   stock.ID,
		Symbol:    stock.Symbol,
		Price:     stock.CurrentPrice,
		UpdatedAt: stock.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	return c.client.Set(ctx, key(stock.ID), body, c.ttl).Err()
}

// Get returns the cached quote, or ok=false on a miss.
func (c *Cache) Get(ctx context.Context, stockID int64) (Quote, bool, error) {
	raw, err := c.client.Get(ctx, key(stockID)).Bytes()
	if err == redis.Nil {
		return Quote{}, false, nil
	}
	if err != nil {
		return Quote{}, false, err
	}
	var quote Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return Quote{}, false, err
	}
	return quote, true, nil
}
