package market

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/domain/interfaces"
)

// Board holds the in-memory price record per stock and fans committed price
// changes out to attached observers. Notification runs synchronously on the
// caller's goroutine in registration order; a slow observer therefore stalls
// the order path, which is accepted for now and left unbounded.
type Board struct {
	mu        sync.Mutex
	stocks    map[int64]*domain.Stock
	observers []interfaces.PriceObserver
	logger    *logrus.Logger
}

func NewBoard(logger *logrus.Logger) *Board {
	if logger == nil {
		logger = logrus.New()
	}
	return &Board{
		stocks: make(map[int64]*domain.Stock),
		logger: logger,
	}
}

// Track registers or refreshes the board's record for a stock. The stock
// catalog calls this on create/update and the server seeds the board from
// the store at boot.
func (b *Board) Track(stock domain.Stock) {
	b.mu.Lock()
	defer b.mu.Unlock()
	copied := stock
	b.stocks[stock.ID] = &copied
}

// Forget drops a stock from the board after catalog deletion.
func (b *Board) Forget(stockID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.stocks, stockID)
}

// Attach registers an observer. Duplicates are allowed; attaching the same
// observer twice means it is notified twice.
func (b *Board) Attach(observer interfaces.PriceObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, observer)
}

// Detach removes the first registration of observer, if any.
func (b *Board) Detach(observer interfaces.PriceObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, o := range b.observers {
		if o == observer {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// UpdatePrice sets the stock's current price and notifies every observer in
// registration order. An unknown stock id is a silent no-op: the order
// engine validates existence on its own path, and callers that need strict
// checking do the same. Observer errors are logged and never interrupt the
// remaining fan-out.
func (b *Board) UpdatePrice(ctx context.Context, stockID int64, newPrice decimal.Decimal) {
	b.mu.Lock()
	stock, ok := b.stocks[stockID]
	if !ok {
		b.mu.Unlock()
		return
	}
	stock.CurrentPrice = newPrice
	stock.UpdatedAt = time.Now().UTC()
	snapshot := *stock
	observers := make([]interfaces.PriceObserver, len(b.observers))
	copy(observers, b.observers)
	b.mu.Unlock()

	for _, observer := range observers {
		if err := observer.OnPriceUpdate(ctx, snapshot); err != nil {
			b.logger.WithFields(logrus.Fields{
				"stock_id": stockID,
				"price":    newPrice.String(),
			}).Errorf("price observer failed: %v", err)
		}
	}
}

// Quote returns the board's current record for a stock.
func (b *Board) Quote(stockID int64) (domain.Stock, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stock, ok := b.stocks[stockID]
	if !ok {
		return domain.Stock{}, false
	}
	return *stock, true
}
