package market

import (
	"context"

	"github.com/sirupsen/logrus"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/domain/interfaces"
)

// StorePersister is the observer that writes the new price back to the
// ledger store. It runs after the order's own commit, so a write failure
// here only means the stored quote lags until the next execution; the trade
// itself already stands.
type StorePersister struct {
	store  interfaces.Ledger
	logger *logrus.Logger
}

func NewStorePersister(store interfaces.Ledger, logger *logrus.Logger) *StorePersister {
	if logger == nil {
		logger = logrus.New()
	}
	return &StorePersister{store: store, logger: logger}
}

func (p *StorePersister) OnPriceUpdate(ctx context.Context, stock domain.Stock) error {
	if err := p.store.UpdateStockPrice(ctx, stock.ID, stock.CurrentPrice); err != nil {
		p.logger.WithField("stock_id", stock.ID).Errorf("persist stock price: %v", err)
		return err
	}
	return nil
}
