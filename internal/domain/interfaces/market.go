package interfaces

import (
	"context"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

// PriceObserver receives a copy of the stock record after every committed
// price change. Notification is synchronous on the order path, so observers
// must not block indefinitely; a returned error is logged by the board and
// never propagated to the order that triggered it.
type PriceObserver interface {
	OnPriceUpdate(ctx context.Context, stock domain.Stock) error
}
