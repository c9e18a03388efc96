package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
)

// Ledger is the per-entity read/write surface of the trading ledger. The same
// interface is satisfied by a plain store handle and by a transaction-bound
// view handed out by WithinTx, so services write their logic once.
type Ledger interface {
	CreateStock(ctx context.Context, stock *domain.Stock) error
	GetStock(ctx context.Context, id int64) (*domain.Stock, error)
	ListStocks(ctx context.Context) ([]domain.Stock, error)
	UpdateStock(ctx context.Context, stock *domain.Stock) error
	UpdateStockPrice(ctx context.Context, id int64, price decimal.Decimal) error
	DeleteStock(ctx context.Context, id int64) error

	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUserBalance(ctx context.Context, id int64, balance decimal.Decimal) error

	GetPosition(ctx context.Context, userID, stockID int64) (*domain.Position, error)
	ListPositions(ctx context.Context, userID int64) ([]domain.Position, error)
	// ApplyPositionDelta upserts the (userID, stockID) position by delta and
	// deletes the row when the resulting quantity reaches zero. The caller
	// validates that the result never goes negative.
	ApplyPositionDelta(ctx context.Context, userID, stockID, delta int64) error

	AddTransaction(ctx context.Context, tx *domain.Transaction) error
	ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error)

	AddNews(ctx context.Context, news *domain.MarketNews) error
	ListNews(ctx context.Context) ([]domain.MarketNews, error)
	DeleteNews(ctx context.Context, id int64) error
}

// LedgerStore is a Ledger that can also open an atomic unit of work.
type LedgerStore interface {
	Ledger

	// WithinTx runs fn against a transaction-bound Ledger. A nil return
	// commits; any error rolls every write back and is returned unchanged.
	WithinTx(ctx context.Context, fn func(Ledger) error) error

	Close()
}
