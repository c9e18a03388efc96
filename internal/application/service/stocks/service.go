package stocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/market"
	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/domain/interfaces"
)

// Service manages the stock catalog. Writes are mirrored into the price
// board so order executions always find an in-memory record to update.
type Service struct {
	store interfaces.LedgerStore
	board *market.Board
}

func NewService(store interfaces.LedgerStore, board *market.Board) *Service {
	return &Service{store: store, board: board}
}

// Create builds a stock of the given kind and persists it. Bond and ETF
// names receive their kind suffix, matching the listing convention.
func (s *Service) Create(ctx context.Context, kind domain.StockKind, name, symbol string, price decimal.Decimal) (*domain.Stock, error) {
	stock, err := domain.NewStock(kind, name, symbol, price)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateStock(ctx, stock); err != nil {
		return nil, err
	}
	if s.board != nil {
		s.board.Track(*stock)
	}
	return stock, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Stock, error) {
	return s.store.GetStock(ctx, id)
}

// List returns the catalog ordered by the requested sort strategy.
func (s *Service) List(ctx context.Context, order SortOrder) ([]domain.Stock, error) {
	stocks, err := s.store.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	Sort(stocks, order)
	return stocks, nil
}

func (s *Service) Update(ctx context.Context, stock *domain.Stock) error {
	if stock == nil {
		return domain.ErrInvalidArgument
	}
	if err := s.store.UpdateStock(ctx, stock); err != nil {
		return err
	}
	if s.board != nil {
		s.board.Track(*stock)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteStock(ctx, id); err != nil {
		return err
	}
	if s.board != nil {
		s.board.Forget(id)
	}
	return nil
}
