// Package memory is an in-process ledger store with the same transactional
// contract as the Postgres repository: WithinTx mutates a copy of the state
// and publishes it only on success, so a failed unit of work leaves no
// partial writes. It backs the test suites and DSN-less local runs.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/domain/interfaces"
)

type positionKey struct {
	userID  int64
	stockID int64
}

type state struct {
	stocks       map[int64]domain.Stock
	users        map[int64]domain.User
	positions    map[positionKey]domain.Position
	transactions []domain.Transaction
	news         map[int64]domain.MarketNews

	nextStockID int64
	nextUserID  int64
	nextNewsID  int64
}

func newState() *state {
	return &state{
		stocks:      make(map[int64]domain.Stock),
		users:       make(map[int64]domain.User),
		positions:   make(map[positionKey]domain.Position),
		news:        make(map[int64]domain.MarketNews),
		nextStockID: 1,
		nextUserID:  1,
		nextNewsID:  1,
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextStockID = s.nextStockID
	c.nextUserID = s.nextUserID
	c.nextNewsID = s.nextNewsID
	for id, stock := range s.stocks {
		c.stocks[id] = stock
	}
	for id, user := range s.users {
		c.users[id] = user
	}
	for key, position := range s.positions {
		c.positions[key] = position
	}
	c.transactions = append(c.transactions, s.transactions...)
	for id, item := range s.news {
		c.news[id] = item
	}
	return c
}

// Store holds all ledger state behind one mutex. Units of work serialize,
// which is the single-process stand-in for the database's row locking.
type Store struct {
	mu    sync.Mutex
	state *state
	inTx  bool
}

var _ interfaces.LedgerStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) Close() {}

// WithinTx runs fn against a copy of the state and swaps it in only when fn
// returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(interfaces.Ledger) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	view := &Store{state: s.state.clone(), inTx: true}
	if err := fn(view); err != nil {
		return err
	}
	s.state = view.state
	return nil
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Stocks

func (s *Store) CreateStock(ctx context.Context, stock *domain.Stock) error {
	if stock == nil {
		return errors.New("stock is nil")
	}
	defer s.lock()()

	now := time.Now().UTC()
	stock.ID = s.state.nextStockID
	s.state.nextStockID++
	stock.CreatedAt = now
	stock.UpdatedAt = now
	s.state.stocks[stock.ID] = *stock
	return nil
}

func (s *Store) GetStock(ctx context.Context, id int64) (*domain.Stock, error) {
	defer s.lock()()

	stock, ok := s.state.stocks[id]
	if !ok {
		return nil, domain.ErrStockNotFound
	}
	return &stock, nil
}

func (s *Store) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	defer s.lock()()

	stocks := make([]domain.Stock, 0, len(s.state.stocks))
	for _, stock := range s.state.stocks {
		stocks = append(stocks, stock)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Symbol < stocks[j].Symbol })
	return stocks, nil
}

func (s *Store) UpdateStock(ctx context.Context, stock *domain.Stock) error {
	if stock == nil {
		return errors.New("stock is nil")
	}
	defer s.lock()()

	if _, ok := s.state.stocks[stock.ID]; !ok {
		return domain.ErrStockNotFound
	}
	stock.UpdatedAt = time.Now().UTC()
	s.state.stocks[stock.ID] = *stock
	return nil
}

func (s *Store) UpdateStockPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	defer s.lock()()

	stock, ok := s.state.stocks[id]
	if !ok {
		return domain.ErrStockNotFound
	}
	stock.CurrentPrice = price
	stock.UpdatedAt = time.Now().UTC()
	s.state.stocks[id] = stock
	return nil
}

func (s *Store) DeleteStock(ctx context.Context, id int64) error {
	defer s.lock()()

	if _, ok := s.state.stocks[id]; !ok {
		return domain.ErrStockNotFound
	}
	delete(s.state.stocks, id)
	return nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	defer s.lock()()

	now := time.Now().UTC()
	user.ID = s.state.nextUserID
	s.state.nextUserID++
	user.CreatedAt = now
	user.UpdatedAt = now
	s.state.users[user.ID] = *user
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	defer s.lock()()

	user, ok := s.state.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (s *Store) UpdateUserBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	defer s.lock()()

	user, ok := s.state.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Balance = balance
	user.UpdatedAt = time.Now().UTC()
	s.state.users[id] = user
	return nil
}

// Positions

func (s *Store) GetPosition(ctx context.Context, userID, stockID int64) (*domain.Position, error) {
	defer s.lock()()

	position, ok := s.state.positions[positionKey{userID, stockID}]
	if !ok {
		return nil, domain.ErrPositionNotFound
	}
	return &position, nil
}

func (s *Store) ListPositions(ctx context.Context, userID int64) ([]domain.Position, error) {
	defer s.lock()()

	var positions []domain.Position
	for key, position := range s.state.positions {
		if key.userID == userID {
			positions = append(positions, position)
		}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].StockID < positions[j].StockID })
	return positions, nil
}

func (s *Store) ApplyPositionDelta(ctx context.Context, userID, stockID, delta int64) error {
	defer s.lock()()

	key := positionKey{userID, stockID}
	current := s.state.positions[key].Quantity
	next := current + delta
	switch {
	case next < 0:
		return fmt.Errorf("%w: position %d would go negative", domain.ErrInsufficientHoldings, stockID)
	case next == 0:
		delete(s.state.positions, key)
	default:
		s.state.positions[key] = domain.Position{
			UserID:    userID,
			StockID:   stockID,
			Quantity:  next,
			UpdatedAt: time.Now().UTC(),
		}
	}
	return nil
}

// Transactions

func (s *Store) AddTransaction(ctx context.Context, tx *domain.Transaction) error {
	if tx == nil {
		return errors.New("transaction is nil")
	}
	defer s.lock()()

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	s.state.transactions = append(s.state.transactions, *tx)
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	defer s.lock()()

	var transactions []domain.Transaction
	for i := len(s.state.transactions) - 1; i >= 0; i-- {
		if s.state.transactions[i].UserID == userID {
			transactions = append(transactions, s.state.transactions[i])
		}
	}
	return transactions, nil
}

// News

func (s *Store) AddNews(ctx context.Context, news *domain.MarketNews) error {
	if news == nil {
		return errors.New("news is nil")
	}
	defer s.lock()()

	news.ID = s.state.nextNewsID
	s.state.nextNewsID++
	s.state.news[news.ID] = *news
	return nil
}

func (s *Store) ListNews(ctx context.Context) ([]domain.MarketNews, error) {
	defer s.lock()()

	items := make([]domain.MarketNews, 0, len(s.state.news))
	for _, item := range s.state.news {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].PublishedAt.Equal(items[j].PublishedAt) {
			return items[i].PublishedAt.After(items[j].PublishedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (s *Store) DeleteNews(ctx context.Context, id int64) error {
	defer s.lock()()

	if _, ok := s.state.news[id]; !ok {
		return domain.ErrNewsNotFound
	}
	delete(s.state.news, id)
	return nil
}
